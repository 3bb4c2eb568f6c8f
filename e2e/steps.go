package e2e

import (
	"github.com/cucumber/godog"

	"namescreen/e2e/steps/common"
	"namescreen/e2e/steps/registry"
	"namescreen/e2e/steps/screening"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Generic requests and response assertions
	common.RegisterSteps(ctx, tc)

	// Screening requests
	screening.RegisterSteps(ctx, tc)

	// Registry stats and admin refresh
	registry.RegisterSteps(ctx, tc)
}
