package registry

import (
	"context"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POSTWithHeaders(path string, body interface{}, headers map[string]string) error
	GET(path string, headers map[string]string) error
	GetAdminToken() string
}

// RegisterSteps registers registry step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &registrySteps{tc: tc}

	ctx.Step(`^I request the registry stats$`, steps.requestStats)
	ctx.Step(`^I refresh the registry as an admin$`, steps.refreshAsAdmin)
	ctx.Step(`^I refresh the registry with token "([^"]*)"$`, steps.refreshWithToken)
	ctx.Step(`^I refresh the registry without a token$`, steps.refreshWithoutToken)
}

type registrySteps struct {
	tc TestContext
}

func (s *registrySteps) requestStats(ctx context.Context) error {
	return s.tc.GET("/v1/registry/stats", nil)
}

func (s *registrySteps) refreshAsAdmin(ctx context.Context) error {
	if s.tc.GetAdminToken() == "" {
		return godog.ErrPending
	}
	return s.refreshWithToken(ctx, s.tc.GetAdminToken())
}

func (s *registrySteps) refreshWithToken(ctx context.Context, token string) error {
	return s.tc.POSTWithHeaders("/v1/admin/registry/refresh", nil, map[string]string{
		"Authorization": "Bearer " + token,
	})
}

func (s *registrySteps) refreshWithoutToken(ctx context.Context) error {
	return s.tc.POSTWithHeaders("/v1/admin/registry/refresh", nil, nil)
}
