package screening

import (
	"context"
	"strconv"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
}

// RegisterSteps registers screening step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &screeningSteps{tc: tc}

	ctx.Step(`^I screen the (individual|entity) "([^"]*)" with threshold ([\d.]+)$`, steps.screen)
	ctx.Step(`^I screen the (individual|entity) "([^"]*)" with threshold ([\d.]+) in (strict|permissive) mode$`, steps.screenWithMode)
	ctx.Step(`^I screen the (individual|entity) "([^"]*)" with native threshold ([\d.]+)$`, steps.screenNative)
	ctx.Step(`^I screen a record of type "([^"]*)" named "([^"]*)"$`, steps.screenRawType)
	ctx.Step(`^I screen "([^"]*)" without a threshold$`, steps.screenWithoutThreshold)
}

type screeningSteps struct {
	tc TestContext
}

func (s *screeningSteps) screen(ctx context.Context, recordType, name, threshold string) error {
	return s.post(recordType, name, threshold, "", "")
}

func (s *screeningSteps) screenWithMode(ctx context.Context, recordType, name, threshold, mode string) error {
	return s.post(recordType, name, threshold, "", mode)
}

func (s *screeningSteps) screenNative(ctx context.Context, recordType, name, threshold string) error {
	return s.post(recordType, name, threshold, "native", "")
}

func (s *screeningSteps) screenRawType(ctx context.Context, recordType, name string) error {
	return s.post(recordType, name, "0.5", "", "")
}

func (s *screeningSteps) screenWithoutThreshold(ctx context.Context, name string) error {
	return s.tc.POST("/v1/screen", map[string]interface{}{
		"name": name,
		"type": "individual",
	})
}

func (s *screeningSteps) post(recordType, name, threshold, scale, mode string) error {
	value, err := strconv.ParseFloat(threshold, 64)
	if err != nil {
		return err
	}
	body := map[string]interface{}{
		"name":      name,
		"type":      recordType,
		"threshold": value,
	}
	if scale != "" {
		body["threshold_scale"] = scale
	}
	if mode != "" {
		body["mode"] = mode
	}
	return s.tc.POST("/v1/screen", body)
}
