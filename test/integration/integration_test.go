package integration

import (
	"context"
	"os"
	"testing"

	"github.com/cucumber/godog"
)

// TestFeatures runs features/ against Postgres in a container. Set
// INTEGRATION_TEST=1 to enable it and GODOG_TAGS to select scenarios.
func TestFeatures(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") == "" {
		t.Skip("INTEGRATION_TEST not set")
	}

	ctx := context.Background()
	tc, err := NewTestContext(ctx)
	if err != nil {
		t.Fatalf("setting up test environment: %v", err)
	}
	t.Cleanup(func() { tc.Close(ctx) })

	opts := &godog.Options{
		Format:   "pretty",
		Paths:    []string{"features"},
		Tags:     os.Getenv("GODOG_TAGS"),
		Strict:   true,
		TestingT: t,
	}
	status := godog.TestSuite{
		Name: "aiact-compliance",
		ScenarioInitializer: func(sc *godog.ScenarioContext) {
			NewStepsContext(tc).RegisterSteps(sc)
		},
		Options: opts,
	}.Run()
	if status != 0 {
		t.Fatalf("feature suite exited with status %d", status)
	}
}
