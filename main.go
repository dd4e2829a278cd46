package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/cfp-server/cfp-contract-tests/cfptests"
	"github.com/cfp-server/cfp-contract-tests/config"
	"github.com/cfp-server/cfp-contract-tests/framework"

	"github.com/fatih/color"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldlog"
)

func main() {
	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}
	if params.noColor {
		color.NoColor = true
	}

	cfg, err := config.Load(params.configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %s\n", err)
		os.Exit(1)
	}
	params.applyOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid parameters: %s\n", err)
		os.Exit(1)
	}

	loggers := ldlog.NewDefaultLoggers()
	loggers.SetBaseLogger(log.New(os.Stdout, "", log.LstdFlags))
	loggers.SetMinLevel(cfg.MinLogLevel())

	user := cfptests.NewTestUser()
	if cfg.User.Email != "" {
		user = cfptests.ExistingTestUser(cfg.User.Email, cfg.User.Password)
	}

	executor := framework.NewExecutor(
		cfg.BaseURL,
		cfg.RequestTimeout(),
		framework.WithGetRetries(cfg.GetRetries, 0),
	)

	fmt.Printf("Running test suite against %s as %s\n", executor.BaseURL(), user.Email)
	fmt.Println()
	framework.PrintFilterDescription(os.Stdout, params.filters)

	testLogger := &ConsoleTestLogger{
		Out:                  color.Output,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	results := cfptests.RunTestSuite(context.Background(), cfptests.SuiteParams{
		Executor:        executor,
		User:            user,
		MaxResponseTime: cfg.MaxResponseTime(),
		Loggers:         loggers,
		Filter:          params.filters.AsFilter,
		TestLogger:      testLogger,
	})

	fmt.Println()
	framework.PrintResults(color.Output, results)
	if !results.OK() {
		if len(results.Failures) != 0 {
			fmt.Println()
			fmt.Println("To rerun the failed groups with debug output:")
			fmt.Printf("  %s\n", params.rerunCommand(os.Args[0], results.Failures))
		}
		os.Exit(1)
	}
}
