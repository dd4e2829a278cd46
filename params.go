package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/cfp-server/cfp-contract-tests/config"
	"github.com/cfp-server/cfp-contract-tests/framework"

	"github.com/alessio/shellescape"
)

type commandParams struct {
	configFile string
	serviceURL string
	timeoutMS  int
	filters    framework.RegexFilters
	debug      bool
	debugAll   bool
	noColor    bool
	explicit   map[string]bool
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ExitOnError)
	fs.StringVar(&c.configFile, "config", "", "optional configuration file (YAML or JSON)")
	fs.StringVar(&c.serviceURL, "url", "", "base URL of the service under test (overrides CFP_BASE_URL)")
	fs.IntVar(&c.timeoutMS, "timeout-ms", 0, "request timeout in milliseconds (overrides CFP_REQUEST_TIMEOUT_MS)")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")
	fs.BoolVar(&c.noColor, "no-color", false, "disable colored output")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	c.explicit = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { c.explicit[f.Name] = true })
	return true
}

// applyOverrides copies any values that were given on the command line into the configuration,
// where they take precedence over the config file and environment.
func (c *commandParams) applyOverrides(cfg *config.Config) {
	if c.explicit["url"] {
		cfg.BaseURL = c.serviceURL
	}
	if c.explicit["timeout-ms"] {
		cfg.RequestTimeoutMS = c.timeoutMS
	}
	if c.debugAll {
		cfg.LogLevel = "debug"
	}
}

// rerunCommand builds a command line that runs only the groups containing the given failures,
// with the same target as this run.
func (c *commandParams) rerunCommand(program string, failures []framework.TestResult) string {
	var b commandBuilder
	b.add(program)
	if c.configFile != "" {
		b.add("-config", c.configFile)
	}
	if c.explicit["url"] {
		b.add("-url", c.serviceURL)
	}
	seen := make(map[string]bool)
	for _, f := range failures {
		pattern := framework.GroupPattern(f.TestID)
		if pattern == "" || seen[pattern] {
			continue
		}
		seen[pattern] = true
		b.add("-run", pattern)
	}
	b.add("-debug")
	return b.String()
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
