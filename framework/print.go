package framework

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	failureColor     = color.New(color.FgRed, color.Bold)
	successColor     = color.New(color.FgGreen, color.Bold)
	knownDefectColor = color.New(color.FgYellow, color.Bold)
	skippedColor     = color.New(color.FgCyan)
)

// PrintResults writes a summary of a test run, grouping failures by whether the service
// could not be reached, responded too slowly, or responded incorrectly.
func PrintResults(out io.Writer, results Results) {
	if results.Aborted != nil {
		failureColor.Fprintf(out, "Test run aborted before any tests ran: %s\n", results.Aborted)
		return
	}

	var infrastructure, latency, incorrect []TestResult
	for _, f := range results.Failures {
		switch {
		case f.HasInfrastructureFailure():
			infrastructure = append(infrastructure, f)
		case f.OnlyLatencyFailures():
			latency = append(latency, f)
		default:
			incorrect = append(incorrect, f)
		}
	}

	printGroup(out, failureColor, "Could not reach the service in:", infrastructure)
	printGroup(out, failureColor, "Responses were incorrect in:", incorrect)
	printGroup(out, failureColor, "Responses were too slow in:", latency)

	if len(results.KnownDefects) != 0 {
		knownDefectColor.Fprintln(out, "Known defects that still reproduce:")
		for _, r := range results.KnownDefects {
			fmt.Fprintf(out, "  %s: %s\n", r.TestID, r.KnownDefect)
		}
	}

	skipped := results.Skipped()
	passed := len(results.Tests) - len(results.Failures) - len(results.KnownDefects) - len(skipped)
	summary := fmt.Sprintf("%d passed, %d failed, %d known defects, %d skipped",
		passed, len(results.Failures), len(results.KnownDefects), len(skipped))
	if results.OK() {
		successColor.Fprintf(out, "All tests passed (%s)\n", summary)
	} else {
		failureColor.Fprintf(out, "FAILED (%s)\n", summary)
	}
}

func printGroup(out io.Writer, c *color.Color, heading string, tests []TestResult) {
	if len(tests) == 0 {
		return
	}
	c.Fprintln(out, heading)
	for _, t := range tests {
		fmt.Fprintf(out, "  %s\n", t.TestID)
		for _, e := range t.Errors {
			for _, line := range strings.Split(e.Error(), "\n") {
				fmt.Fprintf(out, "    %s\n", line)
			}
		}
	}
}
