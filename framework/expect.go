package framework

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Expectation is a declarative set of assertions about a single response. Zero-valued fields
// are not checked.
type Expectation struct {
	// Status must match exactly, unless the actual status is in AcceptStatuses.
	Status         int
	AcceptStatuses []int

	// JSONLike is a partial match: every property it contains must be present with an equal
	// value in the response body, but the body may have other properties too. Nested objects
	// are matched the same way, and each element of an expected array must match some
	// element of the actual array.
	JSONLike ldvalue.Value

	// HeaderContains maps header names to substrings that the header value must contain.
	// Values are compared case-sensitively, exactly as the transport returned them.
	HeaderContains map[string]string

	// BodyContains lists literal substrings of the raw response body.
	BodyContains []string

	// MaxResponseTime is a ceiling on the elapsed time of the request. Exceeding it is
	// reported as a latency mismatch, separately from correctness problems.
	MaxResponseTime time.Duration

	// KnownDefect, if set, means that this expectation describes a documented bug in the
	// system under test rather than correct behavior.
	KnownDefect string
}

// JSONLike converts an arbitrary Go value, such as a map[string]interface{}, into the form
// used by Expectation.JSONLike.
func JSONLike(v interface{}) ldvalue.Value {
	return ldvalue.CopyArbitraryValue(v)
}

// Verdict is the outcome of evaluating an Expectation.
type Verdict struct {
	Mismatches []MismatchError
}

func (v Verdict) Passed() bool {
	return len(v.Mismatches) == 0
}

// OnlyLatency is true if the response was correct but too slow.
func (v Verdict) OnlyLatency() bool {
	if v.Passed() {
		return false
	}
	for _, m := range v.Mismatches {
		if m.Kind != MismatchLatency {
			return false
		}
	}
	return true
}

// Evaluate compares a response against an expectation.
func Evaluate(expected Expectation, actual StepResult) Verdict {
	if !actual.Reachable() {
		return Verdict{Mismatches: []MismatchError{{
			Kind:   MismatchInfrastructure,
			Detail: actual.TransportErr.Error(),
		}}}
	}

	var ms []MismatchError

	if expected.Status != 0 && !statusAccepted(expected, actual.Status) {
		ms = append(ms, MismatchError{
			Kind:     MismatchStatus,
			Expected: describeStatuses(expected),
			Actual:   fmt.Sprintf("%d", actual.Status),
			Detail:   "body: " + truncateForLog(actual.Body),
		})
	}

	if !expected.JSONLike.IsNull() {
		if !actual.IsJSON {
			ms = append(ms, MismatchError{
				Kind:     MismatchJSON,
				Detail:   "response body is not JSON",
				Expected: expected.JSONLike.JSONString(),
				Actual:   truncateForLog(actual.Body),
			})
		} else if problems := matchJSONLike("", expected.JSONLike, actual.JSON); len(problems) != 0 {
			ms = append(ms, MismatchError{
				Kind:     MismatchJSON,
				Detail:   strings.Join(problems, "; "),
				Expected: expected.JSONLike.JSONString(),
				Actual:   actual.JSON.JSONString(),
			})
		}
	}

	headerNames := make([]string, 0, len(expected.HeaderContains))
	for name := range expected.HeaderContains {
		headerNames = append(headerNames, name)
	}
	sort.Strings(headerNames)
	for _, name := range headerNames {
		substring := expected.HeaderContains[name]
		values := actual.Headers.Values(name)
		if !anyContains(values, substring) {
			actualDesc := "(absent)"
			if len(values) != 0 {
				actualDesc = strings.Join(values, ", ")
			}
			ms = append(ms, MismatchError{
				Kind:     MismatchHeader,
				Detail:   "header " + name,
				Expected: fmt.Sprintf("value containing %q", substring),
				Actual:   actualDesc,
			})
		}
	}

	for _, substring := range expected.BodyContains {
		if !strings.Contains(string(actual.Body), substring) {
			ms = append(ms, MismatchError{
				Kind:     MismatchBody,
				Expected: fmt.Sprintf("body containing %q", substring),
				Actual:   truncateForLog(actual.Body),
			})
		}
	}

	if expected.MaxResponseTime > 0 && actual.Elapsed > expected.MaxResponseTime {
		ms = append(ms, MismatchError{
			Kind:     MismatchLatency,
			Expected: fmt.Sprintf("at most %s", expected.MaxResponseTime),
			Actual:   actual.Elapsed.String(),
		})
	}

	return Verdict{Mismatches: ms}
}

func statusAccepted(expected Expectation, status int) bool {
	if status == expected.Status {
		return true
	}
	for _, s := range expected.AcceptStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func describeStatuses(expected Expectation) string {
	parts := []string{fmt.Sprintf("%d", expected.Status)}
	for _, s := range expected.AcceptStatuses {
		parts = append(parts, fmt.Sprintf("%d", s))
	}
	return strings.Join(parts, " or ")
}

func anyContains(values []string, substring string) bool {
	for _, v := range values {
		if strings.Contains(v, substring) {
			return true
		}
	}
	return false
}

func matchJSONLike(path string, expected, actual ldvalue.Value) []string {
	switch expected.Type() {
	case ldvalue.ObjectType:
		if actual.Type() != ldvalue.ObjectType {
			return []string{fmt.Sprintf("%s: expected an object, got %s", displayPath(path), actual.JSONString())}
		}
		present := make(map[string]bool)
		for _, k := range actual.Keys() {
			present[k] = true
		}
		keys := expected.Keys()
		sort.Strings(keys)
		var problems []string
		for _, k := range keys {
			p := k
			if path != "" {
				p = path + "." + k
			}
			if !present[k] {
				problems = append(problems, fmt.Sprintf("%s: missing", p))
				continue
			}
			problems = append(problems, matchJSONLike(p, expected.GetByKey(k), actual.GetByKey(k))...)
		}
		return problems

	case ldvalue.ArrayType:
		if actual.Type() != ldvalue.ArrayType {
			return []string{fmt.Sprintf("%s: expected an array, got %s", displayPath(path), actual.JSONString())}
		}
		var problems []string
		for i := 0; i < expected.Count(); i++ {
			want := expected.GetByIndex(i)
			found := false
			for j := 0; j < actual.Count(); j++ {
				if len(matchJSONLike(path, want, actual.GetByIndex(j))) == 0 {
					found = true
					break
				}
			}
			if !found {
				problems = append(problems, fmt.Sprintf("%s: no element matching %s", displayPath(path), want.JSONString()))
			}
		}
		return problems

	default:
		if !expected.Equal(actual) {
			return []string{fmt.Sprintf("%s: expected %s, got %s", displayPath(path), expected.JSONString(), actual.JSONString())}
		}
		return nil
	}
}

func displayPath(path string) string {
	if path == "" {
		return "(root)"
	}
	return path
}

// ExtractString looks up a string property in a JSON value using dotted paths such as
// "category._id", returning the first non-empty match. Numeric ids are converted to strings.
func ExtractString(v ldvalue.Value, paths ...string) (string, bool) {
	for _, p := range paths {
		current := v
		for _, part := range strings.Split(p, ".") {
			if current.Type() != ldvalue.ObjectType {
				current = ldvalue.Null()
				break
			}
			current = current.GetByKey(part)
		}
		switch current.Type() {
		case ldvalue.StringType:
			if s := current.StringValue(); s != "" {
				return s, true
			}
		case ldvalue.NumberType:
			if current.IsInt() {
				return fmt.Sprintf("%d", current.IntValue()), true
			}
			return current.JSONString(), true
		}
	}
	return "", false
}
