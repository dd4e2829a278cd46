// Package cfptests contains the contract tests for the personal-finance service and their
// supporting API.
//
// Test harness infrastructure that is not specific to this service, such as sending requests,
// evaluating expectations, and accumulating results, is in the lower-level framework package.
package cfptests
