// Package framework contains the low-level implementation of test harness infrastructure
// that can be reused for testing different HTTP services.
//
// The general model is:
//
// 1. The system under test is an HTTP service reached over the network. An Executor sends
// requests to it relative to a base URL and reports each outcome as a StepResult, keeping
// "could not reach the service" distinct from "the service returned something unexpected".
//
// 2. A Session holds values captured from earlier responses (credentials, ids of created
// resources) so that later requests can depend on them.
//
// 3. An Expectation declares what a response should look like; Evaluate compares it to a
// StepResult and returns typed mismatches.
//
// 4. There is a general notion of a test context which is similar to Go's *testing.T,
// allowing pieces of test logic to be associated with a test identifier and to accumulate
// success/failure results.
//
// The domain-specific code that knows what is being tested is responsible for the order
// of the tests, the requests they send, and a domain-specific test API on top of the test
// context.
package framework
