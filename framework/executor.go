package framework

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// DefaultRequestTimeout is used if NewExecutor is given a zero timeout.
const DefaultRequestTimeout = time.Second * 30

const defaultRetryDelay = time.Millisecond * 500
const maxLoggedBodyLength = 2000

// Request describes a single HTTP request to the system under test.
//
// If RawBody is non-nil it is sent exactly as given, which allows tests to send malformed
// payloads; otherwise JSONBody, if non-nil, is marshalled as JSON and the Content-Type
// defaults to application/json. Headers set here take precedence over that default.
type Request struct {
	Method   string
	Path     string
	Headers  http.Header
	JSONBody interface{}
	RawBody  []byte
}

// WithHeader returns a copy of the request with an additional header value.
func (r Request) WithHeader(name, value string) Request {
	h := r.Headers.Clone()
	if h == nil {
		h = make(http.Header)
	}
	h.Add(name, value)
	r.Headers = h
	return r
}

func (r Request) encodeBody() ([]byte, error) {
	if r.RawBody != nil {
		return r.RawBody, nil
	}
	if r.JSONBody == nil {
		return nil, nil
	}
	return json.Marshal(r.JSONBody)
}

// StepResult is the outcome of one request. If the system under test could not be reached,
// TransportErr is an InfrastructureError and the response fields are empty.
type StepResult struct {
	Request      Request
	URL          string
	Status       int
	Headers      http.Header
	Body         []byte
	JSON         ldvalue.Value
	IsJSON       bool
	Elapsed      time.Duration
	TransportErr error
}

// Reachable is true if a response was received, regardless of its status.
func (r StepResult) Reachable() bool {
	return r.TransportErr == nil
}

func (r StepResult) BodyText() string {
	return string(r.Body)
}

// Executor sends requests to the system under test, relative to a base URL.
type Executor struct {
	baseURL    string
	client     *http.Client
	getRetries uint64
	retryDelay time.Duration
}

type ExecutorOption func(*Executor)

// WithGetRetries allows GET requests that fail at the transport level to be retried. Only
// GETs are ever retried, and never because of the response they returned.
func WithGetRetries(count int, delay time.Duration) ExecutorOption {
	return func(e *Executor) {
		if count > 0 {
			e.getRetries = uint64(count)
		}
		if delay > 0 {
			e.retryDelay = delay
		}
	}
}

func NewExecutor(baseURL string, timeout time.Duration, options ...ExecutorOption) *Executor {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	e := &Executor{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		client:     &http.Client{Timeout: timeout},
		retryDelay: defaultRetryDelay,
	}
	for _, o := range options {
		o(e)
	}
	return e
}

func (e *Executor) BaseURL() string {
	return e.baseURL
}

// Execute sends the request and waits for the complete response. It never returns an
// error: problems reaching the service are reported in StepResult.TransportErr.
func (e *Executor) Execute(ctx context.Context, req Request, logger Logger) StepResult {
	if logger == nil {
		logger = NullLogger()
	}
	url := e.baseURL + req.Path

	body, err := req.encodeBody()
	if err != nil {
		return StepResult{
			Request:      req,
			URL:          url,
			TransportErr: InfrastructureError{Method: req.Method, URL: url, Err: fmt.Errorf("could not encode request body: %w", err)},
		}
	}

	var result StepResult
	attempt := func(ctx context.Context) error {
		result = e.executeOnce(ctx, req, url, body, logger)
		if result.TransportErr != nil {
			return retry.RetryableError(result.TransportErr)
		}
		return nil
	}

	if req.Method == http.MethodGet && e.getRetries > 0 {
		backoff := retry.WithMaxRetries(e.getRetries, retry.NewConstant(e.retryDelay))
		_ = retry.Do(ctx, backoff, func(ctx context.Context) error {
			err := attempt(ctx)
			if err != nil {
				logger.Printf("GET %s failed, may retry: %s", url, result.TransportErr)
			}
			return err
		})
	} else {
		_ = attempt(ctx)
	}
	return result
}

func (e *Executor) executeOnce(ctx context.Context, req Request, url string, body []byte, logger Logger) StepResult {
	result := StepResult{Request: req, URL: url}

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, bodyReader)
	if err != nil {
		result.TransportErr = InfrastructureError{Method: req.Method, URL: url, Err: err}
		return result
	}
	for name, values := range req.Headers {
		for _, v := range values {
			httpReq.Header.Add(name, v)
		}
	}
	if req.RawBody == nil && req.JSONBody != nil && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if body != nil {
		logger.Printf("Request: %s %s %s", req.Method, url, truncateForLog(body))
	} else {
		logger.Printf("Request: %s %s", req.Method, url)
	}

	start := time.Now()
	resp, err := e.client.Do(httpReq)
	if err != nil {
		result.Elapsed = time.Since(start)
		logger.Printf("Request failed after %s: %s", result.Elapsed, err)
		result.TransportErr = InfrastructureError{Method: req.Method, URL: url, Err: err}
		return result
	}
	data, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	result.Elapsed = time.Since(start)
	if err != nil {
		logger.Printf("Reading response body failed after %s: %s", result.Elapsed, err)
		result.TransportErr = InfrastructureError{Method: req.Method, URL: url, Err: fmt.Errorf("error reading response body: %w", err)}
		return result
	}

	result.Status = resp.StatusCode
	result.Headers = resp.Header
	result.Body = data
	if len(bytes.TrimSpace(data)) != 0 {
		var v ldvalue.Value
		if json.Unmarshal(data, &v) == nil {
			result.JSON = v
			result.IsJSON = true
		}
	}
	logger.Printf("Response: %d in %s %s", result.Status, result.Elapsed, truncateForLog(data))
	return result
}

func truncateForLog(data []byte) string {
	if len(data) > maxLoggedBodyLength {
		return string(data[:maxLoggedBodyLength]) + "..."
	}
	return string(data)
}
