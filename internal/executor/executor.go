// Package executor turns a matched endpoint plus completed parameters into
// a real HTTP call against the upstream API and shapes the JSON response.
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/usestring/apimatch-mcp/internal/catalog"
	"github.com/usestring/apimatch-mcp/pkg/types"
)

const (
	defaultTimeout  = 30 * time.Second
	maxResponseSize = 16 << 20 // 16 MB
)

var placeholderPattern = regexp.MustCompile(`\{([^}]+)\}`)

// Executor sends requests to the API described by the active catalog.
type Executor struct {
	httpClient *http.Client
	headers    map[string]string
}

// Option configures an Executor.
type Option func(*Executor)

// WithTimeout overrides the per-call HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Executor) { e.httpClient.Timeout = d }
}

// WithHeader adds a static header (API keys, auth tokens) to every call.
func WithHeader(name, value string) Option {
	return func(e *Executor) { e.headers[name] = value }
}

// New creates an executor.
func New(opts ...Option) *Executor {
	e := &Executor{
		httpClient: &http.Client{Timeout: defaultTimeout},
		headers:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Response is the outcome of an executed call.
type Response struct {
	Status int    `json:"status"`
	Body   any    `json:"body,omitempty"`    // parsed JSON when possible
	Raw    string `json:"raw,omitempty"`     // set when the body is not JSON
	URL    string `json:"url"`               // the resolved request URL
}

// Execute resolves a matched endpoint against the catalog and performs the
// HTTP call. Params are routed to path, query, header or body slots from
// the endpoint's declared locations; required parameters must all be
// present.
func (e *Executor) Execute(ctx context.Context, cat *types.Catalog, path, method string, params map[string]any) (*Response, error) {
	ep := cat.Find(path, method)
	if ep == nil {
		return nil, fmt.Errorf("executor: endpoint %s %s not in catalog", method, path)
	}
	if cat.Meta.BaseURL == "" {
		return nil, fmt.Errorf("executor: catalog has no base URL")
	}

	if err := checkRequired(ep, params); err != nil {
		return nil, err
	}

	resolvedPath, query, headers, body, err := routeParams(ep, params)
	if err != nil {
		return nil, err
	}

	reqURL, err := joinURL(cat.Meta.BaseURL, resolvedPath, query)
	if err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	if len(body) > 0 {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("executor: marshaling body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), reqURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("executor: building request: %w", err)
	}
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for name, value := range e.headers {
		req.Header.Set(name, value)
	}
	for name, value := range headers {
		req.Header.Set(name, fmt.Sprintf("%v", value))
	}

	slog.Debug("executing API call", "method", req.Method, "url", reqURL)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executor: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("executor: reading response: %w", err)
	}

	out := &Response{Status: resp.StatusCode, URL: reqURL}
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		out.Raw = string(data)
	} else {
		out.Body = parsed
	}
	return out, nil
}

// checkRequired verifies every required parameter and body field has a
// value.
func checkRequired(ep *types.EndpointDescriptor, params map[string]any) error {
	var missing []string
	for _, p := range ep.Parameters {
		if p.Required {
			if _, ok := params[p.Name]; !ok {
				missing = append(missing, p.Name)
			}
		}
	}
	if ep.RequestBody != nil {
		for _, name := range ep.RequestBody.RequiredFields {
			if _, ok := params[name]; !ok {
				missing = append(missing, name)
			}
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("executor: missing required parameters: %s", strings.Join(missing, ", "))
	}
	return nil
}

// routeParams splits params into path substitutions, query values, headers
// and body fields according to the endpoint's declared locations. Unknown
// params default to the query string for reads and the body for mutations.
func routeParams(ep *types.EndpointDescriptor, params map[string]any) (string, url.Values, map[string]any, map[string]any, error) {
	query := url.Values{}
	headers := make(map[string]any)
	body := make(map[string]any)
	path := ep.Path

	bodyFields := make(map[string]bool)
	if ep.RequestBody != nil {
		for name := range ep.RequestBody.Properties {
			bodyFields[name] = true
		}
	}

	declared := make(map[string]string, len(ep.Parameters))
	for _, p := range ep.Parameters {
		declared[p.Name] = catalog.InferLocation(ep, &p)
	}

	for name, value := range params {
		loc, ok := declared[name]
		if !ok {
			switch {
			case bodyFields[name]:
				loc = types.LocationBody
			case ep.HasPathPlaceholder(name):
				loc = types.LocationPath
			case ep.IsMutating():
				loc = types.LocationBody
			default:
				loc = types.LocationQuery
			}
		}

		switch loc {
		case types.LocationPath:
			path = strings.ReplaceAll(path, "{"+name+"}", url.PathEscape(fmt.Sprintf("%v", value)))
		case types.LocationHeader:
			headers[name] = value
		case types.LocationBody:
			body[name] = value
		default:
			query.Set(name, fmt.Sprintf("%v", value))
		}
	}

	if m := placeholderPattern.FindStringSubmatch(path); m != nil {
		return "", nil, nil, nil, fmt.Errorf("executor: unresolved path placeholder %q", m[1])
	}

	return path, query, headers, body, nil
}

func joinURL(base, path string, query url.Values) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("executor: invalid base URL: %w", err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}
