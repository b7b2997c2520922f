package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// HTTPParams documents the api_call parameter surface for schema generation.
type HTTPParams struct {
	URL     string         `json:"url" jsonschema_description:"Endpoint address (required)."`
	Method  string         `json:"method,omitempty" jsonschema_description:"HTTP method, default GET."`
	Headers map[string]any `json:"headers,omitempty" jsonschema_description:"Extra request headers."`
	Body    map[string]any `json:"body,omitempty" jsonschema_description:"JSON body, sent for mutating methods only."`
	Params  map[string]any `json:"params,omitempty" jsonschema_description:"Query parameters, sent for non-mutating methods only."`
}

// HTTPToolName is the registry name of the HTTP capability.
const HTTPToolName = "api_call"

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"

var validMethods = map[string]struct{}{
	"GET": {}, "POST": {}, "PUT": {}, "PATCH": {}, "DELETE": {}, "HEAD": {}, "OPTIONS": {},
}

// mutating methods carry a JSON body; the rest carry query parameters.
var bodyMethods = map[string]struct{}{
	"POST": {}, "PUT": {}, "PATCH": {}, "DELETE": {},
}

// HTTPTool performs REST calls on behalf of the assistant. The embedded
// client is owned by the tool instance, shared across sequential
// invocations, and never managed by the registry.
type HTTPTool struct {
	client *http.Client
}

// NewHTTPTool returns an HTTP capability backed by client, or a default
// client with a 30s timeout when client is nil.
func NewHTTPTool(client *http.Client) *HTTPTool {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPTool{client: client}
}

// HTTPToolDefinition is the model-facing description of the capability.
var HTTPToolDefinition = Definition{
	Name:        HTTPToolName,
	Description: "Call a REST endpoint. Requires url and method; optional headers, body (mutating methods) and params (query string).",
	InputSchema: GenerateSchema[HTTPParams](),
}

func (t *HTTPTool) Name() string { return HTTPToolName }

// Validate checks url and method presence and that method is one of the
// seven supported verbs (case-insensitive).
func (t *HTTPTool) Validate(params map[string]any) error {
	var missing []string
	if _, ok := stringParam(params, "url"); !ok {
		missing = append(missing, "url")
	}
	method, ok := stringParam(params, "method")
	if !ok {
		missing = append(missing, "method")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required parameters: %s", strings.Join(missing, ", "))
	}

	upper := strings.ToUpper(method)
	if _, ok := validMethods[upper]; !ok {
		allowed := make([]string, 0, len(validMethods))
		for m := range validMethods {
			allowed = append(allowed, m)
		}
		sort.Strings(allowed)
		return fmt.Errorf("illegal HTTP method: %s, allowed methods: %s", upper, strings.Join(allowed, ", "))
	}
	return nil
}

// Execute performs the request. All transport and decoding failures come
// back as failure Results.
func (t *HTTPTool) Execute(ctx context.Context, params map[string]any) Result {
	target, ok := stringParam(params, "url")
	if !ok || target == "" {
		return Fail("missing required parameter: url")
	}
	method := "GET"
	if m, ok := stringParam(params, "method"); ok && m != "" {
		method = strings.ToUpper(m)
	}

	var body io.Reader
	if _, mutating := bodyMethods[method]; mutating {
		if payload, ok := mapParam(params, "body"); ok {
			b, err := json.Marshal(payload)
			if err != nil {
				return Fail("encode body: %s", err)
			}
			body = bytes.NewReader(b)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return Fail("build request: %s", err)
	}

	req.Header.Set("User-Agent", defaultUserAgent)
	if headers, ok := mapParam(params, "headers"); ok {
		for k, v := range headers {
			if s, ok := v.(string); ok {
				req.Header.Set(k, s)
			}
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if _, mutating := bodyMethods[method]; !mutating {
		if query, ok := mapParam(params, "params"); ok && len(query) > 0 {
			q := url.Values{}
			for k, v := range query {
				q.Set(k, fmt.Sprint(v))
			}
			if req.URL.RawQuery != "" {
				req.URL.RawQuery += "&" + q.Encode()
			} else {
				req.URL.RawQuery = q.Encode()
			}
		}
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return Fail("request failed: %s", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Fail("read response: %s", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Fail("request failed: %s returned %s", target, resp.Status)
	}

	if len(raw) == 0 {
		return Ok(map[string]any{})
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return Ok(map[string]any{"text": string(raw)})
	}
	return Ok(decoded)
}
