package forge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"git.home.luguber.info/inful/insightsite/internal/foundation/errors"
)

// BaseForge provides the common HTTP plumbing for forge API clients:
// URL building, authentication, status classification and JSON decoding.
type BaseForge struct {
	httpClient *http.Client
	apiURL     string
	token      string

	authHeaderPrefix string
	customHeaders    map[string]string
	userAgent        string
}

// NewBaseForge creates a BaseForge. An empty token sends anonymous requests.
func NewBaseForge(httpClient *http.Client, apiURL, token string) *BaseForge {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &BaseForge{
		httpClient:       httpClient,
		apiURL:           apiURL,
		token:            token,
		authHeaderPrefix: "Bearer ",
		customHeaders:    make(map[string]string),
		userAgent:        "insightsite/1.0",
	}
}

// SetAuthHeaderPrefix customizes the authorization header format (e.g., "token ").
func (b *BaseForge) SetAuthHeaderPrefix(prefix string) {
	b.authHeaderPrefix = prefix
}

// SetCustomHeader sets a header sent with every request.
func (b *BaseForge) SetCustomHeader(key, value string) {
	b.customHeaders[key] = value
}

// SetUserAgent overrides the User-Agent header.
func (b *BaseForge) SetUserAgent(ua string) {
	b.userAgent = ua
}

// NewRequest creates a GET-style request for an endpoint relative to the API URL.
// The endpoint may carry a query string; the API URL's base path is preserved.
func (b *BaseForge) NewRequest(ctx context.Context, method, endpoint string) (*http.Request, error) {
	cleanEndpoint := strings.TrimPrefix(endpoint, "/")

	var rawQuery string
	if idx := strings.Index(cleanEndpoint, "?"); idx != -1 {
		rawQuery = cleanEndpoint[idx+1:]
		cleanEndpoint = cleanEndpoint[:idx]
	}

	u, err := url.Parse(b.apiURL)
	if err != nil {
		return nil, errors.ConfigError("failed to parse API URL").
			WithCause(err).
			WithContext("api_url", b.apiURL).
			Build()
	}

	basePath := strings.TrimSuffix(u.Path, "/")
	u.Path = path.Join("/", basePath, cleanEndpoint)
	if rawQuery != "" {
		u.RawQuery = rawQuery
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), http.NoBody)
	if err != nil {
		return nil, errors.InternalError("failed to create request").
			WithCause(err).
			WithContext("method", method).
			WithContext("url", u.String()).
			Build()
	}

	if b.token != "" {
		req.Header.Set("Authorization", b.authHeaderPrefix+b.token)
	}
	req.Header.Set("User-Agent", b.userAgent)
	for key, value := range b.customHeaders {
		req.Header.Set(key, value)
	}
	return req, nil
}

// DoRequest executes req and decodes a JSON response into result.
//
// Transport failures are network errors and 5xx/429 responses are remote
// errors; both are retryable. 401/403 map to auth errors (403 with an
// exhausted rate limit is a rate-limited remote error), 404 to not-found,
// and any other 4xx to a permanent remote error.
func (b *BaseForge) DoRequest(req *http.Request, result any) error {
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return errors.NetworkError("failed to execute forge request").
			WithCause(err).
			WithContext("method", req.Method).
			WithContext("url", req.URL.String()).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(req, resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return errors.NewError(errors.CategoryRemote, "failed to decode response").
				WithCause(err).
				WithContext("url", req.URL.String()).
				Build()
		}
	}
	return nil
}

func statusError(req *http.Request, resp *http.Response) error {
	limitedBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	bodyStr := strings.ReplaceAll(string(limitedBody), "\n", " ")

	var builder *errors.ErrorBuilder
	msg := fmt.Sprintf("forge API error: %s", resp.Status)
	switch {
	case resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0":
		builder = errors.RemoteError(msg).RateLimit()
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		builder = errors.AuthError(msg)
	case resp.StatusCode == http.StatusNotFound:
		builder = errors.NotFoundError(msg)
	case resp.StatusCode == http.StatusTooManyRequests:
		builder = errors.RemoteError(msg).RateLimit()
	case resp.StatusCode >= 500:
		builder = errors.RemoteError(msg)
	default:
		builder = errors.NewError(errors.CategoryRemote, msg)
	}

	return builder.
		WithContext("status", resp.Status).
		WithContext("code", resp.StatusCode).
		WithContext("url", req.URL.String()).
		WithContext("response", bodyStr).
		Build()
}
