package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/yusu/unioncloud-cli/internal/debug"
)

const (
	// Version is the client version advertised in the User-Agent header.
	Version = "0.2.0"
	// APIVersion is sent in the accept-version header on every request.
	APIVersion = "v1"

	headerAuthToken     = "auth_token"
	headerAcceptVersion = "accept-version"
	headerTotalPages    = "total_pages"
)

// UserAgent identifies this client to the API.
var UserAgent = "UnionCloud API Go Client v" + Version

// Session is the authentication state of one Client. The zero value is an
// unauthenticated session. Expiry is informational; the client never
// checks it.
type Session struct {
	Host               string
	AuthToken          string
	AuthTokenExpiresAt time.Time
}

// Authenticated reports whether a token is present.
func (s Session) Authenticated() bool {
	return s.AuthToken != ""
}

// Client is the UnionCloud API client. A Client holds exactly one Session
// and is not meant to be shared between goroutines that authenticate.
type Client struct {
	HTTP    *http.Client
	Exports ExportSource

	mu      sync.RWMutex
	session Session
	now     func() time.Time
}

// Compile-time interface implementation check
var _ Requester = (*Client)(nil)

// New creates a client for the given API host (for example
// "union.unioncloud.co.uk"). Requests always go to https://{host}/api.
func New(host string) *Client {
	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		baseTransport = &http.Transport{}
	}
	transport := baseTransport.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	} else {
		transport.TLSClientConfig = transport.TLSClientConfig.Clone()
	}
	transport.TLSClientConfig.MinVersion = tls.VersionTLS12
	transport.TLSClientConfig.InsecureSkipVerify = false

	return &Client{
		HTTP:    &http.Client{Transport: transport},
		Exports: LocalExportSource{},
		session: Session{Host: normalizeHost(host)},
		now:     time.Now,
	}
}

func normalizeHost(host string) string {
	host = strings.TrimSpace(host)
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	return strings.TrimSuffix(host, "/")
}

// Session returns a snapshot of the current session.
func (c *Client) Session() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// SetAuthToken installs a token obtained earlier, for example one restored
// from a credential store. expiresIn is measured from now.
func (c *Client) SetAuthToken(token string, expiresIn time.Duration) {
	c.setAuthToken(token, c.now().Add(expiresIn))
}

func (c *Client) setAuthToken(token string, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.AuthToken = token
	c.session.AuthTokenExpiresAt = expiresAt
}

// SetCABundle replaces the trusted roots with the PEM certificates given.
// Hostname verification stays on.
func (c *Client) SetCABundle(pemData []byte) error {
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pemData) {
		return errors.New("CA bundle contains no PEM certificates")
	}
	transport, ok := c.HTTP.Transport.(*http.Transport)
	if !ok {
		return fmt.Errorf("cannot install CA bundle on transport %T", c.HTTP.Transport)
	}
	transport = transport.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	transport.TLSClientConfig.RootCAs = pool
	transport.TLSClientConfig.InsecureSkipVerify = false
	c.HTTP.Transport = transport
	return nil
}

// LoadCABundle reads a PEM file and installs it with SetCABundle.
func (c *Client) LoadCABundle(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read CA bundle: %w", err)
	}
	if err := c.SetCABundle(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Request describes one API call. Path is relative to /api.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// withPage returns a copy of r whose query has page set to n.
func (r Request) withPage(n int) Request {
	q := url.Values{}
	for k, v := range r.Query {
		q[k] = append([]string(nil), v...)
	}
	q.Set("page", strconv.Itoa(n))
	r.Query = q
	return r
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// endpointURL builds https://{host}/api{path}?{query}.
func (c *Client) endpointURL(path string, query url.Values) string {
	if path != "" && path[0] != '/' {
		path = "/" + path
	}
	u := "https://" + c.Session().Host + "/api" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// encodeBody serializes v as JSON without HTML escaping so URLs and
// paths embedded in payloads stay readable.
func encodeBody(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func sendsBody(method string) bool {
	return method == http.MethodPost || method == http.MethodPut
}

// newHTTPRequest assembles the outgoing request: URL, verb, body and the
// fixed client headers. The auth_token header is only set once a session
// token exists.
func (c *Client) newHTTPRequest(ctx context.Context, req Request) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var bodyReader io.Reader
	if req.Body != nil && sendsBody(method) {
		payload, err := encodeBody(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.endpointURL(req.Path, req.Query), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("User-Agent", UserAgent)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(headerAcceptVersion, APIVersion)
	if token := c.Session().AuthToken; token != "" {
		httpReq.Header.Set(headerAuthToken, token)
	}
	return httpReq, nil
}

// execute performs a single HTTP exchange. There are no retries; the
// response is returned whatever its status code.
func (c *Client) execute(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		// *url.Error repeats the full URL, query included
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		if debug.IsEnabled(ctx) {
			slog.Debug("request failed", "method", httpReq.Method, "path", req.Path, "error", err)
		}
		return nil, &TransportError{Method: httpReq.Method, URL: endpointForError(httpReq.URL), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: httpReq.Method, URL: endpointForError(httpReq.URL), Err: err}
	}
	if debug.IsEnabled(ctx) {
		slog.Debug("request complete", "method", httpReq.Method, "path", req.Path, "status", resp.StatusCode, "duration", time.Since(start))
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// do performs a resource request and normalizes the response envelope.
func (c *Client) do(ctx context.Context, req Request) (*Response, error) {
	resp, err := c.execute(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := normalize(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// endpointForError drops the query string, which may carry a token.
func endpointForError(u *url.URL) string {
	return u.Scheme + "://" + u.Host + u.Path
}

func (c *Client) exportSource() ExportSource {
	if c.Exports == nil {
		return LocalExportSource{}
	}
	return c.Exports
}
