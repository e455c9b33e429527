// Package httpclient is the transport of the admin client. It prefixes every path
// with the configured base URL, attaches the session's bearer token, encodes JSON
// or multipart bodies, and decodes the response envelope exactly once: callers get
// either an *Envelope describing a successful call or a classified error.
package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/thepivo/pivoadmin/internal/common/logtrace"
	"github.com/thepivo/pivoadmin/internal/common/uuid"
	"github.com/thepivo/pivoadmin/internal/formdata"
	"github.com/thepivo/pivoadmin/internal/session"
)

// Configurator provides the server location. GetServerURL must include the API
// prefix, e.g. http://localhost:5000/api.
type Configurator interface {
	GetServerURL() string
}

// HTTPClient performs calls against the admin API on behalf of one session.
type HTTPClient struct {
	config     Configurator
	store      session.Store
	httpClient *http.Client
	metrics    *Metrics
}

// ClientOptions contains options for configuring the HTTP client.
type ClientOptions struct {
	DisableCertValidation bool              // skips TLS certificate validation
	Timeout               time.Duration     // zero means calls never time out
	Transport             http.RoundTripper // replaces the default transport
	Metrics               *Metrics          // optional request metrics
}

// NewClient creates a client reading its base URL from config and its token from
// store.
func NewClient(config Configurator, store session.Store, opts ...ClientOptions) *HTTPClient {
	var o ClientOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	httpClient := &http.Client{Timeout: o.Timeout}
	switch {
	case o.Transport != nil:
		httpClient.Transport = o.Transport
	case o.DisableCertValidation:
		httpClient.Transport = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true,
			},
		}
	}
	return &HTTPClient{
		config:     config,
		store:      store,
		httpClient: httpClient,
		metrics:    o.Metrics,
	}
}

// Session returns the store the client reads its token from.
func (c *HTTPClient) Session() session.Store {
	return c.store
}

// RequestOptions contains the per-call parts of a request. Headers are applied
// last and override the defaults.
type RequestOptions struct {
	Method  string     // defaults to GET for Request and POST for UploadFile
	Query   url.Values // optional query parameters
	Body    []byte     // optional JSON body
	Headers map[string]string
}

// Request performs a call with a JSON body against {base}/{path}.
func (c *HTTPClient) Request(ctx context.Context, path string, opts RequestOptions) (*Envelope, error) {
	if opts.Method == "" {
		opts.Method = http.MethodGet
	}
	var body io.Reader
	if opts.Body != nil {
		body = bytes.NewReader(opts.Body)
	}
	return c.do(ctx, path, opts, body, "application/json")
}

// UploadFile performs a multipart call against {base}/{path}. The content type
// carries the boundary chosen by the multipart writer.
func (c *HTTPClient) UploadFile(ctx context.Context, path string, payload *formdata.Payload, opts RequestOptions) (*Envelope, error) {
	if opts.Method == "" {
		opts.Method = http.MethodPost
	}
	if payload == nil {
		payload = formdata.NewPayload()
	}
	body, contentType, err := payload.Encode()
	if err != nil {
		return nil, ErrInvalidRequest.MsgErr("unable to encode multipart payload", err)
	}
	return c.do(ctx, path, opts, bytes.NewReader(body), contentType)
}

func (c *HTTPClient) do(ctx context.Context, path string, opts RequestOptions, body io.Reader, contentType string) (*Envelope, error) {
	target, err := c.resolve(path, opts.Query)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, target, body)
	if err != nil {
		return nil, ErrInvalidRequest.MsgErr("failed to create request", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if token := c.store.GetToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	requestID := uuid.NewString()
	req.Header.Set(logtrace.RequestIDHeader, requestID)
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	logger := log.With().
		Str("request_id", requestID).
		Str("method", opts.Method).
		Str("path", path).
		Logger()
	resource := resourceOf(path)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.observe(opts.Method, resource, outcomeTransport, time.Since(start))
		logger.Info().Err(err).Msg("request failed")
		return nil, ErrTransport.MsgErr(err.Error(), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.observe(opts.Method, resource, outcomeTransport, time.Since(start))
		logger.Info().Err(err).Msg("failed to read response body")
		return nil, ErrTransport.MsgErr(err.Error(), err)
	}

	env, ok, msg, err := decodeEnvelope(raw)
	if err != nil {
		c.metrics.observe(opts.Method, resource, outcomeDecode, time.Since(start))
		logger.Info().Err(err).Int("status", resp.StatusCode).Msg("undecodable response")
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 || !ok {
		if msg == "" {
			msg = DefaultErrorMessage
		}
		c.metrics.observe(opts.Method, resource, outcomeProtocol, time.Since(start))
		logger.Info().Int("status", resp.StatusCode).Str("error", msg).Msg("request rejected")
		return nil, &RequestError{StatusCode: resp.StatusCode, Message: msg}
	}

	c.metrics.observe(opts.Method, resource, outcomeOK, time.Since(start))
	logger.Debug().Int("status", resp.StatusCode).Dur("duration", time.Since(start)).Msg("request completed")
	return env, nil
}

// resolve joins the base URL and path and appends the encoded query.
func (c *HTTPClient) resolve(path string, query url.Values) (string, error) {
	base := strings.TrimRight(c.config.GetServerURL(), "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", ErrInvalidRequest.Msg("invalid server URL: " + base)
	}
	target := base + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return target, nil
}

// resourceOf returns the first path segment, used to label metrics.
func resourceOf(path string) string {
	path = strings.TrimLeft(path, "/")
	if i := strings.IndexAny(path, "/?"); i >= 0 {
		path = path[:i]
	}
	return path
}
