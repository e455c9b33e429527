package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thepivo/pivoadmin/internal/formdata"
	"github.com/thepivo/pivoadmin/internal/session"
)

type staticConfig string

func (s staticConfig) GetServerURL() string { return string(s) }

type captured struct {
	mu       sync.Mutex
	requests []*http.Request
	bodies   [][]byte
}

func (c *captured) last() (*http.Request, []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requests[len(c.requests)-1], c.bodies[len(c.bodies)-1]
}

// newServer answers every request with status and body and records what it saw.
func newServer(t *testing.T, status int, body string) (*httptest.Server, *captured) {
	t.Helper()
	c := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		c.mu.Lock()
		c.requests = append(c.requests, r)
		c.bodies = append(c.bodies, b)
		c.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, c
}

func newClient(srv *httptest.Server, store session.Store, opts ...ClientOptions) *HTTPClient {
	return NewClient(staticConfig(srv.URL+"/api"), store, opts...)
}

func TestRequestHeadersAndPath(t *testing.T) {
	srv, c := newServer(t, http.StatusOK, `{"success":true,"data":{"_id":"n1"}}`)
	store := session.NewMemoryStore()
	client := newClient(srv, store)

	env, err := client.Request(context.Background(), "news/n1", RequestOptions{})
	require.NoError(t, err)
	assert.True(t, env.HasData())

	req, _ := c.last()
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/api/news/n1", req.URL.Path)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Empty(t, req.Header.Values("Authorization"))
	assert.NotEmpty(t, req.Header.Get("X-Request-ID"))

	require.NoError(t, store.SetToken("abc"))
	_, err = client.Request(context.Background(), "/news", RequestOptions{})
	require.NoError(t, err)
	req, _ = c.last()
	assert.Equal(t, "/api/news", req.URL.Path)
	assert.Equal(t, []string{"Bearer abc"}, req.Header.Values("Authorization"))

	// token changes between calls are picked up
	require.NoError(t, store.SetToken("rotated"))
	_, err = client.Request(context.Background(), "news", RequestOptions{})
	require.NoError(t, err)
	req, _ = c.last()
	assert.Equal(t, []string{"Bearer rotated"}, req.Header.Values("Authorization"))
}

func TestRequestCallerHeadersWin(t *testing.T) {
	srv, c := newServer(t, http.StatusOK, `{"success":true}`)
	store := session.NewMemoryStore()
	require.NoError(t, store.SetToken("abc"))
	client := newClient(srv, store)

	_, err := client.Request(context.Background(), "users", RequestOptions{
		Method: http.MethodPost,
		Body:   []byte(`{"name":"x"}`),
		Headers: map[string]string{
			"Authorization": "Bearer override",
			"Content-Type":  "application/vnd.pivo+json",
			"X-Extra":       "1",
		},
	})
	require.NoError(t, err)
	req, body := c.last()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, []string{"Bearer override"}, req.Header.Values("Authorization"))
	assert.Equal(t, "application/vnd.pivo+json", req.Header.Get("Content-Type"))
	assert.Equal(t, "1", req.Header.Get("X-Extra"))
	assert.JSONEq(t, `{"name":"x"}`, string(body))
}

func TestRequestQuery(t *testing.T) {
	srv, c := newServer(t, http.StatusOK, `{"success":true,"data":[]}`)
	client := newClient(srv, session.NewMemoryStore())

	_, err := client.Request(context.Background(), "news", RequestOptions{
		Query: url.Values{"page": {"2"}, "category": {"promo"}},
	})
	require.NoError(t, err)
	req, _ := c.last()
	assert.Equal(t, "category=promo&page=2", req.URL.RawQuery)

	_, err = client.Request(context.Background(), "news", RequestOptions{Query: url.Values{}})
	require.NoError(t, err)
	req, _ = c.last()
	assert.Equal(t, "", req.URL.RawQuery)
}

func TestRequestReturnsEnvelope(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{"success":true,"token":"t1","data":{"name":"Anna"},"total":7,"page":2}`)
	client := newClient(srv, session.NewMemoryStore())

	env, err := client.Request(context.Background(), "auth/login", RequestOptions{Method: http.MethodPost})
	require.NoError(t, err)
	assert.Equal(t, "t1", env.Token)
	assert.Equal(t, 7, env.Total)
	assert.Equal(t, 2, env.Page)

	var out struct {
		Name string `json:"name"`
	}
	require.NoError(t, env.Decode(&out))
	assert.Equal(t, "Anna", out.Name)
}

func TestRequestFailures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantMsg    string
		wantStatus int
		wantIs     error
	}{
		{
			name:       "not found with message",
			status:     http.StatusNotFound,
			body:       `{"success":false,"error":"not found"}`,
			wantMsg:    "not found",
			wantStatus: http.StatusNotFound,
			wantIs:     ErrProtocol,
		},
		{
			name:       "server error without message",
			status:     http.StatusInternalServerError,
			body:       `{}`,
			wantMsg:    DefaultErrorMessage,
			wantStatus: http.StatusInternalServerError,
			wantIs:     ErrProtocol,
		},
		{
			name:       "non-string error falls back",
			status:     http.StatusBadRequest,
			body:       `{"success":false,"error":{"field":"title"}}`,
			wantMsg:    DefaultErrorMessage,
			wantStatus: http.StatusBadRequest,
			wantIs:     ErrProtocol,
		},
		{
			name:       "success flag false on 200",
			status:     http.StatusOK,
			body:       `{"success":false,"error":"invalid credentials"}`,
			wantMsg:    "invalid credentials",
			wantStatus: http.StatusOK,
			wantIs:     ErrProtocol,
		},
		{
			name:       "success flag false without message",
			status:     http.StatusOK,
			body:       `{"success":false}`,
			wantMsg:    DefaultErrorMessage,
			wantStatus: http.StatusOK,
			wantIs:     ErrProtocol,
		},
		{
			name:   "html body",
			status: http.StatusBadGateway,
			body:   `<html>bad gateway</html>`,
			wantIs: ErrDecode,
		},
		{
			name:   "json array body",
			status: http.StatusOK,
			body:   `[1,2]`,
			wantIs: ErrDecode,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newServer(t, tt.status, tt.body)
			client := newClient(srv, session.NewMemoryStore())
			_, err := client.Request(context.Background(), "news/x", RequestOptions{})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantIs)
			assert.ErrorIs(t, err, ErrClient)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, err.Error())
			}
			assert.Equal(t, tt.wantStatus, StatusCode(err))
		})
	}
}

func TestRequestNotFoundHelpers(t *testing.T) {
	srv, _ := newServer(t, http.StatusNotFound, `{"success":false,"error":"not found"}`)
	client := newClient(srv, session.NewMemoryStore())
	_, err := client.Request(context.Background(), "menu/missing", RequestOptions{})

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, "not found", reqErr.Message)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsUnauthorized(err))
}

func TestRequestTransportFailure(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{"success":true}`)
	client := newClient(srv, session.NewMemoryStore())
	srv.Close()

	_, err := client.Request(context.Background(), "news", RequestOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.NotErrorIs(t, err, ErrProtocol)
	assert.Equal(t, 0, StatusCode(err))

	var urlErr *url.Error
	assert.True(t, errors.As(err, &urlErr))
}

func TestRequestInvalidBaseURL(t *testing.T) {
	client := NewClient(staticConfig("not a url"), session.NewMemoryStore())
	_, err := client.Request(context.Background(), "news", RequestOptions{})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestUploadFile(t *testing.T) {
	srv, c := newServer(t, http.StatusCreated, `{"success":true,"data":{"_id":"m1"}}`)
	store := session.NewMemoryStore()
	require.NoError(t, store.SetToken("abc"))
	client := newClient(srv, store)

	p := formdata.NewPayload()
	p.AddField("name", "Lager")
	p.AddFile("image", &formdata.File{Name: "lager.jpg", Content: strings.NewReader("jpeg")})

	_, err := client.UploadFile(context.Background(), "menu", p, RequestOptions{})
	require.NoError(t, err)
	req, body := c.last()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.True(t, strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/form-data; boundary="))
	assert.Equal(t, []string{"Bearer abc"}, req.Header.Values("Authorization"))
	assert.Contains(t, string(body), `name="image"; filename="lager.jpg"`)

	_, err = client.UploadFile(context.Background(), "menu/m1", formdata.NewPayload(), RequestOptions{Method: http.MethodPut})
	require.NoError(t, err)
	req, _ = c.last()
	assert.Equal(t, http.MethodPut, req.Method)
}

func TestUploadFileFailure(t *testing.T) {
	srv, _ := newServer(t, http.StatusRequestEntityTooLarge, `{"success":false,"error":"file too large"}`)
	client := newClient(srv, session.NewMemoryStore())
	_, err := client.UploadFile(context.Background(), "news", formdata.NewPayload(), RequestOptions{})
	require.Error(t, err)
	assert.Equal(t, "file too large", err.Error())
	assert.Equal(t, http.StatusRequestEntityTooLarge, StatusCode(err))
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	okSrv, _ := newServer(t, http.StatusOK, `{"success":true}`)
	badSrv, _ := newServer(t, http.StatusNotFound, `{"success":false,"error":"not found"}`)

	okClient := newClient(okSrv, session.NewMemoryStore(), ClientOptions{Metrics: metrics})
	badClient := newClient(badSrv, session.NewMemoryStore(), ClientOptions{Metrics: metrics})

	_, _ = okClient.Request(context.Background(), "news", RequestOptions{})
	_, _ = okClient.Request(context.Background(), "news/1", RequestOptions{})
	_, _ = badClient.Request(context.Background(), "restaurants/1", RequestOptions{})

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.requests.WithLabelValues("GET", "news", outcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("GET", "restaurants", outcomeProtocol)))
}

func TestInProcessTransport(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"success":true,"data":"`+r.URL.Path+`"}`)
	})
	client := NewClient(staticConfig("http://pivo.internal/api"), session.NewMemoryStore(),
		ClientOptions{Transport: NewInProcessTransport(h)})

	env, err := client.Request(context.Background(), "reservations", RequestOptions{})
	require.NoError(t, err)
	var path string
	require.NoError(t, env.Decode(&path))
	assert.Equal(t, "/api/reservations", path)
}

func TestResourceOf(t *testing.T) {
	assert.Equal(t, "news", resourceOf("news"))
	assert.Equal(t, "news", resourceOf("/news/1"))
	assert.Equal(t, "auth", resourceOf("auth/login"))
	assert.Equal(t, "menu", resourceOf("menu?page=1"))
}
