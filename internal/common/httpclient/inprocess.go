package httpclient

import (
	"net/http"
	"net/http/httptest"
)

// handlerTransport serves requests with an http.Handler instead of the network.
type handlerTransport struct {
	handler http.Handler
}

func (t handlerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rr := httptest.NewRecorder()
	t.handler.ServeHTTP(rr, req)
	resp := rr.Result()
	resp.Request = req
	return resp, nil
}

// NewInProcessTransport returns a RoundTripper that dispatches every request to h
// without opening a connection. Used to run the client against the development
// service in tests.
func NewInProcessTransport(h http.Handler) http.RoundTripper {
	return handlerTransport{handler: h}
}
