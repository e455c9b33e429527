package fakeapi

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/thepivo/pivoadmin/internal/common/httpx"
)

// RecordedRequest is a copy of a request as the service received it.
type RecordedRequest struct {
	Method string
	Path   string // relative to APIPrefix, without the leading slash
	Query  url.Values
	Header http.Header
	Body   []byte
	Parts  []RecordedPart // multipart bodies only
}

// RecordedPart is one part of a multipart body.
type RecordedPart struct {
	Name        string
	FileName    string
	ContentType string
	Content     []byte
}

// IsFile reports whether the part was sent as a file.
func (p RecordedPart) IsFile() bool {
	return p.FileName != ""
}

// Part returns the first part with the given name.
func (r *RecordedRequest) Part(name string) (RecordedPart, bool) {
	for _, p := range r.Parts {
		if p.Name == name {
			return p, true
		}
	}
	return RecordedPart{}, false
}

// PartsNamed returns every part with the given name, in body order.
func (r *RecordedRequest) PartsNamed(name string) []RecordedPart {
	var out []RecordedPart
	for _, p := range r.Parts {
		if p.Name == name {
			out = append(out, p)
		}
	}
	return out
}

// Requests returns the recorded requests in arrival order.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request, or nil.
func (s *Server) LastRequest() *RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return nil
	}
	r := s.requests[len(s.requests)-1]
	return &r
}

// ResetRequests forgets the recorded requests.
func (s *Server) ResetRequests() {
	s.mu.Lock()
	s.requests = nil
	s.mu.Unlock()
}

func (s *Server) recordRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			b, err := io.ReadAll(r.Body)
			r.Body.Close()
			if err != nil {
				httpx.ErrUnableToParseReqData().Send(w)
				return
			}
			body = b
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		rec := RecordedRequest{
			Method: r.Method,
			Path:   apiPath(r),
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   body,
			Parts:  readParts(r.Header.Get("Content-Type"), body),
		}
		s.mu.Lock()
		s.requests = append(s.requests, rec)
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func apiPath(r *http.Request) string {
	return strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, APIPrefix), "/")
}

func readParts(contentType string, body []byte) []RecordedPart {
	mt, params, err := mime.ParseMediaType(contentType)
	if err != nil || mt != "multipart/form-data" {
		return nil
	}
	mr := multipart.NewReader(bytes.NewReader(body), params["boundary"])
	var parts []RecordedPart
	for {
		p, err := mr.NextPart()
		if err != nil {
			return parts
		}
		content, _ := io.ReadAll(p)
		parts = append(parts, RecordedPart{
			Name:        p.FormName(),
			FileName:    p.FileName(),
			ContentType: p.Header.Get("Content-Type"),
			Content:     content,
		})
		p.Close()
	}
}

// Failure describes a canned failure for one route. Body, when set, is written
// verbatim instead of an error envelope.
type Failure struct {
	StatusCode int
	Message    string
	Body       string
}

// Fail makes every request to method and path (relative to APIPrefix, e.g.
// "auth/logout") answer with f until ClearFailures is called.
func (s *Server) Fail(method, path string, f Failure) {
	if f.StatusCode == 0 {
		f.StatusCode = http.StatusInternalServerError
	}
	s.mu.Lock()
	s.failures[failureKey(method, path)] = f
	s.mu.Unlock()
}

func (s *Server) ClearFailures() {
	s.mu.Lock()
	s.failures = make(map[string]Failure)
	s.mu.Unlock()
}

func failureKey(method, path string) string {
	return strings.ToUpper(method) + " " + strings.Trim(path, "/")
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		f, ok := s.failures[failureKey(r.Method, apiPath(r))]
		s.mu.Unlock()
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		if f.Body != "" {
			w.WriteHeader(f.StatusCode)
			w.Write([]byte(f.Body))
			return
		}
		(&httpx.Error{StatusCode: f.StatusCode, Description: f.Message}).Send(w)
	})
}
