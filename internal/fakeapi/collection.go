package fakeapi

import (
	"math"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/thepivo/pivoadmin/internal/common/httpx"
)

// handlers is the CRUD surface of one collection.
type handlers struct {
	list, get, create, update, delete httpx.RequestHandler
}

// mountCollection registers the CRUD routes. guard, when set, protects the
// writing routes.
func mountCollection(r chi.Router, h handlers, guard func(http.Handler) http.Handler) {
	w := r
	if guard != nil {
		w = r.With(guard)
	}
	r.Get("/", wrap(h.list))
	r.Get("/{id}", wrap(h.get))
	w.Post("/", wrap(h.create))
	w.Put("/{id}", wrap(h.update))
	w.Delete("/{id}", wrap(h.delete))
}

func wrap(h httpx.RequestHandler) http.HandlerFunc {
	return httpx.WrapHttpRsp(h)
}

// crud builds the list, get and delete handlers shared by every collection.
// match filters listings by the request's query.
func crud[T any](t *table[T], name string, match func(*T, url.Values) bool) handlers {
	return handlers{
		list: func(r *http.Request) (*httpx.Response, error) {
			q := r.URL.Query()
			items := t.list(func(item *T) bool {
				return match == nil || match(item, q)
			})
			return paginate(items, q)
		},
		get: func(r *http.Request) (*httpx.Response, error) {
			item, ok := t.get(chi.URLParam(r, "id"))
			if !ok {
				return nil, httpx.ErrNotFound(name)
			}
			return &httpx.Response{Data: item}, nil
		},
		delete: func(r *http.Request) (*httpx.Response, error) {
			if !t.remove(chi.URLParam(r, "id")) {
				return nil, httpx.ErrNotFound(name)
			}
			return &httpx.Response{}, nil
		},
	}
}

// updated stores the result of apply and answers with the record.
func updated[T any](t *table[T], name string, r *http.Request, apply func(*T) error) (*httpx.Response, error) {
	item, found, err := t.update(chi.URLParam(r, "id"), apply)
	if !found {
		return nil, httpx.ErrNotFound(name)
	}
	if err != nil {
		return nil, err
	}
	return &httpx.Response{Data: item}, nil
}

func created[T any](t *table[T], item T) *httpx.Response {
	return &httpx.Response{
		StatusCode: http.StatusCreated,
		Data:       t.insert(item),
	}
}

// paginate applies sort, page and limit. Without a limit every item is returned
// and no pagination members are sent.
func paginate[T any](items []T, q url.Values) (*httpx.Response, error) {
	if strings.HasPrefix(q.Get("sort"), "-") {
		slices.Reverse(items)
	}
	page, err := positiveInt(q, "page", 1)
	if err != nil {
		return nil, err
	}
	limit, err := positiveInt(q, "limit", 0)
	if err != nil {
		return nil, err
	}
	total := len(items)
	if limit == 0 {
		return &httpx.Response{Data: items, Count: total, Total: total}, nil
	}
	start := min((page-1)*limit, total)
	end := min(start+limit, total)
	return &httpx.Response{
		Data:  items[start:end],
		Count: end - start,
		Total: total,
		Page:  page,
		Pages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

func positiveInt(q url.Values, key string, def int) (int, error) {
	v := q.Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, httpx.ErrInvalidRequest("invalid " + key)
	}
	return n, nil
}

// contains reports whether any of fields contains the search term, ignoring case.
// An empty term matches.
func contains(term string, fields ...string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// equalOrEmpty reports whether want is empty or equal to got.
func equalOrEmpty(want, got string) bool {
	return want == "" || want == got
}
