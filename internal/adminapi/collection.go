package adminapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/thepivo/pivoadmin/internal/common/httpclient"
	"github.com/thepivo/pivoadmin/internal/formdata"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ListResult is one page of a collection.
type ListResult[T any] struct {
	Items []T
	Count int
	Total int
	Page  int
	Pages int
}

// ListQuery holds the listing options shared by every collection. Zero values are
// left out of the query string.
type ListQuery struct {
	Search string `mapstructure:"search"`
	Page   int    `mapstructure:"page"`
	Limit  int    `mapstructure:"limit"`
	Sort   string `mapstructure:"sort"`
}

// Values returns the query parameters for the options that are set.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	setString(v, "search", q.Search)
	setInt(v, "page", q.Page)
	setInt(v, "limit", q.Limit)
	setString(v, "sort", q.Sort)
	return v
}

func setString(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func setInt(v url.Values, key string, value int) {
	if value > 0 {
		v.Set(key, strconv.Itoa(value))
	}
}

// collection implements the CRUD calls shared by every resource.
type collection[T any] struct {
	transport httpclient.Transport
	resource  string
}

func (c collection[T]) itemPath(id string) string {
	return c.resource + "/" + url.PathEscape(id)
}

func (c collection[T]) list(ctx context.Context, query url.Values) (*ListResult[T], error) {
	env, err := c.transport.Request(ctx, c.resource, httpclient.RequestOptions{
		Method: http.MethodGet,
		Query:  query,
	})
	if err != nil {
		return nil, err
	}
	res := &ListResult[T]{
		Count: env.Count,
		Total: env.Total,
		Page:  env.Page,
		Pages: env.Pages,
	}
	if err := env.Decode(&res.Items); err != nil {
		return nil, err
	}
	if res.Items == nil {
		res.Items = []T{}
	}
	return res, nil
}

func (c collection[T]) get(ctx context.Context, id string) (*T, error) {
	env, err := c.transport.Request(ctx, c.itemPath(id), httpclient.RequestOptions{
		Method: http.MethodGet,
	})
	if err != nil {
		return nil, err
	}
	return decodeItem[T](env)
}

func (c collection[T]) delete(ctx context.Context, id string) error {
	_, err := c.transport.Request(ctx, c.itemPath(id), httpclient.RequestOptions{
		Method: http.MethodDelete,
	})
	return err
}

// sendJSON creates (id == "") or updates the record with a JSON body.
func (c collection[T]) sendJSON(ctx context.Context, id string, body []byte) (*T, error) {
	path, method := c.resource, http.MethodPost
	if id != "" {
		path, method = c.itemPath(id), http.MethodPut
	}
	env, err := c.transport.Request(ctx, path, httpclient.RequestOptions{
		Method: method,
		Body:   body,
	})
	if err != nil {
		return nil, err
	}
	return decodeItem[T](env)
}

// sendForm creates (id == "") or updates the record with a multipart body.
func (c collection[T]) sendForm(ctx context.Context, id string, payload *formdata.Payload) (*T, error) {
	path, method := c.resource, http.MethodPost
	if id != "" {
		path, method = c.itemPath(id), http.MethodPut
	}
	env, err := c.transport.UploadFile(ctx, path, payload, httpclient.RequestOptions{
		Method: method,
	})
	if err != nil {
		return nil, err
	}
	return decodeItem[T](env)
}

// decodeItem returns the record in the envelope, or nil when the service sent none.
func decodeItem[T any](env *httpclient.Envelope) (*T, error) {
	if !env.HasData() {
		return nil, nil
	}
	var item T
	if err := env.Decode(&item); err != nil {
		return nil, err
	}
	return &item, nil
}

// jsonBody marshals in and merges the extra fields into the top-level object.
// Extra keys never replace fields set on the typed input.
func jsonBody(in any, extra map[string]any) ([]byte, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, httpclient.ErrInvalidRequest.MsgErr("unable to encode request body", err)
	}
	for k, v := range extra {
		if v == nil {
			continue
		}
		path := sjsonKey(k)
		if gjson.GetBytes(body, path).Exists() {
			continue
		}
		body, err = sjson.SetBytes(body, path, v)
		if err != nil {
			return nil, httpclient.ErrInvalidRequest.MsgErr("unable to encode field "+k, err)
		}
	}
	return body, nil
}

var sjsonEscaper = strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`)

// sjsonKey escapes a literal object key for use as an sjson/gjson path.
func sjsonKey(k string) string {
	return sjsonEscaper.Replace(k)
}
