package httpclient

import (
	"context"

	"github.com/thepivo/pivoadmin/internal/formdata"
)

// Transport is the part of the client the resource facades depend on.
type Transport interface {
	// Request performs a JSON call. A nil error means the envelope reported success.
	Request(ctx context.Context, path string, opts RequestOptions) (*Envelope, error)

	// UploadFile performs a multipart call with the same success rules as Request.
	UploadFile(ctx context.Context, path string, payload *formdata.Payload, opts RequestOptions) (*Envelope, error)
}

var _ Transport = &HTTPClient{}
