// Package httpx writes the response envelope of the admin API and parses request
// bodies. Handlers return a *Response or an error; WrapHttpRsp turns either into
// {"success":...} JSON with the matching status code.
package httpx

import (
	"mime"
	"net/http"

	jsonitor "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"github.com/thepivo/pivoadmin/internal/common/apperrors"
)

var json = jsonitor.ConfigCompatibleWithStandardLibrary

// MaxMultipartMemory bounds the part of a multipart body kept in memory.
const MaxMultipartMemory = 8 << 20

// GetRequestData parses a JSON request body into data. Only POST and PUT carry a
// body.
func GetRequestData(r *http.Request, data any) error {
	if r.Method != http.MethodPost && r.Method != http.MethodPut {
		return ErrReqMethodNotSupported()
	}
	if r.Body == nil || r.ContentLength == 0 {
		log.Ctx(r.Context()).Error().Msg("empty request body")
		return ErrUnableToParseReqData()
	}
	if err := json.NewDecoder(r.Body).Decode(data); err != nil {
		return ErrUnableToParseReqData()
	}
	return nil
}

// IsMultipart reports whether the request carries a multipart/form-data body.
func IsMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}

// ParseMultipart parses a multipart/form-data body.
func ParseMultipart(r *http.Request) error {
	if !IsMultipart(r) {
		return ErrInvalidRequest("expected multipart/form-data")
	}
	if err := r.ParseMultipartForm(MaxMultipartMemory); err != nil {
		return ErrUnableToParseReqData()
	}
	return nil
}

// Response is a successful reply. Data, Token and the pagination fields are
// written as members of the envelope.
type Response struct {
	StatusCode int
	Location   string
	Data       any
	Token      string
	Count      int
	Total      int
	Page       int
	Pages      int
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Token   string `json:"token,omitempty"`
	Error   string `json:"error,omitempty"`
	Count   int    `json:"count,omitempty"`
	Total   int    `json:"total,omitempty"`
	Page    int    `json:"page,omitempty"`
	Pages   int    `json:"pages,omitempty"`
}

// RequestHandler defines a function type for handling HTTP requests.
type RequestHandler func(r *http.Request) (*Response, error)

// WrapHttpRsp adapts a RequestHandler to http.HandlerFunc.
func WrapHttpRsp(handler RequestHandler) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rsp, err := handler(r)
		if err != nil {
			SendError(w, err)
			return
		}
		if rsp == nil {
			ErrApplicationError().Send(w)
			return
		}
		if rsp.StatusCode == 0 {
			rsp.StatusCode = http.StatusOK
		}
		if rsp.Location != "" && rsp.StatusCode == http.StatusCreated {
			w.Header().Set("Location", rsp.Location)
		}
		SendJsonRsp(r, w, rsp.StatusCode, &envelope{
			Success: true,
			Data:    rsp.Data,
			Token:   rsp.Token,
			Count:   rsp.Count,
			Total:   rsp.Total,
			Page:    rsp.Page,
			Pages:   rsp.Pages,
		})
	})
}

// SendError writes err as a failed envelope. Errors that are not *Error use the
// status code recorded on an apperrors.Error, or 500.
func SendError(w http.ResponseWriter, err error) {
	switch e := err.(type) {
	case *Error:
		e.Send(w)
	case apperrors.Error:
		statusCode := e.StatusCode()
		if statusCode == 0 {
			statusCode = http.StatusInternalServerError
		}
		(&Error{StatusCode: statusCode, Description: e.Error()}).Send(w)
	default:
		ErrApplicationError(err.Error()).Send(w)
	}
}
