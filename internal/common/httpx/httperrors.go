package httpx

import (
	"fmt"
	"net/http"
)

// Error is a failed reply with its status code.
type Error struct {
	Description string
	StatusCode  int
}

// Send writes the error as {"success":false,"error":...}. A nil writer is ignored.
func (e *Error) Send(w http.ResponseWriter) {
	if w == nil {
		return
	}
	b, err := json.Marshal(&envelope{Success: false, Error: e.Description})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Unable to parse error"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	w.Write(b)
}

func (e *Error) Error() string {
	return e.Description
}

func ErrReqMethodNotSupported() *Error {
	return &Error{
		Description: "request method not supported",
		StatusCode:  http.StatusMethodNotAllowed,
	}
}

func ErrUnableToParseReqData() *Error {
	return &Error{
		Description: "unable to parse request data",
		StatusCode:  http.StatusBadRequest,
	}
}

// ErrApplicationError returns a 500 error. The optional argument replaces the
// default description.
func ErrApplicationError(err ...string) *Error {
	description := "unable to process request"
	if len(err) > 0 {
		description = err[0]
	}
	return &Error{
		Description: description,
		StatusCode:  http.StatusInternalServerError,
	}
}

func ErrUnAuthorized(str ...string) *Error {
	description := "unauthorized"
	if len(str) > 0 {
		description = str[0]
	}
	return &Error{
		Description: description,
		StatusCode:  http.StatusUnauthorized,
	}
}

func ErrForbidden() *Error {
	return &Error{
		Description: "forbidden",
		StatusCode:  http.StatusForbidden,
	}
}

func ErrNotFound(what ...string) *Error {
	description := "not found"
	if len(what) > 0 {
		description = what[0] + " not found"
	}
	return &Error{
		Description: description,
		StatusCode:  http.StatusNotFound,
	}
}

func ErrInvalidRequest(str ...string) *Error {
	description := "invalid request"
	if len(str) > 0 {
		description = str[0]
	}
	return &Error{
		Description: description,
		StatusCode:  http.StatusBadRequest,
	}
}

func ErrConflict(str string) *Error {
	return &Error{
		Description: str,
		StatusCode:  http.StatusConflict,
	}
}

func ErrRequestTimeout() *Error {
	return &Error{
		Description: "request timed out",
		StatusCode:  http.StatusGatewayTimeout,
	}
}

func ErrRequestTooLarge(limit int64) *Error {
	return &Error{
		Description: fmt.Sprintf("request body exceeds %d bytes", limit),
		StatusCode:  http.StatusRequestEntityTooLarge,
	}
}
