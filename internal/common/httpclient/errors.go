package httpclient

import (
	"errors"
	"net/http"

	"github.com/thepivo/pivoadmin/internal/common/apperrors"
)

// DefaultErrorMessage is reported when a failed response carries no error text.
const DefaultErrorMessage = "request failed"

var (
	// ErrClient is the base error for every failed call.
	ErrClient apperrors.Error = apperrors.New("admin api call failed")

	// ErrTransport is returned when the request could not be completed at all:
	// DNS, refused connections, aborted reads. The message is the underlying one.
	ErrTransport apperrors.Error = ErrClient.New("transport failure")

	// ErrDecode is returned when the response body is not a JSON envelope.
	ErrDecode apperrors.Error = ErrClient.New("unable to decode response")

	// ErrProtocol is matched by every *RequestError.
	ErrProtocol apperrors.Error = ErrClient.New("request rejected")

	// ErrInvalidRequest is returned when a request cannot be built.
	ErrInvalidRequest apperrors.Error = ErrClient.New("invalid request")
)

// RequestError is a response with a non-success status code or an envelope that
// reports failure. Message is the service's error text, or DefaultErrorMessage.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return e.Message
}

// Is makes every RequestError match ErrProtocol and its parents.
func (e *RequestError) Is(target error) bool {
	return errors.Is(ErrProtocol, target)
}

// StatusCode returns the HTTP status of a protocol failure, or 0 for any other error.
func StatusCode(err error) int {
	var re *RequestError
	if errors.As(err, &re) {
		return re.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a protocol failure with status 404.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsUnauthorized reports whether err is a protocol failure with status 401.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}
