// Package apperrors provides chained errors for the admin client. An Error can be
// derived from another Error to form a family of sentinels, can carry additional
// wrapped errors, and records the HTTP status code of the response that caused it.
package apperrors

// Error defines the interface for application errors. All derivation methods
// return a new Error and leave the receiver untouched, so package-level sentinels
// can be shared safely.
type Error interface {
	error
	Unwrap() error // support for errors.Is / errors.As

	New(msg string) Error                  // derives a child error with its own message
	Msg(msg string) Error                  // replaces the message and wraps the receiver
	MsgErr(msg string, err ...error) Error // replaces the message and wraps extra errors
	Err(err ...error) Error                // keeps the message and wraps extra errors
	SetStatusCode(int) Error               // records the HTTP status code
	StatusCode() int                       // returns the recorded status code
	UnwrapAll() []error                    // returns all wrapped errors
}
