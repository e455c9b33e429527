package session

import "github.com/thepivo/pivoadmin/internal/common/apperrors"

var (
	// ErrSession is the base error for session persistence failures.
	ErrSession apperrors.Error = apperrors.New("session error")

	// ErrSessionWrite is returned when the session file cannot be written.
	ErrSessionWrite apperrors.Error = ErrSession.New("unable to write session")

	// ErrInvalidUser is returned when a profile cannot be serialized.
	ErrInvalidUser apperrors.Error = ErrSession.New("invalid user profile")
)
