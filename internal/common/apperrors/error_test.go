package apperrors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorChains(t *testing.T) {
	ErrBase := New("base error")
	assert.Equal(t, "base error", ErrBase.Error())
	assert.ErrorIs(t, ErrBase, ErrBase)

	ErrChild := ErrBase.New("child")
	assert.Equal(t, "child", ErrChild.Error())
	assert.ErrorIs(t, ErrChild, ErrBase)
	assert.NotErrorIs(t, ErrBase, ErrChild)

	cause := errors.New("connection refused")
	wrapped := ErrChild.MsgErr("dial failed", cause)
	assert.Equal(t, "dial failed", wrapped.Error())
	assert.ErrorIs(t, wrapped, ErrChild)
	assert.ErrorIs(t, wrapped, ErrBase)
	assert.ErrorIs(t, wrapped, cause)

	goErr := fmt.Errorf("plain go error")
	kept := ErrChild.Err(goErr)
	assert.Equal(t, "child", kept.Error())
	assert.ErrorIs(t, kept, goErr)
	assert.Len(t, kept.UnwrapAll(), 2)
}

func TestStatusCodeIsCopied(t *testing.T) {
	ErrBase := New("base")
	withCode := ErrBase.SetStatusCode(http.StatusNotFound)
	assert.Equal(t, 0, ErrBase.StatusCode())
	assert.Equal(t, http.StatusNotFound, withCode.StatusCode())
	assert.Equal(t, http.StatusNotFound, withCode.New("derived").StatusCode())
	assert.Equal(t, http.StatusNotFound, withCode.Msg("renamed").StatusCode())
}

type codedErr struct{ code int }

func (c *codedErr) Error() string { return fmt.Sprintf("code %d", c.code) }

func TestAsReachesWrappedErrors(t *testing.T) {
	ErrBase := New("base")
	wrapped := ErrBase.MsgErr("outer", &codedErr{code: 7})

	var ce *codedErr
	assert.ErrorAs(t, wrapped, &ce)
	assert.Equal(t, 7, ce.code)
}
