package coflux

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStopSourceCancelIsIdempotent(t *testing.T) {
	s := NewStopSource()
	var calls int
	s.register(func(error) { calls++ })

	s.Cancel(nil)
	s.Cancel(nil)
	assert.Equal(t, 1, calls)
	assert.True(t, s.IsCancelled())
}

func TestStopSourceRegisterAfterCancelRunsImmediately(t *testing.T) {
	s := NewStopSource()
	cause := errors.New("boom")
	s.Cancel(cause)

	var got error
	var invoked bool
	s.register(func(err error) { got = err; invoked = true })

	assert.True(t, invoked)
	assert.Equal(t, cause, got)
}

func TestInstallParentLinkPropagatesCancellation(t *testing.T) {
	parent := NewStopSource()
	child := NewStopSource()
	unregister := installParentLink(parent.Token(), child)
	defer unregister()

	assert.False(t, child.IsCancelled())
	parent.Cancel(nil)
	assert.True(t, child.IsCancelled())
}

func TestStopTokenNilSafe(t *testing.T) {
	var tok *StopToken
	assert.False(t, tok.IsCancelled())
	assert.Nil(t, tok.Cause())
}
