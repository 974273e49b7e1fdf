package apperr

import (
	"errors"

	"larder/pkg/platform/sentinel"
)

// FromSentinel translates a store sentinel into the coded error surfaced to
// transports, attaching the entity name to the message. Non-sentinel errors
// become internal errors with the original kept as the cause.
func FromSentinel(err error, entity string) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return Wrap(CodeNotFound, entity+" not found", err)
	case errors.Is(err, sentinel.ErrConflict):
		return Wrap(CodeConflict, entity+" already exists", err)
	case errors.Is(err, sentinel.ErrInvalidState):
		return Wrap(CodeConflict, entity+" is in the wrong state", err)
	default:
		return Wrap(CodeInternal, entity+" operation failed", err)
	}
}
