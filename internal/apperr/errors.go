package apperr

import "errors"

var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInternal     = errors.New("internal error")
	ErrRateLimited  = errors.New("rate limited")
)

// Business-rule errors surfaced to the user with their message intact.
var (
	ErrEditWindowExpired = errors.New("edit window expired")
	ErrNotMessageSender  = errors.New("only the sender can modify this message")
	ErrMessageDeleted    = errors.New("message has been deleted")
	ErrContentUnchanged  = errors.New("content unchanged")
	ErrAlreadyReviewed   = errors.New("request already reviewed")
	ErrSelfConversation  = errors.New("cannot start a conversation with yourself")
	ErrBlocked           = errors.New("messaging is blocked between these users")
	ErrAlreadyApplied    = errors.New("already applied to this job")
	ErrNotParticipant    = errors.New("not a participant of this conversation")
)
