package domain

import "errors"

// Kind classifies a domain error so the transport layer can map it to a
// status code without knowing every sentinel.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindInvalid
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalid:
		return "invalid_operation"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// Error is a sentinel domain error. Compare with errors.Is against the
// package-level values; wrap freely with fmt.Errorf("...: %w", err).
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func newError(kind Kind, msg string) *Error { return &Error{Kind: kind, Msg: msg} }

var (
	ErrUserNotFound    = newError(KindNotFound, "user not found")
	ErrProfileNotFound = newError(KindNotFound, "profile not found")
	ErrPostNotFound    = newError(KindNotFound, "post not found")
	ErrNoActingProfile = newError(KindNotFound, "create a profile before using this endpoint")

	ErrUserExists       = newError(KindConflict, "user already registered")
	ErrProfileExists    = newError(KindConflict, "profile already exists for this user")
	ErrAlreadyFollowing = newError(KindConflict, "you are already following this user")
	ErrNotFollowing     = newError(KindConflict, "you are not following this user yet")

	ErrSelfFollow    = newError(KindInvalid, "you cannot follow yourself")
	ErrSelfUnfollow  = newError(KindInvalid, "you cannot unfollow yourself")
	ErrInvalidID     = newError(KindInvalid, "invalid id")
	ErrEmptyContent  = newError(KindInvalid, "content is required")
	ErrEmptyUsername = newError(KindInvalid, "username is required")
	ErrEmptyPatch    = newError(KindInvalid, "nothing to update")
	ErrMissingFields = newError(KindInvalid, "name, email and password are required")

	ErrInvalidCredentials = newError(KindUnauthorized, "invalid email or password")

	// ErrEdgeDiverged reports that only the authoritative half of a follow
	// edge was written. The caller is expected to queue a repair.
	ErrEdgeDiverged = newError(KindInternal, "follow edge partially applied")

	// ErrEdgeUnsettled reports that a follow edge kept changing while it was
	// being repaired. A later repair or sweep picks it up again.
	ErrEdgeUnsettled = newError(KindInternal, "follow edge changed during repair")
)

// KindOf returns the kind of the first domain error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// MessageOf returns the client-safe message of the first domain error in
// err's chain, or "" when there is none.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Msg
	}
	return ""
}
