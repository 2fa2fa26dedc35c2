// Package timeline implements the infinite day-keyed timeline engine: a
// windowed view over tasks grouped by calendar day, with segment loading,
// optimistic mutation, drag-and-drop reordering and search. One Controller
// exists per client session; its behavior branches on an explicit session
// mode exactly once per operation.
package timeline

import (
	"errors"
	"fmt"
)

var (
	// ErrReadOnly is returned for mutations in admin view mode.
	ErrReadOnly = errors.New("timeline is read-only")
	// ErrNotReady is returned for operations before the session mode is known.
	ErrNotReady = errors.New("session mode not resolved yet")
	// ErrNoDrag is returned for a drop without a preceding drag start.
	ErrNoDrag = errors.New("no drag in progress")
	// ErrUnknownTask is returned when an operation names a task the
	// timeline does not hold.
	ErrUnknownTask = errors.New("unknown task")
)

// ModeKind enumerates the session modes.
type ModeKind int

const (
	// KindLoading means the auth state is not resolved yet. Nothing is
	// fetched and no segment is marked loaded.
	KindLoading ModeKind = iota
	// KindGuest is a local-only session: tasks live in memory, segments
	// are marked loaded without fetching.
	KindGuest
	// KindUser is an authenticated session backed by storage.
	KindUser
	// KindAdmin is a read-only view of another user's timeline.
	KindAdmin
)

// Mode is the tagged session mode. The zero value is the loading mode.
type Mode struct {
	kind   ModeKind
	userID string // acting user (KindUser) or viewed user (KindAdmin)
	email  string
}

// LoadingMode returns the unresolved mode.
func LoadingMode() Mode {
	return Mode{kind: KindLoading}
}

// GuestMode returns the local-only mode.
func GuestMode() Mode {
	return Mode{kind: KindGuest}
}

// UserMode returns the authenticated mode for the given account.
func UserMode(userID, email string) Mode {
	return Mode{kind: KindUser, userID: userID, email: email}
}

// AdminMode returns the read-only mode viewing the given user's timeline.
func AdminMode(targetUserID string) Mode {
	return Mode{kind: KindAdmin, userID: targetUserID}
}

// Kind returns the mode tag.
func (m Mode) Kind() ModeKind {
	return m.kind
}

// UserID returns the acting user for KindUser, or the viewed user for
// KindAdmin. Empty otherwise.
func (m Mode) UserID() string {
	return m.userID
}

// Email returns the acting user's email, set only for KindUser.
func (m Mode) Email() string {
	return m.email
}

// CanMutate reports whether this mode accepts task mutations.
func (m Mode) CanMutate() bool {
	return m.kind == KindGuest || m.kind == KindUser
}

// String names the mode for logs.
func (m Mode) String() string {
	switch m.kind {
	case KindLoading:
		return "loading"
	case KindGuest:
		return "guest"
	case KindUser:
		return fmt.Sprintf("user(%s)", m.userID)
	case KindAdmin:
		return fmt.Sprintf("admin(%s)", m.userID)
	default:
		return "unknown"
	}
}
