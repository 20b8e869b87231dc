// Package action defines the contract between callers and the transition
// engine: a typed, caller-submitted intent plus the ambient context it is
// evaluated under. Actions are ephemeral values, constructed per request and
// discarded after processing.
package action

import "time"

// Type identifies the kind of an action, e.g. "banner.purchased".
type Type string

// Action is a single typed intent to transition game state.
type Action interface {
	ActionType() Type
}

// Context carries ambient inputs that are not part of state: the instant the
// action is evaluated at and the opaque account identifier. FarmID is part of
// the operation's contract for policy extensibility; it does not affect
// pricing math today.
type Context struct {
	CreatedAt time.Time
	FarmID    string
}
