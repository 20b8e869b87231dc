// Package errors provides structured error handling with stable machine codes.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Purchase rejections
	CodeMissingIdentity   Code = "MISSING_IDENTITY"
	CodeAlreadyOwned      Code = "ALREADY_OWNED"
	CodeUnknownItem       Code = "UNKNOWN_ITEM"
	CodeWrongPeriod       Code = "WRONG_PERIOD"
	CodeInsufficientFunds Code = "INSUFFICIENT_FUNDS"

	// Engine errors
	CodeActionUnsupported Code = "ACTION_UNSUPPORTED"
	CodeActionMalformed   Code = "ACTION_MALFORMED"

	// Ledger invariant violations
	CodeNegativeAmount Code = "INVENTORY_NEGATIVE_AMOUNT"

	// Storage errors
	CodeNotFound        Code = "NOT_FOUND"
	CodeVersionConflict Code = "VERSION_CONFLICT"
	CodeFarmExists      Code = "FARM_EXISTS"

	// Replay errors
	CodeReplayDiverged Code = "REPLAY_DIVERGED"
)

// Class categorizes an error code for callers deciding how to react.
type Class int

const (
	// ClassInternal covers unknown or programming-contract failures. The
	// transition aborts and nothing is persisted.
	ClassInternal Class = iota
	// ClassRejection covers expected validation failures. Retrying the same
	// action against the same state deterministically fails again.
	ClassRejection
	// ClassNotFound covers missing resources.
	ClassNotFound
	// ClassConflict covers concurrent-write conflicts. Retrying against the
	// current state may succeed.
	ClassConflict
)

// ErrorClass maps domain codes to classes.
func (c Code) ErrorClass() Class {
	switch c {
	case CodeMissingIdentity,
		CodeAlreadyOwned,
		CodeUnknownItem,
		CodeWrongPeriod,
		CodeInsufficientFunds,
		CodeActionUnsupported,
		CodeActionMalformed:
		return ClassRejection

	case CodeNotFound:
		return ClassNotFound

	case CodeVersionConflict,
		CodeFarmExists:
		return ClassConflict

	default:
		return ClassInternal
	}
}
