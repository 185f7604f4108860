package club

import "errors"

// Registry operations fail with exactly one of these error kinds, wrapped
// with detail at the raise site. Callers classify with errors.Is.
var (
	// ErrInvalidInput marks a malformed argument: empty member list,
	// owner index out of range, empty identity, non-positive amount.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMembershipConflict marks an identity that already belongs to a
	// live club, or appears twice in one creation request.
	ErrMembershipConflict = errors.New("membership conflict")

	// ErrNotAMember marks a caller who belongs to no live club.
	ErrNotAMember = errors.New("not a member of any club")

	// ErrInsufficientBalance marks a withdrawal exceeding the pool.
	ErrInsufficientBalance = errors.New("insufficient club balance")

	// ErrNotYourTurn marks a withdrawal by a member out of rotation.
	ErrNotYourTurn = errors.New("not your turn to withdraw")

	// ErrNotOwner marks a dissolution attempt by a non-owner member.
	ErrNotOwner = errors.New("only the club owner may dissolve")

	// ErrOutOfRange marks a club id that is zero, beyond the allocated
	// range, or belongs to a dissolved club.
	ErrOutOfRange = errors.New("no such club")

	// ErrTransferFailed marks a withdrawal whose payout could not be
	// confirmed. The ledger is untouched when this is returned.
	ErrTransferFailed = errors.New("transfer failed")
)

// Kind returns the stable machine-readable kind of a registry error, used
// as the API error code and as a metrics label. Unrecognized errors report
// INTERNAL.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "INVALID_INPUT"
	case errors.Is(err, ErrMembershipConflict):
		return "MEMBERSHIP_CONFLICT"
	case errors.Is(err, ErrNotAMember):
		return "NOT_A_MEMBER"
	case errors.Is(err, ErrInsufficientBalance):
		return "INSUFFICIENT_BALANCE"
	case errors.Is(err, ErrNotYourTurn):
		return "NOT_YOUR_TURN"
	case errors.Is(err, ErrNotOwner):
		return "NOT_OWNER"
	case errors.Is(err, ErrOutOfRange):
		return "OUT_OF_RANGE"
	case errors.Is(err, ErrTransferFailed):
		return "TRANSFER_FAILED"
	default:
		return "INTERNAL"
	}
}
