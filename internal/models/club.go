package models

import "github.com/shopspring/decimal"

// ClubID is the numeric identifier of a club. IDs are allocated densely
// starting at 1 in creation order; 0 is never a valid id. IDs are never
// reused, even after the club is dissolved.
type ClubID uint64

// Club represents a rotating savings club: a fixed, ordered membership
// pooling deposits into one shared balance, with withdrawals rotating
// through the members in joining order.
//
// The zero Club value marks a dissolved (retired) slot.
type Club struct {
	// ID is the club's identifier (0 only in a dissolved slot).
	ID ClubID

	// Members is the membership in joining order. Fixed at creation: the
	// only way out of a club is dissolution.
	Members []Member

	// OwnerIndex is the index into Members of the organizer. Only the
	// owner may dissolve the club.
	OwnerIndex int

	// Balance is the pooled funds. Never negative.
	Balance decimal.Decimal

	// NextPayeeIndex is the index into Members of the member whose turn
	// it is to withdraw. Starts at 0 and advances cyclically on each
	// successful withdrawal.
	NextPayeeIndex int

	// CreatedAt is the Unix timestamp when the club was created.
	CreatedAt int64
}

// Live reports whether the club slot holds an active club.
func (c Club) Live() bool {
	return len(c.Members) > 0
}

// Clone returns a copy of the club whose Members slice shares no storage
// with the original.
func (c Club) Clone() Club {
	out := c
	out.Members = make([]Member, len(c.Members))
	copy(out.Members, c.Members)
	return out
}
