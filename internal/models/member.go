package models

// Identity is an opaque account identifier. The registry only ever compares
// identities for equality; it never inspects their contents. An Identity may
// belong to at most one live club at a time, system-wide.
type Identity string

// Member represents one enrolled participant of a club.
type Member struct {
	// Identity is the member's account identifier. Must be non-empty;
	// membership and equality are decided by Identity alone.
	Identity Identity

	// Name is the member's display name. Purely cosmetic: it never
	// participates in lookups and may be empty or duplicated.
	Name string
}
