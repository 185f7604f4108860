package club

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/susu/internal/models"
)

// Snapshot is the full registry state as loaded from durable storage.
// Clubs must be dense by slot: Clubs[i] holds the club with id i+1, or the
// zero Club where that club was dissolved.
type Snapshot struct {
	Clubs       []models.Club
	Deposits    map[models.Identity]decimal.Decimal
	Withdrawals map[models.Identity]decimal.Decimal
}

// Restore builds a registry from a snapshot, rebuilding the identity index
// from the member lists. It rejects snapshots that violate the registry's
// invariants: misnumbered slots, out-of-range indices, negative balances,
// empty identities, or an identity enrolled in two live clubs.
func Restore(snap Snapshot) (*Registry, error) {
	r := NewRegistry()
	r.clubs = make([]models.Club, len(snap.Clubs))

	for i, c := range snap.Clubs {
		if !c.Live() {
			continue
		}
		id := models.ClubID(i + 1)
		if c.ID != id {
			return nil, fmt.Errorf("slot %d holds club id %d, want %d", i, c.ID, id)
		}
		if c.OwnerIndex < 0 || c.OwnerIndex >= len(c.Members) {
			return nil, fmt.Errorf("club %d: owner index %d out of range for %d members", id, c.OwnerIndex, len(c.Members))
		}
		if c.NextPayeeIndex < 0 || c.NextPayeeIndex >= len(c.Members) {
			return nil, fmt.Errorf("club %d: next payee index %d out of range for %d members", id, c.NextPayeeIndex, len(c.Members))
		}
		if c.Balance.Sign() < 0 {
			return nil, fmt.Errorf("club %d: negative balance %s", id, c.Balance)
		}
		for _, m := range c.Members {
			if m.Identity == "" {
				return nil, fmt.Errorf("club %d: member with empty identity", id)
			}
			if other, ok := r.byIdentity[m.Identity]; ok {
				return nil, fmt.Errorf("identity %s enrolled in clubs %d and %d", m.Identity, other, id)
			}
			r.byIdentity[m.Identity] = id
		}
		r.clubs[i] = c.Clone()
	}

	for id, d := range snap.Deposits {
		if d.Sign() < 0 {
			return nil, fmt.Errorf("identity %s: negative deposited total %s", id, d)
		}
		r.deposits[id] = d
	}
	for id, w := range snap.Withdrawals {
		if w.Sign() < 0 {
			return nil, fmt.Errorf("identity %s: negative withdrawn total %s", id, w)
		}
		r.withdrawals[id] = w
	}

	return r, nil
}
