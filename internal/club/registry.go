// Package club implements the rotating savings club registry.
//
// The Registry is a pure in-memory state machine: clubs live in a dense
// slice where slot i holds club id i+1, identities map to their single
// live club, and lifetime deposit/withdrawal totals accumulate per
// identity. Every operation either completes fully or leaves the registry
// untouched.
//
// The Registry itself is not safe for concurrent use; the service layer
// serializes all access behind one lock.
package club

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/susu/internal/models"
)

// Registry holds every club and ledger total in the system.
type Registry struct {
	// clubs is dense: slot i holds the club with id i+1, or the zero
	// Club if that club was dissolved. Slots are never removed, so ids
	// stay stable and are never reused.
	clubs []models.Club

	// byIdentity maps each enrolled identity to its club. Presence in
	// the map is what "is a member" means.
	byIdentity map[models.Identity]models.ClubID

	// deposits and withdrawals are lifetime totals per identity, global
	// across all clubs the identity has ever belonged to. No operation
	// resets them.
	deposits    map[models.Identity]decimal.Decimal
	withdrawals map[models.Identity]decimal.Decimal

	// now supplies creation timestamps. Overridden in tests.
	now func() int64
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byIdentity:  make(map[models.Identity]models.ClubID),
		deposits:    make(map[models.Identity]decimal.Decimal),
		withdrawals: make(map[models.Identity]decimal.Decimal),
		now:         func() int64 { return time.Now().Unix() },
	}
}

// CreateClub registers a new club with the given members, in joining
// order, owned by members[ownerIndex]. All validation happens before any
// state changes: a conflict on the last member leaves the first members
// unassigned.
func (r *Registry) CreateClub(members []models.Member, ownerIndex int) (models.ClubID, error) {
	if len(members) == 0 {
		return 0, fmt.Errorf("%w: club needs at least one member", ErrInvalidInput)
	}
	if ownerIndex < 0 || ownerIndex >= len(members) {
		return 0, fmt.Errorf("%w: owner index %d out of range for %d members", ErrInvalidInput, ownerIndex, len(members))
	}

	seen := make(map[models.Identity]bool, len(members))
	for _, m := range members {
		if m.Identity == "" {
			return 0, fmt.Errorf("%w: member %q has an empty identity", ErrInvalidInput, m.Name)
		}
		if seen[m.Identity] {
			return 0, fmt.Errorf("%w: identity %s appears twice", ErrMembershipConflict, m.Identity)
		}
		seen[m.Identity] = true
		if cid, ok := r.byIdentity[m.Identity]; ok {
			return 0, fmt.Errorf("%w: identity %s already belongs to club %d", ErrMembershipConflict, m.Identity, cid)
		}
	}

	id := models.ClubID(len(r.clubs) + 1)
	c := models.Club{
		ID:         id,
		Members:    make([]models.Member, len(members)),
		OwnerIndex: ownerIndex,
		CreatedAt:  r.now(),
	}
	copy(c.Members, members)

	r.clubs = append(r.clubs, c)
	for _, m := range members {
		r.byIdentity[m.Identity] = id
	}
	return id, nil
}

// Deposit adds amount to the caller's club pool and to the caller's
// lifetime deposited total. Any member may deposit at any time; deposits
// do not interact with the withdrawal rotation.
func (r *Registry) Deposit(caller models.Identity, amount decimal.Decimal) (DepositReceipt, error) {
	if amount.Sign() <= 0 {
		return DepositReceipt{}, fmt.Errorf("%w: deposit amount must be positive, got %s", ErrInvalidInput, amount)
	}
	id, c, err := r.resolveMember(caller)
	if err != nil {
		return DepositReceipt{}, err
	}

	c.Balance = c.Balance.Add(amount)
	r.deposits[caller] = r.deposits[caller].Add(amount)

	return DepositReceipt{
		ClubID:         id,
		Balance:        c.Balance,
		TotalDeposited: r.deposits[caller],
		NextPayeeIndex: c.NextPayeeIndex,
	}, nil
}

// Withdraw pays amount out of the caller's club pool, provided the pool
// covers it and the rotation points at the caller. The transfer must
// confirm before the ledger records anything: a failed transfer leaves
// balance, totals and rotation exactly as they were.
//
// Checks run in a fixed order: amount, membership, balance, turn,
// transfer. A broke club tells its next payee "insufficient balance", not
// "not your turn".
func (r *Registry) Withdraw(ctx context.Context, caller models.Identity, amount decimal.Decimal, transfer Transferer) (WithdrawalReceipt, error) {
	if amount.Sign() <= 0 {
		return WithdrawalReceipt{}, fmt.Errorf("%w: withdrawal amount must be positive, got %s", ErrInvalidInput, amount)
	}
	id, c, err := r.resolveMember(caller)
	if err != nil {
		return WithdrawalReceipt{}, err
	}
	if amount.GreaterThan(c.Balance) {
		return WithdrawalReceipt{}, fmt.Errorf("%w: club %d holds %s, requested %s", ErrInsufficientBalance, id, c.Balance, amount)
	}
	if c.Members[c.NextPayeeIndex].Identity != caller {
		return WithdrawalReceipt{}, fmt.Errorf("%w: the rotation points at member %d of club %d", ErrNotYourTurn, c.NextPayeeIndex, id)
	}

	if err := transfer.Transfer(ctx, caller, amount); err != nil {
		return WithdrawalReceipt{}, fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	c.Balance = c.Balance.Sub(amount)
	r.withdrawals[caller] = r.withdrawals[caller].Add(amount)
	c.NextPayeeIndex = (c.NextPayeeIndex + 1) % len(c.Members)

	return WithdrawalReceipt{
		ClubID:         id,
		Balance:        c.Balance,
		TotalWithdrawn: r.withdrawals[caller],
		NextPayeeIndex: c.NextPayeeIndex,
	}, nil
}

// Dissolve retires the caller's club. Only the owner may dissolve. Every
// member becomes free to join or form another club; the slot is zeroed
// and its id is never reused. Lifetime totals survive.
//
// Any remaining balance is stranded, not disbursed. The receipt carries
// it so callers can warn the owner.
func (r *Registry) Dissolve(caller models.Identity) (DissolutionReceipt, error) {
	id, c, err := r.resolveMember(caller)
	if err != nil {
		return DissolutionReceipt{}, err
	}
	if c.Members[c.OwnerIndex].Identity != caller {
		return DissolutionReceipt{}, fmt.Errorf("%w: club %d", ErrNotOwner, id)
	}

	members := make([]models.Member, len(c.Members))
	copy(members, c.Members)
	stranded := c.Balance

	for _, m := range c.Members {
		delete(r.byIdentity, m.Identity)
	}
	r.clubs[id-1] = models.Club{}

	return DissolutionReceipt{
		ClubID:          id,
		StrandedBalance: stranded,
		Members:         members,
	}, nil
}

// ClubByID returns a copy of the club with the given id. Zero ids, ids
// beyond the allocated range and dissolved clubs all answer ErrOutOfRange.
func (r *Registry) ClubByID(id models.ClubID) (models.Club, error) {
	if id == 0 || uint64(id) > uint64(len(r.clubs)) {
		return models.Club{}, fmt.Errorf("%w: id %d", ErrOutOfRange, id)
	}
	c := r.clubs[id-1]
	if !c.Live() {
		return models.Club{}, fmt.Errorf("%w: club %d was dissolved", ErrOutOfRange, id)
	}
	return c.Clone(), nil
}

// ClubOf returns a copy of the caller's club.
func (r *Registry) ClubOf(caller models.Identity) (models.Club, error) {
	_, c, err := r.resolveMember(caller)
	if err != nil {
		return models.Club{}, err
	}
	return c.Clone(), nil
}

// Clubs returns copies of all live clubs in ascending id order.
func (r *Registry) Clubs() []models.Club {
	out := make([]models.Club, 0, len(r.clubs))
	for _, c := range r.clubs {
		if c.Live() {
			out = append(out, c.Clone())
		}
	}
	return out
}

// TotalsFor returns the identity's lifetime totals. Identities that never
// moved money report zero totals; membership is not required.
func (r *Registry) TotalsFor(id models.Identity) Totals {
	return Totals{
		Deposited: r.deposits[id],
		Withdrawn: r.withdrawals[id],
	}
}

// resolveMember locates the caller's live club, returning a pointer into
// the registry's own slot for mutation by the caller.
func (r *Registry) resolveMember(caller models.Identity) (models.ClubID, *models.Club, error) {
	if caller == "" {
		return 0, nil, fmt.Errorf("%w: empty identity", ErrInvalidInput)
	}
	id, ok := r.byIdentity[caller]
	if !ok {
		return 0, nil, fmt.Errorf("%w: identity %s", ErrNotAMember, caller)
	}
	return id, &r.clubs[id-1], nil
}
