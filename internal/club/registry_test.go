package club

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/susu/internal/models"
)

// okTransfer confirms every payout.
var okTransfer = TransferFunc(func(ctx context.Context, to models.Identity, amount decimal.Decimal) error {
	return nil
})

func member(identity, name string) models.Member {
	return models.Member{Identity: models.Identity(identity), Name: name}
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

func TestCreateClub(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(r *Registry)
		members    []models.Member
		ownerIndex int
		wantErr    error
	}{
		{
			name:       "single member club",
			members:    []models.Member{member("alice", "Alice")},
			ownerIndex: 0,
		},
		{
			name: "three member club",
			members: []models.Member{
				member("alice", "Alice"),
				member("bob", "Bob"),
				member("carol", "Carol"),
			},
			ownerIndex: 1,
		},
		{
			name:       "empty member list",
			members:    nil,
			ownerIndex: 0,
			wantErr:    ErrInvalidInput,
		},
		{
			name:       "negative owner index",
			members:    []models.Member{member("alice", "Alice")},
			ownerIndex: -1,
			wantErr:    ErrInvalidInput,
		},
		{
			name:       "owner index past the end",
			members:    []models.Member{member("alice", "Alice")},
			ownerIndex: 1,
			wantErr:    ErrInvalidInput,
		},
		{
			name: "empty identity",
			members: []models.Member{
				member("alice", "Alice"),
				member("", "Nobody"),
			},
			ownerIndex: 0,
			wantErr:    ErrInvalidInput,
		},
		{
			name: "duplicate identity in request",
			members: []models.Member{
				member("alice", "Alice"),
				member("alice", "Alice again"),
			},
			ownerIndex: 0,
			wantErr:    ErrMembershipConflict,
		},
		{
			name: "identity already in another club",
			setup: func(r *Registry) {
				if _, err := r.CreateClub([]models.Member{member("bob", "Bob")}, 0); err != nil {
					t.Fatalf("setup: %v", err)
				}
			},
			members: []models.Member{
				member("alice", "Alice"),
				member("bob", "Bob"),
			},
			ownerIndex: 0,
			wantErr:    ErrMembershipConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			if tt.setup != nil {
				tt.setup(r)
			}

			id, err := r.CreateClub(tt.members, tt.ownerIndex)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CreateClub() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateClub() failed: %v", err)
			}
			if id == 0 {
				t.Fatal("expected a non-zero club id")
			}

			c, err := r.ClubByID(id)
			if err != nil {
				t.Fatalf("ClubByID(%d) failed: %v", id, err)
			}
			if len(c.Members) != len(tt.members) {
				t.Errorf("members: got %d, want %d", len(c.Members), len(tt.members))
			}
			if c.OwnerIndex != tt.ownerIndex {
				t.Errorf("owner index: got %d, want %d", c.OwnerIndex, tt.ownerIndex)
			}
			if c.NextPayeeIndex != 0 {
				t.Errorf("next payee index: got %d, want 0", c.NextPayeeIndex)
			}
			if !c.Balance.IsZero() {
				t.Errorf("balance: got %s, want 0", c.Balance)
			}
			if c.CreatedAt == 0 {
				t.Error("expected CreatedAt to be set")
			}
		})
	}
}

func TestCreateClubAssignsDenseIDs(t *testing.T) {
	r := NewRegistry()

	first, err := r.CreateClub([]models.Member{member("alice", "Alice")}, 0)
	if err != nil {
		t.Fatalf("CreateClub failed: %v", err)
	}
	second, err := r.CreateClub([]models.Member{member("bob", "Bob")}, 0)
	if err != nil {
		t.Fatalf("CreateClub failed: %v", err)
	}

	if first != 1 {
		t.Errorf("first id: got %d, want 1", first)
	}
	if second != 2 {
		t.Errorf("second id: got %d, want 2", second)
	}
}

func TestCreateClubIsAtomic(t *testing.T) {
	r := NewRegistry()

	// "carol" is taken, so the whole creation must fail.
	if _, err := r.CreateClub([]models.Member{member("carol", "Carol")}, 0); err != nil {
		t.Fatalf("setup CreateClub failed: %v", err)
	}
	_, err := r.CreateClub([]models.Member{
		member("alice", "Alice"),
		member("bob", "Bob"),
		member("carol", "Carol"),
	}, 0)
	if !errors.Is(err, ErrMembershipConflict) {
		t.Fatalf("CreateClub() error = %v, want %v", err, ErrMembershipConflict)
	}

	// alice and bob were never assigned, so a clean retry must succeed.
	id, err := r.CreateClub([]models.Member{
		member("alice", "Alice"),
		member("bob", "Bob"),
	}, 0)
	if err != nil {
		t.Fatalf("retry CreateClub failed: %v", err)
	}
	if id == 0 {
		t.Fatal("expected a non-zero club id on retry")
	}
}

func TestDeposit(t *testing.T) {
	tests := []struct {
		name    string
		caller  string
		amount  string
		wantErr error
	}{
		{name: "positive amount", caller: "alice", amount: "25.50"},
		{name: "zero amount", caller: "alice", amount: "0", wantErr: ErrInvalidInput},
		{name: "negative amount", caller: "alice", amount: "-10", wantErr: ErrInvalidInput},
		{name: "caller without a club", caller: "mallory", amount: "10", wantErr: ErrNotAMember},
		{name: "empty identity", caller: "", amount: "10", wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			if _, err := r.CreateClub([]models.Member{
				member("alice", "Alice"),
				member("bob", "Bob"),
			}, 0); err != nil {
				t.Fatalf("setup CreateClub failed: %v", err)
			}

			receipt, err := r.Deposit(models.Identity(tt.caller), dec(t, tt.amount))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Deposit() error = %v, want %v", err, tt.wantErr)
				}
				// Failed deposits leave the pool untouched.
				c, getErr := r.ClubByID(1)
				if getErr != nil {
					t.Fatalf("ClubByID failed: %v", getErr)
				}
				if !c.Balance.IsZero() {
					t.Errorf("balance after failed deposit: got %s, want 0", c.Balance)
				}
				return
			}
			if err != nil {
				t.Fatalf("Deposit() failed: %v", err)
			}
			if !receipt.Balance.Equal(dec(t, tt.amount)) {
				t.Errorf("balance: got %s, want %s", receipt.Balance, tt.amount)
			}
			if !receipt.TotalDeposited.Equal(dec(t, tt.amount)) {
				t.Errorf("lifetime deposited: got %s, want %s", receipt.TotalDeposited, tt.amount)
			}
		})
	}
}

func TestDepositAccumulates(t *testing.T) {
	r := NewRegistry()
	if _, err := r.CreateClub([]models.Member{
		member("alice", "Alice"),
		member("bob", "Bob"),
	}, 0); err != nil {
		t.Fatalf("CreateClub failed: %v", err)
	}

	if _, err := r.Deposit("alice", dec(t, "100")); err != nil {
		t.Fatalf("first deposit failed: %v", err)
	}
	receipt, err := r.Deposit("bob", dec(t, "50"))
	if err != nil {
		t.Fatalf("second deposit failed: %v", err)
	}

	if !receipt.Balance.Equal(dec(t, "150")) {
		t.Errorf("pooled balance: got %s, want 150", receipt.Balance)
	}
	if !receipt.TotalDeposited.Equal(dec(t, "50")) {
		t.Errorf("bob lifetime deposited: got %s, want 50", receipt.TotalDeposited)
	}
	if got := r.TotalsFor("alice").Deposited; !got.Equal(dec(t, "100")) {
		t.Errorf("alice lifetime deposited: got %s, want 100", got)
	}
}

func TestWithdraw(t *testing.T) {
	// Club of alice, bob; rotation starts at alice; pool holds 100.
	newFunded := func(t *testing.T) *Registry {
		t.Helper()
		r := NewRegistry()
		if _, err := r.CreateClub([]models.Member{
			member("alice", "Alice"),
			member("bob", "Bob"),
		}, 0); err != nil {
			t.Fatalf("CreateClub failed: %v", err)
		}
		if _, err := r.Deposit("alice", dec(t, "100")); err != nil {
			t.Fatalf("Deposit failed: %v", err)
		}
		return r
	}

	tests := []struct {
		name    string
		caller  string
		amount  string
		wantErr error
	}{
		{name: "next payee withdraws within balance", caller: "alice", amount: "60"},
		{name: "whole pool", caller: "alice", amount: "100"},
		{name: "zero amount", caller: "alice", amount: "0", wantErr: ErrInvalidInput},
		{name: "negative amount", caller: "alice", amount: "-5", wantErr: ErrInvalidInput},
		{name: "caller without a club", caller: "mallory", amount: "10", wantErr: ErrNotAMember},
		{name: "more than the pool holds", caller: "alice", amount: "100.01", wantErr: ErrInsufficientBalance},
		{name: "out of rotation", caller: "bob", amount: "10", wantErr: ErrNotYourTurn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newFunded(t)

			receipt, err := r.Withdraw(context.Background(), models.Identity(tt.caller), dec(t, tt.amount), okTransfer)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Withdraw() error = %v, want %v", err, tt.wantErr)
				}
				c, getErr := r.ClubByID(1)
				if getErr != nil {
					t.Fatalf("ClubByID failed: %v", getErr)
				}
				if !c.Balance.Equal(dec(t, "100")) {
					t.Errorf("balance after failed withdrawal: got %s, want 100", c.Balance)
				}
				if c.NextPayeeIndex != 0 {
					t.Errorf("rotation after failed withdrawal: got %d, want 0", c.NextPayeeIndex)
				}
				return
			}
			if err != nil {
				t.Fatalf("Withdraw() failed: %v", err)
			}

			want := dec(t, "100").Sub(dec(t, tt.amount))
			if !receipt.Balance.Equal(want) {
				t.Errorf("balance: got %s, want %s", receipt.Balance, want)
			}
			if !receipt.TotalWithdrawn.Equal(dec(t, tt.amount)) {
				t.Errorf("lifetime withdrawn: got %s, want %s", receipt.TotalWithdrawn, tt.amount)
			}
			if receipt.NextPayeeIndex != 1 {
				t.Errorf("next payee index: got %d, want 1", receipt.NextPayeeIndex)
			}
		})
	}
}

func TestWithdrawChecksBalanceBeforeTurn(t *testing.T) {
	// bob is out of rotation AND the pool is short. The balance check
	// runs first, so he must hear "insufficient balance".
	r := NewRegistry()
	if _, err := r.CreateClub([]models.Member{
		member("alice", "Alice"),
		member("bob", "Bob"),
	}, 0); err != nil {
		t.Fatalf("CreateClub failed: %v", err)
	}
	if _, err := r.Deposit("alice", dec(t, "10")); err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}

	_, err := r.Withdraw(context.Background(), "bob", dec(t, "20"), okTransfer)
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("Withdraw() error = %v, want %v", err, ErrInsufficientBalance)
	}
}

func TestWithdrawFailedTransferChangesNothing(t *testing.T) {
	r := NewRegistry()
	if _, err := r.CreateClub([]models.Member{
		member("alice", "Alice"),
		member("bob", "Bob"),
	}, 0); err != nil {
		t.Fatalf("CreateClub failed: %v", err)
	}
	if _, err := r.Deposit("alice", dec(t, "100")); err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}

	railDown := TransferFunc(func(ctx context.Context, to models.Identity, amount decimal.Decimal) error {
		return errors.New("payout rail unreachable")
	})

	_, err := r.Withdraw(context.Background(), "alice", dec(t, "40"), railDown)
	if !errors.Is(err, ErrTransferFailed) {
		t.Fatalf("Withdraw() error = %v, want %v", err, ErrTransferFailed)
	}

	c, err := r.ClubByID(1)
	if err != nil {
		t.Fatalf("ClubByID failed: %v", err)
	}
	if !c.Balance.Equal(dec(t, "100")) {
		t.Errorf("balance: got %s, want 100", c.Balance)
	}
	if c.NextPayeeIndex != 0 {
		t.Errorf("next payee index: got %d, want 0", c.NextPayeeIndex)
	}
	if got := r.TotalsFor("alice").Withdrawn; !got.IsZero() {
		t.Errorf("lifetime withdrawn: got %s, want 0", got)
	}

	// The rotation still points at alice, so a working rail pays her out.
	if _, err := r.Withdraw(context.Background(), "alice", dec(t, "40"), okTransfer); err != nil {
		t.Fatalf("retry Withdraw failed: %v", err)
	}
}

func TestRotationCyclesThroughMembers(t *testing.T) {
	// Three members, each takes a turn, then the rotation wraps back.
	r := NewRegistry()
	if _, err := r.CreateClub([]models.Member{
		member("alice", "Alice"),
		member("bob", "Bob"),
		member("carol", "Carol"),
	}, 0); err != nil {
		t.Fatalf("CreateClub failed: %v", err)
	}
	if _, err := r.Deposit("alice", dec(t, "400")); err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}

	ctx := context.Background()
	for round, caller := range []models.Identity{"alice", "bob", "carol", "alice"} {
		receipt, err := r.Withdraw(ctx, caller, dec(t, "100"), okTransfer)
		if err != nil {
			t.Fatalf("round %d: Withdraw(%s) failed: %v", round, caller, err)
		}
		wantNext := (round + 1) % 3
		if receipt.NextPayeeIndex != wantNext {
			t.Errorf("round %d: next payee index: got %d, want %d", round, receipt.NextPayeeIndex, wantNext)
		}
	}
}

func TestSavingsRoundLifecycle(t *testing.T) {
	// Full lifecycle: A, B and C pool money, A and B take their turns,
	// C is refused twice for different reasons, then A dissolves and the
	// members are free to start over.
	r := NewRegistry()
	ctx := context.Background()

	id, err := r.CreateClub([]models.Member{
		member("A", "Ama"),
		member("B", "Badu"),
		member("C", "Cudjoe"),
	}, 0)
	if err != nil {
		t.Fatalf("CreateClub failed: %v", err)
	}

	if _, err := r.Deposit("A", dec(t, "100")); err != nil {
		t.Fatalf("A deposit failed: %v", err)
	}
	depB, err := r.Deposit("B", dec(t, "50"))
	if err != nil {
		t.Fatalf("B deposit failed: %v", err)
	}
	if !depB.Balance.Equal(dec(t, "150")) {
		t.Fatalf("pooled balance: got %s, want 150", depB.Balance)
	}

	// C is not the next payee.
	if _, err := r.Withdraw(ctx, "C", dec(t, "150"), okTransfer); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("C withdraw error = %v, want %v", err, ErrNotYourTurn)
	}

	// A's turn: 120 out, rotation moves to B.
	wA, err := r.Withdraw(ctx, "A", dec(t, "120"), okTransfer)
	if err != nil {
		t.Fatalf("A withdraw failed: %v", err)
	}
	if !wA.Balance.Equal(dec(t, "30")) {
		t.Errorf("balance after A: got %s, want 30", wA.Balance)
	}
	if wA.NextPayeeIndex != 1 {
		t.Errorf("next payee after A: got %d, want 1", wA.NextPayeeIndex)
	}

	// B's turn: drains the pool, rotation moves to C.
	wB, err := r.Withdraw(ctx, "B", dec(t, "30"), okTransfer)
	if err != nil {
		t.Fatalf("B withdraw failed: %v", err)
	}
	if !wB.Balance.IsZero() {
		t.Errorf("balance after B: got %s, want 0", wB.Balance)
	}
	if wB.NextPayeeIndex != 2 {
		t.Errorf("next payee after B: got %d, want 2", wB.NextPayeeIndex)
	}

	// C's turn has come, but the pool is empty.
	if _, err := r.Withdraw(ctx, "C", dec(t, "1"), okTransfer); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("C withdraw error = %v, want %v", err, ErrInsufficientBalance)
	}

	// Owner dissolves; everyone is released.
	receipt, err := r.Dissolve("A")
	if err != nil {
		t.Fatalf("Dissolve failed: %v", err)
	}
	if receipt.ClubID != id {
		t.Errorf("dissolved club id: got %d, want %d", receipt.ClubID, id)
	}
	if !receipt.StrandedBalance.IsZero() {
		t.Errorf("stranded balance: got %s, want 0", receipt.StrandedBalance)
	}
	if _, err := r.ClubByID(id); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("ClubByID after dissolve error = %v, want %v", err, ErrOutOfRange)
	}

	// Lifetime totals survive the dissolution.
	if got := r.TotalsFor("A").Deposited; !got.Equal(dec(t, "100")) {
		t.Errorf("A lifetime deposited: got %s, want 100", got)
	}
	if got := r.TotalsFor("A").Withdrawn; !got.Equal(dec(t, "120")) {
		t.Errorf("A lifetime withdrawn: got %s, want 120", got)
	}
	if got := r.TotalsFor("B").Withdrawn; !got.Equal(dec(t, "30")) {
		t.Errorf("B lifetime withdrawn: got %s, want 30", got)
	}

	// A subset can start a fresh club under a fresh id.
	next, err := r.CreateClub([]models.Member{
		member("B", "Badu"),
		member("C", "Cudjoe"),
	}, 0)
	if err != nil {
		t.Fatalf("CreateClub after dissolve failed: %v", err)
	}
	if next != id+1 {
		t.Errorf("next club id: got %d, want %d", next, id+1)
	}
}

func TestDissolve(t *testing.T) {
	tests := []struct {
		name    string
		caller  string
		wantErr error
	}{
		{name: "owner dissolves", caller: "bob"},
		{name: "non-owner member", caller: "alice", wantErr: ErrNotOwner},
		{name: "caller without a club", caller: "mallory", wantErr: ErrNotAMember},
		{name: "empty identity", caller: "", wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			// bob owns the club even though alice joined first.
			if _, err := r.CreateClub([]models.Member{
				member("alice", "Alice"),
				member("bob", "Bob"),
			}, 1); err != nil {
				t.Fatalf("CreateClub failed: %v", err)
			}
			if _, err := r.Deposit("alice", dec(t, "75")); err != nil {
				t.Fatalf("Deposit failed: %v", err)
			}

			receipt, err := r.Dissolve(models.Identity(tt.caller))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Dissolve() error = %v, want %v", err, tt.wantErr)
				}
				if _, err := r.ClubByID(1); err != nil {
					t.Errorf("club should survive a failed dissolve: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Dissolve() failed: %v", err)
			}

			if !receipt.StrandedBalance.Equal(dec(t, "75")) {
				t.Errorf("stranded balance: got %s, want 75", receipt.StrandedBalance)
			}
			if len(receipt.Members) != 2 {
				t.Errorf("receipt members: got %d, want 2", len(receipt.Members))
			}
			if _, err := r.ClubByID(1); !errors.Is(err, ErrOutOfRange) {
				t.Errorf("ClubByID after dissolve error = %v, want %v", err, ErrOutOfRange)
			}
			if _, err := r.ClubOf("alice"); !errors.Is(err, ErrNotAMember) {
				t.Errorf("ClubOf after dissolve error = %v, want %v", err, ErrNotAMember)
			}
		})
	}
}

func TestClubByID(t *testing.T) {
	r := NewRegistry()
	if _, err := r.CreateClub([]models.Member{member("alice", "Alice")}, 0); err != nil {
		t.Fatalf("CreateClub failed: %v", err)
	}

	tests := []struct {
		name    string
		id      models.ClubID
		wantErr error
	}{
		{name: "live club", id: 1},
		{name: "zero id", id: 0, wantErr: ErrOutOfRange},
		{name: "beyond allocated range", id: 2, wantErr: ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := r.ClubByID(tt.id)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ClubByID(%d) error = %v, want %v", tt.id, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ClubByID(%d) failed: %v", tt.id, err)
			}
			if c.ID != tt.id {
				t.Errorf("club id: got %d, want %d", c.ID, tt.id)
			}
		})
	}
}

func TestReadsReturnCopies(t *testing.T) {
	r := NewRegistry()
	if _, err := r.CreateClub([]models.Member{
		member("alice", "Alice"),
		member("bob", "Bob"),
	}, 0); err != nil {
		t.Fatalf("CreateClub failed: %v", err)
	}

	c, err := r.ClubByID(1)
	if err != nil {
		t.Fatalf("ClubByID failed: %v", err)
	}
	c.Members[0] = member("mallory", "Mallory")
	c.Balance = dec(t, "999999")

	fresh, err := r.ClubByID(1)
	if err != nil {
		t.Fatalf("ClubByID failed: %v", err)
	}
	if fresh.Members[0].Identity != "alice" {
		t.Errorf("registry member mutated through returned copy: got %s", fresh.Members[0].Identity)
	}
	if !fresh.Balance.IsZero() {
		t.Errorf("registry balance mutated through returned copy: got %s", fresh.Balance)
	}
}

func TestClubs(t *testing.T) {
	r := NewRegistry()
	if _, err := r.CreateClub([]models.Member{member("alice", "Alice")}, 0); err != nil {
		t.Fatalf("CreateClub failed: %v", err)
	}
	if _, err := r.CreateClub([]models.Member{member("bob", "Bob")}, 0); err != nil {
		t.Fatalf("CreateClub failed: %v", err)
	}
	if _, err := r.CreateClub([]models.Member{member("carol", "Carol")}, 0); err != nil {
		t.Fatalf("CreateClub failed: %v", err)
	}
	if _, err := r.Dissolve("bob"); err != nil {
		t.Fatalf("Dissolve failed: %v", err)
	}

	clubs := r.Clubs()
	if len(clubs) != 2 {
		t.Fatalf("live clubs: got %d, want 2", len(clubs))
	}
	if clubs[0].ID != 1 || clubs[1].ID != 3 {
		t.Errorf("club ids: got %d, %d, want 1, 3", clubs[0].ID, clubs[1].ID)
	}
}

func TestTotalsForUnknownIdentity(t *testing.T) {
	r := NewRegistry()
	totals := r.TotalsFor("stranger")
	if !totals.Deposited.IsZero() || !totals.Withdrawn.IsZero() {
		t.Errorf("totals for unknown identity: got %s/%s, want 0/0", totals.Deposited, totals.Withdrawn)
	}
}

func TestIDsNeverReused(t *testing.T) {
	r := NewRegistry()

	for i := 0; i < 3; i++ {
		id, err := r.CreateClub([]models.Member{member("alice", "Alice")}, 0)
		if err != nil {
			t.Fatalf("round %d: CreateClub failed: %v", i, err)
		}
		if id != models.ClubID(i+1) {
			t.Fatalf("round %d: id = %d, want %d", i, id, i+1)
		}
		if _, err := r.Dissolve("alice"); err != nil {
			t.Fatalf("round %d: Dissolve failed: %v", i, err)
		}
	}
}
