// Package service wires the registry to storage, payouts and telemetry.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/mmynk/susu/internal/club"
	"github.com/mmynk/susu/internal/metrics"
	"github.com/mmynk/susu/internal/models"
	"github.com/mmynk/susu/internal/storage"
)

// ClubService is the single entry point for registry operations. One coarse
// mutex serializes everything, mutations and reads alike: operations are
// short, and under the lock each one is trivially all-or-nothing.
//
// The in-memory registry is authoritative. After each committed mutation
// the store is updated synchronously; a mirror failure is logged and
// counted but never fails the operation.
type ClubService struct {
	mu       sync.Mutex
	registry *club.Registry
	store    storage.Store
	transfer club.Transferer
	metrics  *metrics.Metrics
}

// NewClubService builds a service around an existing registry.
func NewClubService(registry *club.Registry, store storage.Store, transfer club.Transferer, m *metrics.Metrics) *ClubService {
	s := &ClubService{
		registry: registry,
		store:    store,
		transfer: transfer,
		metrics:  m,
	}
	s.primeGauges()
	return s
}

// LoadClubService rehydrates the registry from the store and builds the
// service around it.
func LoadClubService(ctx context.Context, store storage.Store, transfer club.Transferer, m *metrics.Metrics) (*ClubService, error) {
	snap, err := store.LoadState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load registry state: %w", err)
	}
	registry, err := club.Restore(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to restore registry: %w", err)
	}
	svc := NewClubService(registry, store, transfer, m)
	slog.Info("registry restored", "live_clubs", len(registry.Clubs()))
	return svc, nil
}

// CreateClub registers a new club and returns a copy of it.
func (s *ClubService) CreateClub(ctx context.Context, members []models.Member, ownerIndex int) (models.Club, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.registry.CreateClub(members, ownerIndex)
	if err != nil {
		s.reject("create_club", err)
		return models.Club{}, err
	}
	c, err := s.registry.ClubByID(id)
	if err != nil {
		return models.Club{}, fmt.Errorf("failed to read back club %d: %w", id, err)
	}

	s.mirror("create_club", s.store.CreateClub(ctx, c))
	s.metrics.ClubsCreated.Inc()
	s.metrics.ActiveClubs.Inc()

	slog.Info("club created",
		"club_id", id,
		"members", len(c.Members),
		"owner_index", ownerIndex,
	)
	return c, nil
}

// Deposit adds funds to the caller's club pool.
func (s *ClubService) Deposit(ctx context.Context, caller models.Identity, amount decimal.Decimal) (club.DepositReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	receipt, err := s.registry.Deposit(caller, amount)
	if err != nil {
		s.reject("deposit", err)
		return club.DepositReceipt{}, err
	}

	totals := s.registry.TotalsFor(caller)
	s.mirror("deposit", s.store.UpdateFunds(ctx, storage.FundsUpdate{
		ClubID:         receipt.ClubID,
		Balance:        receipt.Balance,
		NextPayeeIndex: receipt.NextPayeeIndex,
		Identity:       caller,
		Deposited:      totals.Deposited,
		Withdrawn:      totals.Withdrawn,
	}))
	s.metrics.Deposits.Inc()
	s.metrics.PooledBalance.Add(amount.InexactFloat64())

	slog.Info("deposit recorded",
		"club_id", receipt.ClubID,
		"identity", caller,
		"amount", amount,
		"balance", receipt.Balance,
	)
	return receipt, nil
}

// Withdraw pays funds out of the caller's club pool. The payout rail
// confirms the transfer before the ledger changes; the rail is called
// while the service lock is held, so every operation waits behind an
// in-flight payout.
func (s *ClubService) Withdraw(ctx context.Context, caller models.Identity, amount decimal.Decimal) (club.WithdrawalReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	receipt, err := s.registry.Withdraw(ctx, caller, amount, s.transfer)
	if err != nil {
		s.reject("withdraw", err)
		return club.WithdrawalReceipt{}, err
	}

	totals := s.registry.TotalsFor(caller)
	s.mirror("withdraw", s.store.UpdateFunds(ctx, storage.FundsUpdate{
		ClubID:         receipt.ClubID,
		Balance:        receipt.Balance,
		NextPayeeIndex: receipt.NextPayeeIndex,
		Identity:       caller,
		Deposited:      totals.Deposited,
		Withdrawn:      totals.Withdrawn,
	}))
	s.metrics.Withdrawals.Inc()
	s.metrics.PooledBalance.Sub(amount.InexactFloat64())

	slog.Info("withdrawal paid",
		"club_id", receipt.ClubID,
		"identity", caller,
		"amount", amount,
		"balance", receipt.Balance,
		"next_payee_index", receipt.NextPayeeIndex,
	)
	return receipt, nil
}

// Dissolve retires the caller's club and releases its members.
func (s *ClubService) Dissolve(ctx context.Context, caller models.Identity) (club.DissolutionReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	receipt, err := s.registry.Dissolve(caller)
	if err != nil {
		s.reject("dissolve", err)
		return club.DissolutionReceipt{}, err
	}

	s.mirror("dissolve", s.store.DissolveClub(ctx, receipt.ClubID))
	s.metrics.Dissolutions.Inc()
	s.metrics.ActiveClubs.Dec()
	s.metrics.PooledBalance.Sub(receipt.StrandedBalance.InexactFloat64())

	if receipt.StrandedBalance.Sign() > 0 {
		slog.Warn("club dissolved with a stranded balance",
			"club_id", receipt.ClubID,
			"stranded_balance", receipt.StrandedBalance,
			"members", len(receipt.Members),
		)
	} else {
		slog.Info("club dissolved",
			"club_id", receipt.ClubID,
			"members", len(receipt.Members),
		)
	}
	return receipt, nil
}

// ClubByID returns a copy of the club with the given id.
func (s *ClubService) ClubByID(ctx context.Context, id models.ClubID) (models.Club, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.registry.ClubByID(id)
	if err != nil {
		s.reject("get_club", err)
		return models.Club{}, err
	}
	return c, nil
}

// ClubOf returns a copy of the caller's own club.
func (s *ClubService) ClubOf(ctx context.Context, caller models.Identity) (models.Club, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.registry.ClubOf(caller)
	if err != nil {
		s.reject("get_own_club", err)
		return models.Club{}, err
	}
	return c, nil
}

// Clubs returns copies of all live clubs in ascending id order.
func (s *ClubService) Clubs(ctx context.Context) []models.Club {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Clubs()
}

// TotalsFor returns the identity's lifetime deposit and withdrawal totals.
func (s *ClubService) TotalsFor(ctx context.Context, id models.Identity) club.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.TotalsFor(id)
}

// reject records a failed operation.
func (s *ClubService) reject(op string, err error) {
	s.metrics.OpFailures.WithLabelValues(op, club.Kind(err)).Inc()
	slog.Warn("operation rejected", "op", op, "error", err)
}

// mirror records the outcome of a store write for a committed mutation.
// The registry is authoritative, so a failed write does not undo the
// operation; it is logged and counted for the operator.
func (s *ClubService) mirror(op string, err error) {
	if err == nil {
		return
	}
	s.metrics.MirrorFailures.Inc()
	slog.Error("storage mirror write failed", "op", op, "error", err)
}

// primeGauges seeds the registry gauges from current state.
func (s *ClubService) primeGauges() {
	clubs := s.registry.Clubs()
	s.metrics.ActiveClubs.Set(float64(len(clubs)))

	total := decimal.Zero
	for _, c := range clubs {
		total = total.Add(c.Balance)
	}
	s.metrics.PooledBalance.Set(total.InexactFloat64())
}
