// Package storage provides abstractions for durable registry state.
package storage

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mmynk/susu/internal/club"
	"github.com/mmynk/susu/internal/models"
)

// FundsUpdate records the durable effect of one deposit or withdrawal:
// the club's new balance and rotation position, plus the acting identity's
// new lifetime totals.
type FundsUpdate struct {
	ClubID         models.ClubID
	Balance        decimal.Decimal
	NextPayeeIndex int

	Identity  models.Identity
	Deposited decimal.Decimal
	Withdrawn decimal.Decimal
}

// Store defines the interface for registry persistence. The in-memory
// registry stays authoritative; a Store mirrors committed mutations so the
// registry can be rebuilt after a restart. This abstraction allows swapping
// storage backends (SQLite, PostgreSQL, etc.) without changing the service
// layer.
type Store interface {
	// LoadState reads the full registry snapshot: every club slot in id
	// order, dissolved slots zeroed, plus all lifetime totals.
	LoadState(ctx context.Context) (club.Snapshot, error)

	// CreateClub persists a newly created club and its members.
	CreateClub(ctx context.Context, c models.Club) error

	// UpdateFunds persists the outcome of a deposit or withdrawal.
	UpdateFunds(ctx context.Context, update FundsUpdate) error

	// DissolveClub marks the club dissolved and releases its members.
	// The club row survives as a record; lifetime totals are untouched.
	DissolveClub(ctx context.Context, id models.ClubID) error

	// Close releases any resources held by the store.
	Close() error
}
