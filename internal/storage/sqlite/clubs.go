package sqlite

import (
	"context"
	"fmt"

	"github.com/mmynk/susu/internal/models"
	"github.com/mmynk/susu/internal/storage"
)

// CreateClub persists a newly created club and its members.
func (s *SQLiteStore) CreateClub(ctx context.Context, c models.Club) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO clubs (id, owner_idx, next_payee_idx, balance, created_at, dissolved) VALUES (?, ?, ?, ?, ?, 0)",
		uint64(c.ID), c.OwnerIndex, c.NextPayeeIndex, c.Balance.String(), c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert club: %w", err)
	}

	for i, m := range c.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO club_members (club_id, position, identity, name) VALUES (?, ?, ?, ?)",
			uint64(c.ID), i, string(m.Identity), m.Name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// UpdateFunds persists the outcome of a deposit or withdrawal: the club's
// balance and rotation position plus the acting identity's lifetime totals.
func (s *SQLiteStore) UpdateFunds(ctx context.Context, update storage.FundsUpdate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE clubs SET balance = ?, next_payee_idx = ? WHERE id = ? AND dissolved = 0",
		update.Balance.String(), update.NextPayeeIndex, uint64(update.ClubID),
	)
	if err != nil {
		return fmt.Errorf("failed to update club funds: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("no live club with id %d", update.ClubID)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO ledger_totals (identity, deposited, withdrawn) VALUES (?, ?, ?)
		 ON CONFLICT(identity) DO UPDATE SET deposited = excluded.deposited, withdrawn = excluded.withdrawn`,
		string(update.Identity), update.Deposited.String(), update.Withdrawn.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert ledger totals: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DissolveClub marks the club dissolved and deletes its member rows, which
// frees the identities for new clubs. The club row itself survives with the
// stranded balance; ledger totals are untouched.
func (s *SQLiteStore) DissolveClub(ctx context.Context, id models.ClubID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE clubs SET dissolved = 1 WHERE id = ? AND dissolved = 0",
		uint64(id),
	)
	if err != nil {
		return fmt.Errorf("failed to mark club dissolved: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("no live club with id %d", id)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM club_members WHERE club_id = ?", uint64(id)); err != nil {
		return fmt.Errorf("failed to delete members: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
