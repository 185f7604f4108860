package sqlite

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/susu/internal/club"
	"github.com/mmynk/susu/internal/models"
)

// LoadState reads the full registry snapshot. Club slots come back dense in
// id order with dissolved clubs zeroed, so the rebuilt registry allocates
// ids exactly where the previous process stopped.
func (s *SQLiteStore) LoadState(ctx context.Context) (club.Snapshot, error) {
	snap := club.Snapshot{
		Deposits:    make(map[models.Identity]decimal.Decimal),
		Withdrawals: make(map[models.Identity]decimal.Decimal),
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, owner_idx, next_payee_idx, balance, created_at, dissolved FROM clubs ORDER BY id",
	)
	if err != nil {
		return club.Snapshot{}, fmt.Errorf("failed to query clubs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id        uint64
			c         models.Club
			balance   string
			dissolved int
		)
		if err := rows.Scan(&id, &c.OwnerIndex, &c.NextPayeeIndex, &balance, &c.CreatedAt, &dissolved); err != nil {
			return club.Snapshot{}, fmt.Errorf("failed to scan club: %w", err)
		}

		for uint64(len(snap.Clubs)) < id {
			snap.Clubs = append(snap.Clubs, models.Club{})
		}
		if dissolved != 0 {
			continue
		}

		c.ID = models.ClubID(id)
		c.Balance, err = decimal.NewFromString(balance)
		if err != nil {
			return club.Snapshot{}, fmt.Errorf("club %d has unreadable balance %q: %w", id, balance, err)
		}
		snap.Clubs[id-1] = c
	}
	if err := rows.Err(); err != nil {
		return club.Snapshot{}, fmt.Errorf("failed to iterate clubs: %w", err)
	}

	memberRows, err := s.db.QueryContext(ctx,
		"SELECT club_id, identity, name FROM club_members ORDER BY club_id, position",
	)
	if err != nil {
		return club.Snapshot{}, fmt.Errorf("failed to query members: %w", err)
	}
	defer memberRows.Close()

	for memberRows.Next() {
		var (
			clubID   uint64
			identity string
			name     string
		)
		if err := memberRows.Scan(&clubID, &identity, &name); err != nil {
			return club.Snapshot{}, fmt.Errorf("failed to scan member: %w", err)
		}
		if clubID == 0 || clubID > uint64(len(snap.Clubs)) {
			return club.Snapshot{}, fmt.Errorf("member %s references unknown club %d", identity, clubID)
		}
		slot := &snap.Clubs[clubID-1]
		slot.Members = append(slot.Members, models.Member{
			Identity: models.Identity(identity),
			Name:     name,
		})
	}
	if err := memberRows.Err(); err != nil {
		return club.Snapshot{}, fmt.Errorf("failed to iterate members: %w", err)
	}

	totalRows, err := s.db.QueryContext(ctx,
		"SELECT identity, deposited, withdrawn FROM ledger_totals",
	)
	if err != nil {
		return club.Snapshot{}, fmt.Errorf("failed to query ledger totals: %w", err)
	}
	defer totalRows.Close()

	for totalRows.Next() {
		var identity, deposited, withdrawn string
		if err := totalRows.Scan(&identity, &deposited, &withdrawn); err != nil {
			return club.Snapshot{}, fmt.Errorf("failed to scan ledger totals: %w", err)
		}
		d, err := decimal.NewFromString(deposited)
		if err != nil {
			return club.Snapshot{}, fmt.Errorf("identity %s has unreadable deposited total %q: %w", identity, deposited, err)
		}
		w, err := decimal.NewFromString(withdrawn)
		if err != nil {
			return club.Snapshot{}, fmt.Errorf("identity %s has unreadable withdrawn total %q: %w", identity, withdrawn, err)
		}
		snap.Deposits[models.Identity(identity)] = d
		snap.Withdrawals[models.Identity(identity)] = w
	}
	if err := totalRows.Err(); err != nil {
		return club.Snapshot{}, fmt.Errorf("failed to iterate ledger totals: %w", err)
	}

	return snap, nil
}
