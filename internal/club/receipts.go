package club

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/susu/internal/models"
)

// DepositReceipt reports the outcome of a successful deposit.
type DepositReceipt struct {
	// ClubID is the club the deposit went into.
	ClubID models.ClubID

	// Balance is the club's pooled balance after the deposit.
	Balance decimal.Decimal

	// TotalDeposited is the caller's lifetime deposited total across all
	// clubs, after this deposit.
	TotalDeposited decimal.Decimal

	// NextPayeeIndex is the current rotation position. Deposits never
	// advance it.
	NextPayeeIndex int
}

// WithdrawalReceipt reports the outcome of a successful withdrawal.
type WithdrawalReceipt struct {
	// ClubID is the club the withdrawal came out of.
	ClubID models.ClubID

	// Balance is the club's pooled balance after the withdrawal.
	Balance decimal.Decimal

	// TotalWithdrawn is the caller's lifetime withdrawn total across all
	// clubs, after this withdrawal.
	TotalWithdrawn decimal.Decimal

	// NextPayeeIndex is the rotation position after this withdrawal.
	NextPayeeIndex int
}

// DissolutionReceipt reports the outcome of a successful dissolution.
//
// StrandedBalance is whatever the pool held at the moment of dissolution.
// The registry does not disburse it; callers must surface that to the
// owner before they dissolve a funded club.
type DissolutionReceipt struct {
	ClubID          models.ClubID
	StrandedBalance decimal.Decimal

	// Members is the membership as of dissolution, in joining order. All
	// of them are free to join or form new clubs afterwards.
	Members []models.Member
}

// Totals is an identity's lifetime deposit and withdrawal totals. They
// accumulate across every club the identity has ever belonged to and are
// never reset, not even by dissolution.
type Totals struct {
	Deposited decimal.Decimal
	Withdrawn decimal.Decimal
}
