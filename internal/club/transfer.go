package club

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mmynk/susu/internal/models"
)

// Transferer moves withdrawn funds out of the pool to a member. Withdraw
// calls it before mutating the ledger: if the transfer does not confirm,
// the withdrawal is aborted and no state changes.
type Transferer interface {
	Transfer(ctx context.Context, to models.Identity, amount decimal.Decimal) error
}

// TransferFunc adapts a plain function to the Transferer interface.
type TransferFunc func(ctx context.Context, to models.Identity, amount decimal.Decimal) error

// Transfer calls f.
func (f TransferFunc) Transfer(ctx context.Context, to models.Identity, amount decimal.Decimal) error {
	return f(ctx, to, amount)
}
