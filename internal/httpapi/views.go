package httpapi

import (
	"github.com/mmynk/susu/internal/club"
	"github.com/mmynk/susu/internal/models"
)

// Money travels as decimal strings so clients never see float rounding.

type memberView struct {
	Identity string `json:"identity"`
	Name     string `json:"name"`
}

type clubView struct {
	ID             uint64       `json:"id"`
	Members        []memberView `json:"members"`
	OwnerIndex     int          `json:"owner_index"`
	Balance        string       `json:"balance"`
	NextPayeeIndex int          `json:"next_payee_index"`
	CreatedAt      int64        `json:"created_at"`
}

type clubListResponse struct {
	Clubs []clubView `json:"clubs"`
}

type createClubRequest struct {
	Members    []memberView `json:"members"`
	OwnerIndex int          `json:"owner_index"`
}

type amountRequest struct {
	Amount string `json:"amount"`
}

type depositResponse struct {
	ClubID         uint64 `json:"club_id"`
	Balance        string `json:"balance"`
	TotalDeposited string `json:"total_deposited"`
	NextPayeeIndex int    `json:"next_payee_index"`
}

type withdrawResponse struct {
	ClubID         uint64 `json:"club_id"`
	Balance        string `json:"balance"`
	TotalWithdrawn string `json:"total_withdrawn"`
	NextPayeeIndex int    `json:"next_payee_index"`
}

type dissolveResponse struct {
	ClubID          uint64       `json:"club_id"`
	StrandedBalance string       `json:"stranded_balance"`
	Members         []memberView `json:"members"`
	Note            string       `json:"note"`
}

type totalsResponse struct {
	Identity  string `json:"identity"`
	Deposited string `json:"deposited"`
	Withdrawn string `json:"withdrawn"`
}

func toMemberViews(members []models.Member) []memberView {
	out := make([]memberView, len(members))
	for i, m := range members {
		out[i] = memberView{Identity: string(m.Identity), Name: m.Name}
	}
	return out
}

func toClubView(c models.Club) clubView {
	return clubView{
		ID:             uint64(c.ID),
		Members:        toMemberViews(c.Members),
		OwnerIndex:     c.OwnerIndex,
		Balance:        c.Balance.String(),
		NextPayeeIndex: c.NextPayeeIndex,
		CreatedAt:      c.CreatedAt,
	}
}

func toDepositResponse(r club.DepositReceipt) depositResponse {
	return depositResponse{
		ClubID:         uint64(r.ClubID),
		Balance:        r.Balance.String(),
		TotalDeposited: r.TotalDeposited.String(),
		NextPayeeIndex: r.NextPayeeIndex,
	}
}

func toWithdrawResponse(r club.WithdrawalReceipt) withdrawResponse {
	return withdrawResponse{
		ClubID:         uint64(r.ClubID),
		Balance:        r.Balance.String(),
		TotalWithdrawn: r.TotalWithdrawn.String(),
		NextPayeeIndex: r.NextPayeeIndex,
	}
}

func toDissolveResponse(r club.DissolutionReceipt) dissolveResponse {
	return dissolveResponse{
		ClubID:          uint64(r.ClubID),
		StrandedBalance: r.StrandedBalance.String(),
		Members:         toMemberViews(r.Members),
		Note:            strandedNote,
	}
}
