// Package httpapi exposes the club registry over JSON HTTP.
package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/mmynk/susu/internal/auth"
	"github.com/mmynk/susu/internal/club"
	"github.com/mmynk/susu/internal/middleware"
	"github.com/mmynk/susu/internal/models"
	"github.com/mmynk/susu/internal/service"
)

// strandedNote is attached to every dissolution response. Dissolving does
// not disburse the pool, and owners must hear that from the API itself.
const strandedNote = "any remaining balance is stranded, not disbursed"

// Handler serves the registry API. The caller's identity always comes from
// the bearer token, never from a request body.
type Handler struct {
	service *service.ClubService
	tokens  *auth.TokenManager
}

// NewHandler creates a Handler over the given service and token manager.
func NewHandler(svc *service.ClubService, tokens *auth.TokenManager) *Handler {
	return &Handler{service: svc, tokens: tokens}
}

// Register wires all API routes into the mux. Everything except /healthz
// requires a valid bearer token.
func (h *Handler) Register(mux *http.ServeMux) {
	authed := func(fn http.HandlerFunc) http.Handler {
		return middleware.RequireAuth(h.tokens, fn)
	}

	mux.Handle("POST /v1/clubs", authed(h.createClub))
	mux.Handle("GET /v1/clubs", authed(h.listClubs))
	mux.Handle("GET /v1/clubs/{id}", authed(h.getClub))
	mux.Handle("GET /v1/club", authed(h.getOwnClub))
	mux.Handle("POST /v1/club/deposit", authed(h.deposit))
	mux.Handle("POST /v1/club/withdraw", authed(h.withdraw))
	mux.Handle("POST /v1/club/dissolve", authed(h.dissolve))
	mux.Handle("GET /v1/me/totals", authed(h.totals))
	mux.HandleFunc("GET /healthz", h.health)
}

func (h *Handler) createClub(w http.ResponseWriter, r *http.Request) {
	var req createClubRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed request body", club.ErrInvalidInput))
		return
	}

	members := make([]models.Member, len(req.Members))
	for i, m := range req.Members {
		members[i] = models.Member{Identity: models.Identity(m.Identity), Name: m.Name}
	}

	c, err := h.service.CreateClub(r.Context(), members, req.OwnerIndex)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toClubView(c))
}

func (h *Handler) listClubs(w http.ResponseWriter, r *http.Request) {
	clubs := h.service.Clubs(r.Context())
	views := make([]clubView, len(clubs))
	for i, c := range clubs {
		views[i] = toClubView(c)
	}
	writeJSON(w, http.StatusOK, clubListResponse{Clubs: views})
}

func (h *Handler) getClub(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, fmt.Errorf("%w: club id must be a decimal number", club.ErrInvalidInput))
		return
	}

	c, err := h.service.ClubByID(r.Context(), models.ClubID(id))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toClubView(c))
}

func (h *Handler) getOwnClub(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetIdentity(r.Context())

	c, err := h.service.ClubOf(r.Context(), caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toClubView(c))
}

func (h *Handler) deposit(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetIdentity(r.Context())
	amount, err := decodeAmount(r)
	if err != nil {
		writeError(w, err)
		return
	}

	receipt, err := h.service.Deposit(r.Context(), caller, amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDepositResponse(receipt))
}

func (h *Handler) withdraw(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetIdentity(r.Context())
	amount, err := decodeAmount(r)
	if err != nil {
		writeError(w, err)
		return
	}

	receipt, err := h.service.Withdraw(r.Context(), caller, amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWithdrawResponse(receipt))
}

func (h *Handler) dissolve(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetIdentity(r.Context())

	receipt, err := h.service.Dissolve(r.Context(), caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDissolveResponse(receipt))
}

func (h *Handler) totals(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetIdentity(r.Context())
	totals := h.service.TotalsFor(r.Context(), caller)
	writeJSON(w, http.StatusOK, totalsResponse{
		Identity:  string(caller),
		Deposited: totals.Deposited.String(),
		Withdrawn: totals.Withdrawn.String(),
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeAmount reads the {"amount": "..."} body shared by deposit and
// withdraw. Amounts are decimal strings; anything unparseable is invalid
// input, same as a non-positive value.
func decodeAmount(r *http.Request) (decimal.Decimal, error) {
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: malformed request body", club.ErrInvalidInput)
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: amount %q is not a decimal number", club.ErrInvalidInput, req.Amount)
	}
	return amount, nil
}
