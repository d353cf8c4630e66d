package ledger

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// Handler handles ledger HTTP requests
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new ledger handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "ledger").Logger(),
	}
}

type tradeRequest struct {
	Symbol   string  `json:"symbol"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
}

type adjustRequest struct {
	Symbol string  `json:"symbol"`
	Action string  `json:"action"`
	Price  float64 `json:"price"`
}

type purseRequest struct {
	Amount float64 `json:"amount"`
}

// HandleBuy handles POST /api/transactions/buy
func (h *Handler) HandleBuy(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.Buy(req.Symbol, req.Quantity, req.Price); err != nil {
		h.writeOperationError(w, err, "buy failed")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"status": "Purchase successful"})
}

// HandleSell handles POST /api/transactions/sell
func (h *Handler) HandleSell(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.Sell(req.Symbol, req.Quantity, req.Price); err != nil {
		h.writeOperationError(w, err, "sell failed")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"status": "Sale successful"})
}

// HandleAdjust handles POST /api/holdings/adjust
func (h *Handler) HandleAdjust(w http.ResponseWriter, r *http.Request) {
	var req adjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	direction, err := AdjustDirectionFromString(req.Action)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.AdjustByOne(req.Symbol, direction, req.Price); err != nil {
		h.writeOperationError(w, err, "adjustment failed")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"status": "Success"})
}

// HandleDeposit handles POST /api/purse/deposit
func (h *Handler) HandleDeposit(w http.ResponseWriter, r *http.Request) {
	var req purseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.Deposit(req.Amount); err != nil {
		h.writeOperationError(w, err, "deposit failed")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"status": "Deposit successful"})
}

// HandleWithdraw handles POST /api/purse/withdraw
func (h *Handler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req purseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.Withdraw(req.Amount); err != nil {
		h.writeOperationError(w, err, "withdrawal failed")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"status": "Withdrawal successful"})
}

// HandleGetPurse handles GET /api/purse
func (h *Handler) HandleGetPurse(w http.ResponseWriter, r *http.Request) {
	purse, err := h.service.CurrentPurse()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get purse balance")
		http.Error(w, "Failed to get purse balance", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"purse": purse,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleGetHoldings handles GET /api/holdings
func (h *Handler) HandleGetHoldings(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.service.Holdings()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list holdings")
		http.Error(w, "Failed to list holdings", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"holdings": holdings,
			"count":    len(holdings),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleGetTransactions handles GET /api/transactions
func (h *Handler) HandleGetTransactions(w http.ResponseWriter, r *http.Request) {
	limit := 0 // full log by default
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, err := h.service.Transactions(limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list transactions")
		http.Error(w, "Failed to list transactions", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"transactions": entries,
			"count":        len(entries),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// writeOperationError maps ledger validation failures to client errors
func (h *Handler) writeOperationError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, ErrNoSuchPosition):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrInsufficientShares),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrInvalidPrice):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.log.Error().Err(err).Msg(msg)
		http.Error(w, msg, http.StatusInternalServerError)
	}
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
