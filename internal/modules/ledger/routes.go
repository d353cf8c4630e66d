package ledger

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all ledger routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/transactions", func(r chi.Router) {
		r.Get("/", h.HandleGetTransactions)
		r.Post("/buy", h.HandleBuy)
		r.Post("/sell", h.HandleSell)
	})

	r.Route("/holdings", func(r chi.Router) {
		r.Get("/", h.HandleGetHoldings)
		r.Post("/adjust", h.HandleAdjust)
	})

	r.Route("/purse", func(r chi.Router) {
		r.Get("/", h.HandleGetPurse)
		r.Post("/deposit", h.HandleDeposit)
		r.Post("/withdraw", h.HandleWithdraw)
	})
}
