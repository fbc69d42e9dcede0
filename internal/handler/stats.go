package handler

import (
	"net/http"

	"github.com/go-faster/jx"
)

func (h *Handler) storeStats(w http.ResponseWriter, r *http.Request) {
	s, err := h.stats.StoreStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("total_orders", func(e *jx.Encoder) { e.Int(s.TotalOrders) })
			e.Field("total_revenue", func(e *jx.Encoder) { encodeDecimal(e, s.TotalRevenue) })
			e.Field("total_discounts_given", func(e *jx.Encoder) { encodeDecimal(e, s.TotalDiscountsGiven) })
			e.Field("total_items_purchased", func(e *jx.Encoder) { e.Int(s.TotalItemsPurchased) })
			e.Field("discount_codes_generated", func(e *jx.Encoder) { e.Int(s.CodesGenerated) })
		})
	})
}

func (h *Handler) userStats(w http.ResponseWriter, r *http.Request) {
	s, err := h.stats.UserStats(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("user_id", func(e *jx.Encoder) { e.Str(s.UserID) })
			e.Field("orders_count", func(e *jx.Encoder) { e.Int(s.OrdersCount) })
			e.Field("total_spent", func(e *jx.Encoder) { encodeDecimal(e, s.TotalSpent) })
			if s.LastOrder != nil {
				e.Field("last_order", func(e *jx.Encoder) { encodeTime(e, *s.LastOrder) })
			}
		})
	})
}
