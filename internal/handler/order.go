package handler

import (
	"net/http"

	"github.com/go-faster/jx"
)

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var code string
	err := decodeBody(r, func(d *jx.Decoder) error {
		return d.Obj(func(d *jx.Decoder, key string) error {
			if key != "discount_code" {
				return d.Skip()
			}
			v, err := d.Str()
			code = v
			return err
		})
	})
	if err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	o, err := h.txn.Checkout(r.Context(), r.PathValue("id"), code)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		encodeOrder(e, *o)
	})
}

func (h *Handler) issueDiscount(w http.ResponseWriter, r *http.Request) {
	c, err := h.txn.IssueDiscount(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	// Off a milestone no code is due; that is a normal outcome, not an error.
	if c == nil {
		writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				e.Field("code", func(e *jx.Encoder) { e.Null() })
			})
		})
		return
	}

	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("code", func(e *jx.Encoder) { e.Str(c.Code) })
			e.Field("percentage", func(e *jx.Encoder) { encodeDecimal(e, c.Percentage) })
			e.Field("for_order_index", func(e *jx.Encoder) { e.Int(c.ForOrderIndex) })
		})
	})
}

func (h *Handler) userOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.stats.UserOrders(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for _, o := range orders {
				encodeOrder(e, o)
			}
		})
	})
}
