package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/xenking/storefront-engine/internal/domain/cart"
)

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	items, err := h.carts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeCart(w, items)
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	var productID string
	err := decodeBody(r, func(d *jx.Decoder) error {
		return d.Obj(func(d *jx.Decoder, key string) error {
			if key != "product_id" {
				return d.Skip()
			}
			v, err := d.Str()
			productID = v
			return err
		})
	})
	if err != nil || productID == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	items, err := h.carts.AddItem(r.Context(), r.PathValue("id"), productID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCart(w, items)
}

func (h *Handler) setCartQuantity(w http.ResponseWriter, r *http.Request) {
	var (
		qty    int
		hasQty bool
	)
	err := decodeBody(r, func(d *jx.Decoder) error {
		return d.Obj(func(d *jx.Decoder, key string) error {
			if key != "quantity" {
				return d.Skip()
			}
			v, err := d.Int()
			qty, hasQty = v, true
			return err
		})
	})
	if err != nil || !hasQty {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	userID, productID := r.PathValue("id"), r.PathValue("productID")
	if err := h.carts.SetQuantity(r.Context(), userID, productID, qty); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	userID, productID := r.PathValue("id"), r.PathValue("productID")
	if err := h.carts.RemoveItem(r.Context(), userID, productID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Clear(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeCart responds with the cart lines plus the derived subtotal, computed
// by the same cart.Total the checkout uses.
func writeCart(w http.ResponseWriter, items []cart.Item) {
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("items", func(e *jx.Encoder) { encodeCartItems(e, items) })
			e.Field("total", func(e *jx.Encoder) { encodeDecimal(e, cart.Total(items)) })
		})
	})
}
