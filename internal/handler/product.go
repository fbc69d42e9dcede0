package handler

import (
	"net/http"
	"strings"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for _, p := range products {
				encodeProduct(e, p)
			}
		})
	})
}

func (h *Handler) addProduct(w http.ResponseWriter, r *http.Request) {
	var (
		name  string
		price decimal.Decimal
	)
	err := decodeBody(r, func(d *jx.Decoder) error {
		return d.Obj(func(d *jx.Decoder, key string) error {
			switch key {
			case "name":
				v, err := d.Str()
				name = v
				return err
			case "price":
				n, err := d.Num()
				if err != nil {
					return err
				}
				price, err = decimal.NewFromString(strings.Trim(n.String(), `"`))
				return err
			default:
				return d.Skip()
			}
		})
	})
	if err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.catalog.Add(r.Context(), name, price)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		encodeProduct(e, *p)
	})
}

func (h *Handler) removeProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Remove(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
