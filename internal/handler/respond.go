package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront-engine/internal/domain/cart"
	"github.com/xenking/storefront-engine/internal/domain/discount"
	"github.com/xenking/storefront-engine/internal/domain/order"
	"github.com/xenking/storefront-engine/internal/domain/product"
	"github.com/xenking/storefront-engine/internal/domain/user"
)

// maxBodySize caps request bodies; every request payload here is tiny.
const maxBodySize = 1 << 16

// writeJSON encodes a response body with f and writes it with the given
// status.
func writeJSON(w http.ResponseWriter, status int, f func(e *jx.Encoder)) {
	e := &jx.Encoder{}
	f(e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// writeError maps a domain error onto an HTTP status and a {"error": ...}
// body. Unrecognized errors become an opaque 500.
func writeError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}

	writeJSON(w, status, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("error", func(e *jx.Encoder) { e.Str(msg) })
		})
	})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, product.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, product.ErrNotFound),
		errors.Is(err, user.ErrNotFound),
		errors.Is(err, discount.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, discount.ErrCodeUsed),
		errors.Is(err, discount.ErrAlreadyIssued),
		errors.Is(err, user.ErrLastActiveUser):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody reads the request body and decodes it with f.
func decodeBody(r *http.Request, f func(d *jx.Decoder) error) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return errors.Wrap(err, "read body")
	}
	return f(jx.DecodeBytes(body))
}

// --- Encoding helpers ---

func encodeDecimal(e *jx.Encoder, d decimal.Decimal) {
	e.Num(jx.Num(d.String()))
}

func encodeTime(e *jx.Encoder, t time.Time) {
	e.Str(t.UTC().Format(time.RFC3339Nano))
}

func encodeProduct(e *jx.Encoder, p product.Product) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(p.ID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(p.Name) })
		e.Field("price", func(e *jx.Encoder) { encodeDecimal(e, p.Price) })
	})
}

func encodeCartItems(e *jx.Encoder, items []cart.Item) {
	e.Arr(func(e *jx.Encoder) {
		for _, it := range items {
			e.Obj(func(e *jx.Encoder) {
				e.Field("product_id", func(e *jx.Encoder) { e.Str(it.ProductID) })
				e.Field("quantity", func(e *jx.Encoder) { e.Int(it.Quantity) })
				e.Field("product", func(e *jx.Encoder) { encodeProduct(e, it.Product) })
			})
		}
	})
}

func encodeOrder(e *jx.Encoder, o order.Order) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(o.ID) })
		e.Field("user_id", func(e *jx.Encoder) { e.Str(o.UserID) })
		e.Field("items", func(e *jx.Encoder) { encodeCartItems(e, o.Items) })
		e.Field("total_amount", func(e *jx.Encoder) { encodeDecimal(e, o.Total) })
		e.Field("discount_applied", func(e *jx.Encoder) { encodeDecimal(e, o.Discount) })
		if o.DiscountCode != "" {
			e.Field("discount_code", func(e *jx.Encoder) { e.Str(o.DiscountCode) })
		}
		e.Field("timestamp", func(e *jx.Encoder) { encodeTime(e, o.CreatedAt) })
	})
}

func encodeUser(e *jx.Encoder, u user.User) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(u.ID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(u.Name) })
		e.Field("created_at", func(e *jx.Encoder) { encodeTime(e, u.CreatedAt) })
		e.Field("is_active", func(e *jx.Encoder) { e.Bool(u.Active) })
	})
}
