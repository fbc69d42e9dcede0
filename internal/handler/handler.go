// Package handler exposes the storefront engine over HTTP/JSON. It is a thin
// surface: every route delegates to the core stores and services and carries
// no business rules of its own.
package handler

import (
	"net/http"

	"github.com/xenking/storefront-engine/internal/domain/cart"
	"github.com/xenking/storefront-engine/internal/domain/order"
	"github.com/xenking/storefront-engine/internal/domain/product"
	"github.com/xenking/storefront-engine/internal/domain/stats"
	"github.com/xenking/storefront-engine/internal/domain/user"
)

// Handler holds the engine dependencies for the HTTP surface.
type Handler struct {
	catalog product.Repository
	carts   *cart.Service
	users   user.Directory
	txn     *order.Service
	stats   *stats.Aggregator
}

// New constructs a Handler with the required engine dependencies.
func New(
	catalog product.Repository,
	carts *cart.Service,
	users user.Directory,
	txn *order.Service,
	stats *stats.Aggregator,
) *Handler {
	return &Handler{
		catalog: catalog,
		carts:   carts,
		users:   users,
		txn:     txn,
		stats:   stats,
	}
}

// Routes registers all API routes on the mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("POST /api/products", h.addProduct)
	mux.HandleFunc("DELETE /api/products/{id}", h.removeProduct)

	mux.HandleFunc("GET /api/users", h.listUsers)
	mux.HandleFunc("POST /api/users", h.addUser)
	mux.HandleFunc("DELETE /api/users/{id}", h.deactivateUser)

	mux.HandleFunc("GET /api/users/{id}/cart", h.getCart)
	mux.HandleFunc("POST /api/users/{id}/cart/items", h.addToCart)
	mux.HandleFunc("PUT /api/users/{id}/cart/items/{productID}", h.setCartQuantity)
	mux.HandleFunc("DELETE /api/users/{id}/cart/items/{productID}", h.removeFromCart)
	mux.HandleFunc("DELETE /api/users/{id}/cart", h.clearCart)

	mux.HandleFunc("POST /api/users/{id}/checkout", h.checkout)
	mux.HandleFunc("POST /api/discounts", h.issueDiscount)

	mux.HandleFunc("GET /api/stats", h.storeStats)
	mux.HandleFunc("GET /api/users/{id}/stats", h.userStats)
	mux.HandleFunc("GET /api/users/{id}/orders", h.userOrders)
}
