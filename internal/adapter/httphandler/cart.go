package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

// POST   /v1/carts
// GET    /v1/carts/{cartID}
// DELETE /v1/carts/{cartID}
// POST   /v1/carts/{cartID}/items {"product_id", "quantity"?}
// PATCH  /v1/carts/{cartID}/items/{productID} {"quantity"}
// DELETE /v1/carts/{cartID}/items/{productID}
// DELETE /v1/carts/{cartID}/items

type CartHandler struct {
	carts    port.CartManager
	currency string
}

func RegisterCart(mux *http.ServeMux, carts port.CartManager, currency string) {
	h := CartHandler{carts, currency}
	mux.HandleFunc("POST /v1/carts", h.PostCart)
	mux.HandleFunc("GET /v1/carts/{cartID}", h.GetCart)
	mux.HandleFunc("DELETE /v1/carts/{cartID}", h.DeleteCart)
	mux.HandleFunc("POST /v1/carts/{cartID}/items", h.PostItem)
	mux.HandleFunc("PATCH /v1/carts/{cartID}/items/{productID}", h.PatchItem)
	mux.HandleFunc("DELETE /v1/carts/{cartID}/items/{productID}", h.DeleteItem)
	mux.HandleFunc("DELETE /v1/carts/{cartID}/items", h.DeleteItems)
}

func (h CartHandler) PostCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PostCart"
	log := slog.With("op", op)

	v, err := h.carts.OpenCart(r.Context())
	if err != nil {
		writeError(log, w, err)
		return
	}

	w.Header().Set("Location", "/v1/carts/"+v.CartID.String())
	writeJSON(log, w, http.StatusCreated, CartCreated{CartID: v.CartID.String()})
	log.Info("cart opened", "cartID", v.CartID)
}

func (h CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.GetCart"
	log := slog.With("op", op)

	cartID, ok := h.cartID(log, w, r)
	if !ok {
		return
	}

	v, err := h.carts.Cart(r.Context(), cartID)
	h.respond(log, w, v, err)
}

func (h CartHandler) DeleteCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.DeleteCart"
	log := slog.With("op", op)

	cartID, ok := h.cartID(log, w, r)
	if !ok {
		return
	}

	if err := h.carts.CloseCart(r.Context(), cartID); err != nil {
		writeError(log, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h CartHandler) PostItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PostItem"
	log := slog.With("op", op)

	cartID, ok := h.cartID(log, w, r)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(log, w, err)
		return
	}

	if req.ProductID == "" {
		writeBadRequest(log, w, "invalid_product_id", "product_id is required", nil)
		return
	}

	v, err := h.carts.AddToCart(r.Context(), cartID, req.ProductID, req.Quantity)
	h.respond(log, w, v, err)
}

func (h CartHandler) PatchItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PatchItem"
	log := slog.With("op", op)

	cartID, ok := h.cartID(log, w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(log, w, err)
		return
	}

	if req.Quantity == nil {
		writeBadRequest(log, w, "invalid_quantity", "quantity is required", nil)
		return
	}

	v, err := h.carts.UpdateQuantity(
		r.Context(), cartID, r.PathValue("productID"), *req.Quantity,
	)
	h.respond(log, w, v, err)
}

func (h CartHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.DeleteItem"
	log := slog.With("op", op)

	cartID, ok := h.cartID(log, w, r)
	if !ok {
		return
	}

	v, err := h.carts.RemoveItem(r.Context(), cartID, r.PathValue("productID"))
	h.respond(log, w, v, err)
}

func (h CartHandler) DeleteItems(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.DeleteItems"
	log := slog.With("op", op)

	cartID, ok := h.cartID(log, w, r)
	if !ok {
		return
	}

	v, err := h.carts.ClearCart(r.Context(), cartID)
	h.respond(log, w, v, err)
}

func (h CartHandler) cartID(
	log *slog.Logger, w http.ResponseWriter, r *http.Request,
) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("cartID"))
	if err != nil {
		writeBadRequest(log, w, "invalid_cart_id", "invalid cart id", err)
		return uuid.Nil, false
	}
	return id, true
}

func (h CartHandler) respond(
	log *slog.Logger, w http.ResponseWriter, v domain.CartView, err error,
) {
	if err != nil {
		writeError(log, w, err)
		return
	}
	writeJSON(log, w, http.StatusOK, cartFromDomain(v, h.currency))
}
