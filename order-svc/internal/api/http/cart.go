package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
)

type cartItemRequest struct {
	ProductID int `json:"product_id"`
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.Carts.Items(r.Context(), currentUser(r).ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	h.updateCart(w, r, h.Carts.Add)
}

func (h *Handler) increaseCartItem(w http.ResponseWriter, r *http.Request) {
	h.updateCart(w, r, h.Carts.Increase)
}

func (h *Handler) decreaseCartItem(w http.ResponseWriter, r *http.Request) {
	h.updateCart(w, r, h.Carts.Decrease)
}

func (h *Handler) updateCart(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, userID, productID int) error) {
	var req cartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.ProductID <= 0 {
		http.Error(w, "product_id is required", http.StatusBadRequest)
		return
	}
	userID := currentUser(r).ID
	if err := apply(r.Context(), userID, req.ProductID); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.getCart(w, r)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.Carts.Clear(r.Context(), currentUser(r).ID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
