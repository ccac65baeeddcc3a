package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"restobar/order-svc/internal/domain"
	"restobar/order-svc/internal/service"
)

const reportDateLayout = "2006-01-02"

type transitionRequest struct {
	Action domain.OrderAction `json:"action"`
}

func (h *Handler) previewCheckout(w http.ResponseWriter, r *http.Request) {
	checkout, err := h.Orders.Preview(r.Context(), currentUser(r), r.URL.Query().Get("voucher_code"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, checkout)
}

// placeOrder accepts either a JSON body with a proof URL or a multipart form
// carrying the proof image in the "proof" field.
func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var input service.PlaceOrderInput
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			http.Error(w, "File too large", http.StatusBadRequest)
			return
		}
		proof, err := h.saveUpload(r, "proof", "proofs")
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		input = service.PlaceOrderInput{
			VoucherCode: r.FormValue("voucher_code"),
			Note:        r.FormValue("note"),
			Payment: domain.Payment{
				Method:          r.FormValue("payment_method"),
				ReferenceNumber: r.FormValue("reference_number"),
				ProofOfPayment:  proof,
			},
		}
	} else if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	order, err := h.Orders.PlaceOrder(r.Context(), currentUser(r), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"orderId":   order.ID,
		"net_total": order.NetTotal,
		"qr_link":   h.Orders.QRLink(order.ID),
	})
}

func (h *Handler) placeWalkInOrder(w http.ResponseWriter, r *http.Request) {
	var input service.WalkInInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	order, err := h.Orders.PlaceWalkInOrder(r.Context(), currentUser(r), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) getMyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListForUser(r.Context(), currentUser(r).ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	order, err := h.Orders.Get(r.Context(), currentUser(r), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	png, err := h.Orders.QRCode(r.Context(), currentUser(r), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (h *Handler) transitionOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	order, err := h.Orders.Transition(r.Context(), currentUser(r), id, req.Action)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) getOrdersByStatus(w http.ResponseWriter, r *http.Request) {
	status := domain.OrderStatus(r.URL.Query().Get("status"))
	orders, err := h.Orders.ListByStatus(r.Context(), status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) getPendingCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.Orders.PendingCount(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

// exportOrders streams completed orders as CSV. Both bounds are inclusive
// calendar days; the default window is the last 30 days.
func (h *Handler) exportOrders(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.ParseInLocation(reportDateLayout, raw, time.Local)
		if err != nil {
			http.Error(w, "invalid from date", http.StatusBadRequest)
			return
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.ParseInLocation(reportDateLayout, raw, time.Local)
		if err != nil {
			http.Error(w, "invalid to date", http.StatusBadRequest)
			return
		}
		to = parsed.Add(24*time.Hour - time.Nanosecond)
	}

	var buf bytes.Buffer
	if err := h.Orders.ExportCompleted(r.Context(), from, to, &buf); err != nil {
		h.writeError(w, r, err)
		return
	}

	filename := fmt.Sprintf("orders_%s_%s.csv", from.Format(reportDateLayout), to.Format(reportDateLayout))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(filename))
	w.Write(buf.Bytes())
}
