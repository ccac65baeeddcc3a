package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"restobar/order-svc/internal/domain"
	"restobar/order-svc/internal/service"

	"github.com/gorilla/mux"
)

type blockDateRequest struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

func (h *Handler) bookReservation(w http.ResponseWriter, r *http.Request) {
	tableID, ok := pathInt(w, r, "tableId")
	if !ok {
		return
	}

	var input service.BookingInput
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			http.Error(w, "File too large", http.StatusBadRequest)
			return
		}
		proof, err := h.saveUpload(r, "proof", "reservations")
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		input = service.BookingInput{
			FullName:        r.FormValue("full_name"),
			Email:           r.FormValue("email"),
			Phone:           r.FormValue("phone"),
			DineDate:        r.FormValue("dine_date"),
			DineTime:        r.FormValue("dine_time"),
			ReferenceNumber: r.FormValue("reference_number"),
			ProofOfPayment:  proof,
		}
	} else if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	reservation, err := h.Reservations.Book(r.Context(), currentUser(r), tableID, input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, reservation)
}

func (h *Handler) getMyReservations(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.Reservations.ListForUser(r.Context(), currentUser(r).ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reservations)
}

func (h *Handler) getReservations(w http.ResponseWriter, r *http.Request) {
	status := domain.ReservationStatus(r.URL.Query().Get("status"))
	reservations, err := h.Reservations.List(r.Context(), status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reservations)
}

type reservationMove func(ctx context.Context, user domain.CurrentUser, id int) (*domain.Reservation, error)

func (h *Handler) moveReservation(w http.ResponseWriter, r *http.Request, move reservationMove) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	reservation, err := move(r.Context(), currentUser(r), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

func (h *Handler) cancelReservation(w http.ResponseWriter, r *http.Request) {
	h.moveReservation(w, r, h.Reservations.Cancel)
}

func (h *Handler) approveReservation(w http.ResponseWriter, r *http.Request) {
	h.moveReservation(w, r, h.Reservations.Approve)
}

func (h *Handler) rejectReservation(w http.ResponseWriter, r *http.Request) {
	h.moveReservation(w, r, h.Reservations.Reject)
}

func (h *Handler) markReservationDone(w http.ResponseWriter, r *http.Request) {
	h.moveReservation(w, r, h.Reservations.MarkDone)
}

func (h *Handler) getCalendar(w http.ResponseWriter, r *http.Request) {
	calendar, err := h.Reservations.Calendar(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, calendar)
}

func (h *Handler) getBlockedDates(w http.ResponseWriter, r *http.Request) {
	dates, err := h.Reservations.BlockedDates(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dates)
}

func (h *Handler) blockDate(w http.ResponseWriter, r *http.Request) {
	var req blockDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	blocked, err := h.Reservations.BlockDate(r.Context(), req.Date, req.Reason)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, blocked)
}

func (h *Handler) unblockDate(w http.ResponseWriter, r *http.Request) {
	if err := h.Reservations.UnblockDate(r.Context(), mux.Vars(r)["date"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
