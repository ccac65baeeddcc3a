package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"restobar/order-svc/internal/domain"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type credentials struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

type voucherRequest struct {
	Code        string          `json:"code"`
	Discount    decimal.Decimal `json:"discount"`
	MinSpend    decimal.Decimal `json:"min_spend"`
	ExpiryDate  string          `json:"expiry_date"`
	ClaimForAll bool            `json:"claim_for_all"`
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	account, err := h.Accounts.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	token, account, err := h.Accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":   token,
		"account": account,
	})
}

func (h *Handler) createStaff(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	account, err := h.Accounts.CreateStaff(r.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

func (h *Handler) getVouchers(w http.ResponseWriter, r *http.Request) {
	vouchers, err := h.Vouchers.ListForUser(r.Context(), currentUser(r).ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vouchers)
}

func (h *Handler) claimVoucher(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	if err := h.Vouchers.Claim(r.Context(), currentUser(r).ID, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "claimed"})
}

// decodeVoucher takes the expiry as a calendar day; the voucher stays
// valid until the end of that day.
func decodeVoucher(w http.ResponseWriter, r *http.Request) (*domain.Voucher, bool, bool) {
	var req voucherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false, false
	}
	expiry, err := time.ParseInLocation(reportDateLayout, req.ExpiryDate, time.Local)
	if err != nil {
		http.Error(w, "expiry_date must look like 2025-01-31", http.StatusBadRequest)
		return nil, false, false
	}

	return &domain.Voucher{
		Code:       req.Code,
		Discount:   req.Discount,
		MinSpend:   req.MinSpend,
		ExpiryDate: expiry.Add(24*time.Hour - time.Second),
	}, req.ClaimForAll, true
}

func (h *Handler) createVoucher(w http.ResponseWriter, r *http.Request) {
	voucher, claimForAll, ok := decodeVoucher(w, r)
	if !ok {
		return
	}
	if err := h.Vouchers.Create(r.Context(), voucher, claimForAll); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, voucher)
}

func (h *Handler) updateVoucher(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	voucher, _, ok := decodeVoucher(w, r)
	if !ok {
		return
	}
	voucher.ID = id
	if err := h.Vouchers.Update(r.Context(), voucher); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, voucher)
}

func (h *Handler) deleteVoucher(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	if err := h.Vouchers.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) submitPWDRequest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "File too large", http.StatusBadRequest)
		return
	}
	document, err := h.saveUpload(r, "document", "pwd")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	req, err := h.PWD.Submit(r.Context(), currentUser(r).ID, document)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *Handler) getPendingPWDRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.PWD.ListPending(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (h *Handler) reviewPWDRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	approve := mux.Vars(r)["decision"] == "approve"
	req, err := h.PWD.Review(r.Context(), id, approve)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (h *Handler) submitReview(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	review := &domain.Review{
		UserID:  currentUser(r).ID,
		OrderID: orderID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}
	if err := h.Reviews.Submit(r.Context(), review); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (h *Handler) getMyReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.Reviews.ListForUser(r.Context(), currentUser(r).ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}
