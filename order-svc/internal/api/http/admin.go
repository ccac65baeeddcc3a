package httpapi

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"restobar/order-svc/internal/domain"
	"restobar/order-svc/internal/service"

	"github.com/gorilla/mux"
)

type staffRequest struct {
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

func (h *Handler) getAccounts(w http.ResponseWriter, r *http.Request) {
	var roles []domain.Role
	if role := r.URL.Query().Get("role"); role != "" {
		roles = append(roles, domain.Role(role))
	}
	accounts, err := h.Accounts.List(r.Context(), roles...)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (h *Handler) updateStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	var req staffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	account, err := h.Accounts.UpdateStaff(r.Context(), id, req.Name, req.Email, req.Role)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *Handler) deleteStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	if err := h.Accounts.DeleteStaff(r.Context(), currentUser(r), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) setAccountBlocked(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	blocked := mux.Vars(r)["action"] == "block"
	account, err := h.Accounts.SetBlocked(r.Context(), currentUser(r), id, blocked)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *Handler) getAllReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.Reviews.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *Handler) getStatus(w http.ResponseWriter, r *http.Request) {
	open, err := h.Settings.IsOpen(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"is_open": open})
}

func (h *Handler) toggleStatus(w http.ResponseWriter, r *http.Request) {
	open, err := h.Settings.ToggleOpen(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	state := "closed"
	if open {
		state = "open"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Restaurant is now " + state,
		"is_open": open,
	})
}

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.Get(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *Handler) updateSiteName(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SiteName string `json:"site_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	settings, err := h.Settings.UpdateSiteName(r.Context(), req.SiteName)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *Handler) uploadSettingsImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "File too large", http.StatusBadRequest)
		return
	}
	url, err := h.saveUpload(r, "image", "settings")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	kind := domain.SettingsImage(mux.Vars(r)["kind"])
	settings, err := h.Settings.UpdateImage(r.Context(), kind, url)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// serveUpload streams a stored upload after the ownership check for
// private folders.
func (h *Handler) serveUpload(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	folder, name := vars["folder"], vars["name"]
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		http.NotFound(w, r)
		return
	}

	if service.IsPrivateUpload(folder) {
		path := "/uploads/" + folder + "/" + name
		if err := h.Uploads.Authorize(r.Context(), currentUser(r), folder, path); err != nil {
			h.writeError(w, r, err)
			return
		}
		w.Header().Set("Cache-Control", "private, no-store")
	}

	http.ServeFile(w, r, filepath.Join(h.UploadDir, folder, name))
}
