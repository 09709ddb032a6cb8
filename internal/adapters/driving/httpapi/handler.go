package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ftransport/ftransport/internal/core/domain"
	"github.com/ftransport/ftransport/internal/core/ports/driving"
)

type handler struct {
	svc         driving.TransferService
	defaultMode domain.DestinationMode
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type validateURLRequest struct {
	SourceURL string `json:"source_url"`
}

type validateURLResponse struct {
	SourceURL string           `json:"source_url"`
	DriveType domain.DriveType `json:"drive_type"`
}

func (h *handler) validateURL(w http.ResponseWriter, r *http.Request) {
	var req validateURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	drive, err := h.svc.ValidateURL(r.Context(), req.SourceURL)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, validateURLResponse{SourceURL: req.SourceURL, DriveType: drive})
}

type createTransferRequest struct {
	SourceURL string `json:"source_url"`
	Mode      string `json:"mode,omitempty"`

	// Start launches the transfer immediately after creation.
	Start bool `json:"start,omitempty"`
}

func (h *handler) createTransfer(w http.ResponseWriter, r *http.Request) {
	var req createTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	mode := h.defaultMode
	if req.Mode != "" {
		mode = domain.DestinationMode(req.Mode)
		if mode != domain.ModeStaged && mode != domain.ModeDirect {
			writeError(w, http.StatusBadRequest, "mode must be staged or direct")
			return
		}
	}

	t, err := h.svc.Create(r.Context(), req.SourceURL, mode)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if req.Start {
		if err := h.svc.Start(r.Context(), t.ID); err != nil {
			writeDomainError(w, err)
			return
		}
		t, err = h.svc.Get(r.Context(), t.ID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusCreated, t)
}

func (h *handler) startTransfer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Start(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"id": id, "status": string(domain.StatusScanning)})
}

func (h *handler) cancelTransfer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Cancel(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"id": id})
}

func (h *handler) getTransfer(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *handler) listTransfers(w http.ResponseWriter, r *http.Request) {
	transfers, err := h.svc.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if transfers == nil {
		transfers = []domain.Transfer{}
	}
	writeJSON(w, http.StatusOK, transfers)
}

func (h *handler) getStatus(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Status(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *handler) listFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.svc.Files(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if files == nil {
		files = []domain.FileUnit{}
	}
	writeJSON(w, http.StatusOK, files)
}
