package contact

import (
	"net/http"

	contactsvc "github.com/uslusolutions/clinicweb/internal/services/web/contact"
	"github.com/uslusolutions/clinicweb/internal/services/web/platform/httpx"
)

// maxBodyBytes bounds contact payloads.
const maxBodyBytes = 64 << 10

type handlers struct {
	service *contactsvc.Service
}

func (h handlers) handleSubmit(w http.ResponseWriter, r *http.Request) {
	req, err := h.service.Decode(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		_ = httpx.WriteAppError(w, err, contactsvc.MessageInvalidJSON)
		return
	}
	if _, err := h.service.Submit(r.Context(), req); err != nil {
		_ = httpx.WriteAppError(w, err, contactsvc.MessageSendFailed)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
