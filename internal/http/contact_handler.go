package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

type ContactHandler struct {
	log *logrus.Entry
}

func NewContactHandler(log *logrus.Logger) *ContactHandler {
	return &ContactHandler{log: log.WithField("component", "contact")}
}

type ContactRequestDTO struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Submit accepts a contact form message. There is no mail backend; the
// message is recorded in the service log for the store owner.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req ContactRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "missing_name", "name is required")
		return
	}
	if strings.TrimSpace(req.Email) == "" && strings.TrimSpace(req.Phone) == "" {
		respondError(w, http.StatusBadRequest, "missing_contact", "email or phone is required")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "missing_message", "message is required")
		return
	}

	h.log.WithFields(logrus.Fields{
		"name":  req.Name,
		"email": req.Email,
		"phone": req.Phone,
	}).Info("contact message received")

	respondJSON(w, http.StatusAccepted, map[string]string{"status": "received"})
}
