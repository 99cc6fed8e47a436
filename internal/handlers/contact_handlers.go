package handlers

import (
	"net/http"

	"github.com/mambagroup/inventory-backend/internal/auth"
	"github.com/mambagroup/inventory-backend/internal/constants"
	"github.com/mambagroup/inventory-backend/internal/models"
	"github.com/mambagroup/inventory-backend/internal/utils"
)

// ContactHandler handles the contact form
type ContactHandler struct {
	contactService ContactServiceInterface
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactService ContactServiceInterface) *ContactHandler {
	if contactService == nil {
		panic("contactService cannot be nil")
	}
	return &ContactHandler{contactService: contactService}
}

// SendContactEmail relays the message of the authenticated user to support
func (h *ContactHandler) SendContactEmail(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	var req models.ContactRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if err := h.contactService.Send(r.Context(), userID, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.Message(w, http.StatusOK, constants.MsgContactEmailSent)
}
