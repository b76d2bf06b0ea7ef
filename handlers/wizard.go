package handlers

import (
	"errors"
	"net/http"

	"anchorsite/models"
	"anchorsite/services/wizard"
	"anchorsite/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WizardHandler exposes the booking wizard over HTTP. One session per
// browser tab; every mutation goes through the session's current step.
type WizardHandler struct {
	Svc    wizard.Service
	Logger *zap.Logger
}

func NewWizardHandler(svc wizard.Service, logger *zap.Logger) *WizardHandler {
	return &WizardHandler{Svc: svc, Logger: logger}
}

// StartSession creates a new wizard session, optionally seeded from a
// deep link (preselected date and/or booking type).
func (h *WizardHandler) StartSession(c *gin.Context) {
	var seed wizard.SessionSeed
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&seed); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
			return
		}
	}

	state, err := h.Svc.StartSession(c.Request.Context(), seed)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, state)
}

// GetSession returns the current state of a session.
func (h *WizardHandler) GetSession(c *gin.Context) {
	state, err := h.Svc.GetState(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// SubmitStep applies the current step's data and advances on success.
func (h *WizardHandler) SubmitStep(c *gin.Context) {
	var input wizard.StepInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	state, err := h.Svc.SubmitStep(c.Request.Context(), c.Param("sessionID"), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// Back returns to the previous active step.
func (h *WizardHandler) Back(c *gin.Context) {
	state, err := h.Svc.Back(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// GoToStep jumps to a named step; used by the confirm screen's edit links.
func (h *WizardHandler) GoToStep(c *gin.Context) {
	var input struct {
		Step models.StepType `json:"step"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	state, err := h.Svc.GoToStep(c.Request.Context(), c.Param("sessionID"), input.Step)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// Confirm submits the draft to the management API and reports where the
// client should go next: a payment URL or a confirmation page.
func (h *WizardHandler) Confirm(c *gin.Context) {
	result, err := h.Svc.Confirm(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Confirmation serves the one-shot booking snapshot to the confirmation
// page after a redirect.
func (h *WizardHandler) Confirmation(c *gin.Context) {
	kind, snap, err := h.Svc.Confirmation(c.Request.Context(), c.Param("reference"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"kind": kind, "booking": snap})
}

func (h *WizardHandler) respondError(c *gin.Context, err error) {
	var validationErr *wizard.ValidationError
	var sessionErr *wizard.SessionError
	var submitErr *wizard.SubmitError
	var conflictErr *wizard.ConflictError

	switch {
	case errors.As(err, &validationErr):
		utils.JSONFieldErrors(c, validationErr.Message, validationErr.Fields)
	case errors.Is(err, wizard.ErrNotFound), errors.As(err, &sessionErr):
		utils.JSONError(c, http.StatusNotFound, "booking session not found or expired", "")
	case errors.As(err, &conflictErr):
		utils.JSONError(c, http.StatusConflict, conflictErr.Message, "")
	case errors.As(err, &submitErr):
		utils.JSONError(c, http.StatusBadGateway, submitErr.Message, "")
	default:
		h.Logger.Error("wizard request failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Something went wrong. Please try again.", "")
	}
}
