package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/portaria/internal/domain/models"
	"github.com/mamadbah2/portaria/internal/service/checkin"
)

// EntryHandler serves the check-in form.
type EntryHandler struct {
	svc    *checkin.Service
	logger *zap.Logger
}

// NewEntryHandler constructs the check-in HTTP adapter.
func NewEntryHandler(svc *checkin.Service, logger *zap.Logger) *EntryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EntryHandler{svc: svc, logger: logger}
}

// Draft returns the form state kept in the session.
func (h *EntryHandler) Draft(c *gin.Context) {
	c.JSON(http.StatusOK, currentSession(c).Draft)
}

// UpdateDraft replaces the session draft. Fields absent from the body fall back
// to the form defaults.
func (h *EntryHandler) UpdateDraft(c *gin.Context) {
	draft := models.NewDraft()
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	sess := currentSession(c)
	sess.Draft = draft
	c.JSON(http.StatusOK, sess.Draft)
}

// Submit registers the check-in. A JSON body, when present, is merged over the
// session draft first.
func (h *EntryHandler) Submit(c *gin.Context) {
	sess := currentSession(c)

	draft := sess.Draft
	if err := c.ShouldBindJSON(&draft); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	sess.Draft = draft

	receipt, err := h.svc.Submit(c.Request.Context(), sess)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": fmt.Sprintf("Entry registered for %s.", receipt.Name),
		"receipt": receipt,
	})
}
