package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/portaria/internal/service/auth"
	"github.com/mamadbah2/portaria/internal/service/checkout"
	"github.com/mamadbah2/portaria/internal/service/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExitHandler serves the staff side: login, today's overview and checkout.
type ExitHandler struct {
	auth     *auth.Service
	checkout *checkout.Service
	logger   *zap.Logger
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type checkoutRequest struct {
	DocumentNumber string `json:"document_number"`
}

// NewExitHandler constructs the check-out HTTP adapter.
func NewExitHandler(authSvc *auth.Service, checkoutSvc *checkout.Service, logger *zap.Logger) *ExitHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExitHandler{auth: authSvc, checkout: checkoutSvc, logger: logger}
}

// Login authenticates the session against the stored credentials.
func (h *ExitHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if err := h.auth.Login(c.Request.Context(), currentSession(c), req.Username, req.Password); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Login successful."})
}

// Logout drops the session authentication.
func (h *ExitHandler) Logout(c *gin.Context) {
	h.auth.Logout(currentSession(c))
	c.JSON(http.StatusOK, gin.H{"message": "Logged out."})
}

// Overview lists today's records and the documents still inside.
func (h *ExitHandler) Overview(c *gin.Context) {
	overview, err := h.checkout.Today(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// Checkout records the exit time for a document number. The response always
// carries a freshly read overview when the store can be read.
func (h *ExitHandler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	ctx := c.Request.Context()
	record, checkoutErr := h.checkout.Checkout(ctx, currentSession(c), req.DocumentNumber)

	status, body := http.StatusOK, gin.H{}
	if checkoutErr != nil {
		status, body = errorResponse(checkoutErr)
		if status >= http.StatusInternalServerError {
			h.logger.Error("checkout failed", zap.Error(checkoutErr))
		}
	} else {
		body["message"] = fmt.Sprintf("Checkout registered for document %s.", record.DocumentNumber)
		body["record"] = record
	}

	overview, err := h.checkout.Today(ctx)
	if err != nil {
		h.logger.Warn("failed to refresh overview after checkout", zap.Error(err))
	} else {
		body["overview"] = overview
	}

	c.JSON(status, body)
}

// Export downloads today's records as an xlsx workbook.
func (h *ExitHandler) Export(c *gin.Context) {
	overview, err := h.checkout.Today(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, overview.Records, h.checkout.Location()); err != nil {
		h.logger.Error("failed to render export", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render export"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="registros-%s.xlsx"`, overview.Date))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
