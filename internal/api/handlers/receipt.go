package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/caffeinecoffee/storefront/internal/domain"
	"github.com/caffeinecoffee/storefront/internal/receipt"
	"github.com/caffeinecoffee/storefront/internal/repository"
	"github.com/caffeinecoffee/storefront/internal/service"
)

// ReceiptResponse represents the receipt page
type ReceiptResponse struct {
	Receipt receipt.View       `json:"receipt"`
	Text    string             `json:"text"`
	Data    domain.ReceiptData `json:"data"`
}

// HandleGetReceipt handles GET /v1/receipt. The receipt is handed off
// once; a second read returns 404 and the client should go home.
func HandleGetReceipt(sessions *service.SessionManager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := sessionFromContext(c, sessions)
		if !ok {
			return
		}

		data, err := sessions.ConsumeReceipt(c.Request.Context(), session.ID)
		if err != nil {
			if stderrors.Is(err, repository.ErrSlotEmpty) {
				c.JSON(http.StatusNotFound, gin.H{"error": "no receipt", "redirect": "/"})
				return
			}
			logger.Error("Failed to read receipt", zap.String("session_id", session.ID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		view := receipt.Build(*data)
		c.JSON(http.StatusOK, ReceiptResponse{
			Receipt: view,
			Text:    receipt.Text(view),
			Data:    *data,
		})
	}
}
