// Package webhook receives Hotmart commerce events.
//
// The endpoint always answers 200 with a fixed body: Hotmart retries on
// anything else, and a retry storm on top of an internal failure helps
// nobody. Internal failures are logged with the delivery id instead.
package webhook

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/escoladeimpermeabilizacao-alt/bot-telegram-hotmart/internal/access"
)

type Handler struct {
	processor *access.Processor
}

func NewHandler(processor *access.Processor) *Handler {
	return &Handler{processor: processor}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/webhook", h.handleEvent)
}

type eventPayload struct {
	Event string `json:"event"`
	Data  struct {
		Buyer struct {
			Email string `json:"email"`
		} `json:"buyer"`
		Product struct {
			ID productID `json:"id"`
		} `json:"product"`
	} `json:"data"`
}

func (h *Handler) handleEvent(c *gin.Context) {
	deliveryID := uuid.NewString()

	var payload eventPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Warn().
			Err(err).
			Str("delivery_id", deliveryID).
			Msg("webhook payload undecodable")
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	kind := access.KindOf(payload.Event)
	email := payload.Data.Buyer.Email
	product := payload.Data.Product.ID.String()

	log.Info().
		Str("delivery_id", deliveryID).
		Str("event", payload.Event).
		Str("kind", kind.String()).
		Str("product_id", product).
		Msg("webhook received")

	result, err := h.processor.Apply(c.Request.Context(), email, product, kind)
	if err != nil {
		// Acknowledged anyway; the sender cannot fix our store.
		log.Error().
			Err(err).
			Str("delivery_id", deliveryID).
			Str("event", payload.Event).
			Msg("failed to apply commerce event")
		c.JSON(http.StatusOK, gin.H{"status": "received"})
		return
	}

	if result == access.Ignored {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "received"})
}
