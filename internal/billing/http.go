package billing

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/flowforge-labs/flowforge-backend/internal/auth"
	"github.com/flowforge-labs/flowforge-backend/internal/plans"
	"github.com/gin-gonic/gin"
)

// maxWebhookBody bounds what we read from Stripe before verification.
const maxWebhookBody = 1 << 16

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterAuthed mounts the routes behind the auth middleware.
func (h *Handler) RegisterAuthed(rg *gin.RouterGroup) {
	rg.POST("/billing/checkout", h.checkout)
}

// RegisterPublic mounts the webhook, which authenticates by signature instead.
func (h *Handler) RegisterPublic(r gin.IRouter) {
	r.POST("/webhooks/stripe", h.webhook)
}

type checkoutReq struct {
	Plan       string `json:"plan"`
	SuccessURL string `json:"successUrl"`
	CancelURL  string `json:"cancelUrl"`
}

func (h *Handler) checkout(c *gin.Context) {
	var req checkoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	url, err := h.svc.CreateCheckout(c.Request.Context(), auth.UserDBID(c),
		plans.PlanType(req.Plan), req.SuccessURL, req.CancelURL)
	if errors.Is(err, ErrUnknownPlan) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "unknown plan"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "url": url})
}

func (h *Handler) webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "unreadable body"})
		return
	}

	event, err := h.svc.VerifyEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid signature"})
		return
	}

	if err := h.svc.HandleEvent(c.Request.Context(), event); err != nil {
		// Non-2xx makes Stripe retry the delivery.
		log.Printf("stripe webhook %s: %v", event.Type, err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "processing failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
