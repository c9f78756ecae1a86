package handlers

import (
	"context"
	"errors"

	"skillhub/internal/models"
	"skillhub/internal/services/gift"
	"skillhub/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// GiftHandler exposes the gift transfer endpoints.
type GiftHandler struct {
	service gift.Service
}

func NewGiftHandler(service gift.Service) *GiftHandler {
	return &GiftHandler{service: service}
}

// Send handles POST /gift/send.
func (h *GiftHandler) Send(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c, "invalid claims")
	}

	var req struct {
		RecipientEmail string `json:"recipient_email"`
		Amount         int64  `json:"amount"`
		Message        string `json:"message"`
		Reason         string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request")
	}

	result, err := h.service.SendGift(c.Context(), claims.UserID, gift.SendGiftRequest{
		RecipientEmail: req.RecipientEmail,
		Amount:         req.Amount,
		Message:        req.Message,
		Reason:         req.Reason,
	})
	if err != nil {
		if errors.Is(err, gift.ErrTransferFailed) {
			return response.ServerError(c, "gift transfer failed")
		}
		return response.BadRequest(c, err.Error())
	}
	return response.Success(c, result.Message, result)
}

// Cancel handles POST /gift/:transactionId/cancel.
func (h *GiftHandler) Cancel(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c, "invalid claims")
	}

	transactionID := c.Params("transactionId")
	if transactionID == "" {
		return response.BadRequest(c, "transaction id is required")
	}

	result, err := h.service.CancelGift(c.Context(), transactionID, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, gift.ErrGiftNotFound):
			return response.NotFound(c, err.Error())
		case errors.Is(err, gift.ErrTransferFailed):
			return response.ServerError(c, "gift cancellation failed")
		default:
			return response.BadRequest(c, err.Error())
		}
	}
	return response.Success(c, result.Message, result)
}

// History handles GET /gift/history.
func (h *GiftHandler) History(c *fiber.Ctx) error {
	return h.list(c, h.service.GetHistory)
}

// Sent handles GET /gift/sent.
func (h *GiftHandler) Sent(c *fiber.Ctx) error {
	return h.list(c, h.service.GetSent)
}

// Received handles GET /gift/received.
func (h *GiftHandler) Received(c *fiber.Ctx) error {
	return h.list(c, h.service.GetReceived)
}

func (h *GiftHandler) list(c *fiber.Ctx, query func(ctx context.Context, userID uint, limit, offset int) ([]models.GiftTransaction, error)) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c, "invalid claims")
	}

	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	gifts, err := query(c.Context(), claims.UserID, limit, offset)
	if err != nil {
		return response.ServerError(c, "failed to load gift transactions")
	}
	return response.Success(c, "gift transactions", gifts)
}
