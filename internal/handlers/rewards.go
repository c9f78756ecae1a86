package handlers

import (
	"errors"

	"skillhub/internal/models"
	"skillhub/internal/services/rewards"
	"skillhub/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// RewardsHandler exposes the rewards points endpoints.
type RewardsHandler struct {
	service rewards.Service
}

func NewRewardsHandler(service rewards.Service) *RewardsHandler {
	return &RewardsHandler{service: service}
}

// GetBalance handles GET /rewards.
func (h *RewardsHandler) GetBalance(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c, "invalid claims")
	}

	balance, err := h.service.GetBalance(c.Context(), claims.UserID)
	if err != nil {
		return response.ServerError(c, "failed to load rewards balance")
	}
	return response.Success(c, "rewards balance", balance)
}

// Earn handles POST /rewards/earn. Only manual claims come through this
// endpoint; system-granted sources are awarded internally.
func (h *RewardsHandler) Earn(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c, "invalid claims")
	}

	var req struct {
		Points      int64  `json:"points"`
		WalletID    uint   `json:"wallet_id"`
		Description string `json:"description"`
		RelatedID   string `json:"related_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request")
	}

	balance, err := h.service.EarnPoints(c.Context(), claims.UserID, rewards.EarnRequest{
		Points:      req.Points,
		WalletID:    req.WalletID,
		Source:      models.RewardsSourceManual,
		Description: req.Description,
		RelatedID:   req.RelatedID,
	})
	if err != nil {
		if errors.Is(err, rewards.ErrLedgerFailed) {
			return response.ServerError(c, "failed to record points")
		}
		return response.BadRequest(c, err.Error())
	}
	return response.Success(c, "points earned", balance)
}

// Redeem handles POST /rewards/redeem.
func (h *RewardsHandler) Redeem(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c, "invalid claims")
	}

	var req struct {
		Points   int64 `json:"points"`
		WalletID uint  `json:"wallet_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request")
	}

	result, err := h.service.RedeemPoints(c.Context(), claims.UserID, req.Points, req.WalletID, models.RewardsSourceManual)
	if err != nil {
		if errors.Is(err, rewards.ErrLedgerFailed) {
			return response.ServerError(c, "failed to redeem points")
		}
		return response.BadRequest(c, err.Error())
	}
	return response.Success(c, "points redeemed", result)
}

// Convert handles POST /rewards/convert.
func (h *RewardsHandler) Convert(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c, "invalid claims")
	}

	var req struct {
		Points   int64 `json:"points"`
		WalletID uint  `json:"wallet_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request")
	}

	result, err := h.service.ConvertPointsToIMoney(c.Context(), claims.UserID, req.Points, req.WalletID)
	if err != nil {
		if errors.Is(err, rewards.ErrLedgerFailed) {
			return response.ServerError(c, "failed to convert points")
		}
		return response.BadRequest(c, err.Error())
	}
	return response.Success(c, "points converted", result)
}

// ConversionInfo handles GET /rewards/conversion-info.
func (h *RewardsHandler) ConversionInfo(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c, "invalid claims")
	}

	info, err := h.service.GetConversionInfo(c.Context(), claims.UserID)
	if err != nil {
		return response.ServerError(c, "failed to load conversion info")
	}
	return response.Success(c, "conversion info", info)
}

// History handles GET /rewards/history.
func (h *RewardsHandler) History(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c, "invalid claims")
	}

	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	entries, err := h.service.GetHistory(c.Context(), claims.UserID, limit, offset)
	if err != nil {
		return response.ServerError(c, "failed to load rewards history")
	}
	return response.Success(c, "rewards history", entries)
}
