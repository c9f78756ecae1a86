package handlers

import (
	"errors"

	"skillhub/internal/services/wallet"
	"skillhub/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// WalletHandler exposes wallet lifecycle endpoints.
type WalletHandler struct {
	service wallet.Service
}

func NewWalletHandler(service wallet.Service) *WalletHandler {
	return &WalletHandler{service: service}
}

// Get handles GET /wallet.
func (h *WalletHandler) Get(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c, "invalid claims")
	}

	w, err := h.service.GetWallet(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, wallet.ErrWalletNotFound) {
			return response.NotFound(c, "wallet not found")
		}
		return response.ServerError(c, "failed to load wallet")
	}
	return response.Success(c, "wallet", w)
}

// Provision handles POST /wallet.
func (h *WalletHandler) Provision(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c, "invalid claims")
	}

	w, err := h.service.Provision(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, wallet.ErrWalletExists) {
			return response.BadRequest(c, "wallet already exists")
		}
		return response.ServerError(c, "failed to provision wallet")
	}
	return response.Success(c, "wallet provisioned", w)
}

// TopUp handles POST /wallet/topup.
func (h *WalletHandler) TopUp(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c, "invalid claims")
	}

	var req struct {
		CardToken string `json:"card_token"`
		Amount    int64  `json:"amount"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request")
	}

	result, err := h.service.TopUp(c.Context(), claims.UserID, req.CardToken, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrWalletNotFound):
			return response.NotFound(c, "wallet not found")
		case errors.Is(err, wallet.ErrTransactionFailed):
			return response.ServerError(c, "top-up failed")
		default:
			return response.BadRequest(c, err.Error())
		}
	}
	return response.Success(c, "top up successful", result)
}

// Deactivate handles POST /wallet/deactivate.
func (h *WalletHandler) Deactivate(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c, "invalid claims")
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request")
	}

	if err := h.service.Deactivate(c.Context(), claims.UserID, req.Reason); err != nil {
		if errors.Is(err, wallet.ErrWalletNotFound) {
			return response.NotFound(c, "wallet not found")
		}
		return response.BadRequest(c, err.Error())
	}
	return response.Success(c, "wallet deactivated", nil)
}

// Reactivate handles POST /wallet/reactivate.
func (h *WalletHandler) Reactivate(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c, "invalid claims")
	}

	if err := h.service.Reactivate(c.Context(), claims.UserID); err != nil {
		if errors.Is(err, wallet.ErrWalletNotFound) {
			return response.NotFound(c, "wallet not found")
		}
		return response.BadRequest(c, err.Error())
	}
	return response.Success(c, "wallet reactivated", nil)
}
