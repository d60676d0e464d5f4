package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lac-hong-legacy/codequest_api/dto"
	"github.com/lac-hong-legacy/codequest_api/shared"
)

type ShopHandler struct {
	shopSvc ShopServiceInterface
}

func NewShopHandler(shopSvc ShopServiceInterface) *ShopHandler {
	return &ShopHandler{
		shopSvc: shopSvc,
	}
}

// @Summary List shop items
// @Description Available items. With a valid token each item carries an owned flag.
// @Tags shop
// @Produce json
// @Success 200 {object} shared.Response{data=[]dto.ShopItemResponse}
// @Router /api/shop/items [get]
func (h *ShopHandler) ListItems(c *fiber.Ctx) error {
	items, err := h.shopSvc.ListItems(currentUserID(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", items)
}

// @Summary Buy item
// @Description Debits coins and adds the item to the inventory. Buying an owned item is a no-op.
// @Tags shop
// @Accept json
// @Produce json
// @Security Bearer
// @Param buyRequest body dto.BuyItemRequest true "Item to buy"
// @Success 200 {object} shared.Response{data=dto.BuyItemResponse}
// @Failure 400 {object} shared.ErrorResponse
// @Failure 404 {object} shared.ErrorResponse
// @Router /api/shop/buy [post]
func (h *ShopHandler) Buy(c *fiber.Ctx) error {
	var req dto.BuyItemRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	resp, err := h.shopSvc.Buy(currentUserID(c), req.ItemID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Purchase successful", resp)
}
