package handlers

import (
	"errors"
	"net/http"

	"velora-be/internal/cart"
	"velora-be/internal/utils"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	svc cart.Service
}

func NewCartHandler(svc cart.Service) *CartHandler {
	return &CartHandler{svc: svc}
}

type addToCartRequest struct {
	ItemID uint   `json:"itemId" binding:"required"`
	Size   string `json:"size" binding:"required"`
}

type updateCartRequest struct {
	ItemID   uint   `json:"itemId" binding:"required"`
	Size     string `json:"size" binding:"required"`
	Quantity *int   `json:"quantity" binding:"required"`
}

func (h *CartHandler) Add(c *gin.Context) {
	userID, _ := utils.GetUserIDFromContext(c.Request.Context())

	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, fail("itemId and size are required"))
		return
	}

	if err := h.svc.AddToCart(c.Request.Context(), userID, req.ItemID, req.Size); err != nil {
		c.JSON(http.StatusBadRequest, fail(err.Error()))
		return
	}

	c.JSON(http.StatusOK, ok(gin.H{"message": "Added To Cart"}))
}

func (h *CartHandler) Update(c *gin.Context) {
	userID, _ := utils.GetUserIDFromContext(c.Request.Context())

	var req updateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, fail("itemId, size and quantity are required"))
		return
	}

	err := h.svc.UpdateQuantity(c.Request.Context(), userID, req.ItemID, req.Size, *req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, fail("Quantity must not be negative"))
		case errors.Is(err, cart.ErrItemNotFound):
			c.JSON(http.StatusNotFound, fail("Cart item not found"))
		default:
			c.JSON(http.StatusInternalServerError, fail("Failed to update cart"))
		}
		return
	}

	c.JSON(http.StatusOK, ok(gin.H{"message": "Cart Updated"}))
}

func (h *CartHandler) Get(c *gin.Context) {
	userID, _ := utils.GetUserIDFromContext(c.Request.Context())

	data, err := h.svc.GetCart(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, fail("Failed to fetch cart"))
		return
	}

	c.JSON(http.StatusOK, ok(gin.H{"cartData": data}))
}
