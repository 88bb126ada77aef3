package handlers

import (
	"net/http"

	"velora-be/internal/product"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	svc product.Service
}

func NewProductHandler(svc product.Service) *ProductHandler {
	return &ProductHandler{svc: svc}
}

func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.svc.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, fail("Failed to fetch products"))
		return
	}
	if products == nil {
		products = []product.Product{}
	}

	c.JSON(http.StatusOK, ok(gin.H{"products": products}))
}

func (h *ProductHandler) Add(c *gin.Context) {
	var p product.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, fail("Invalid product payload"))
		return
	}

	created, err := h.svc.Create(c.Request.Context(), p)
	if err != nil {
		c.JSON(http.StatusBadRequest, fail(err.Error()))
		return
	}

	c.JSON(http.StatusOK, ok(gin.H{"message": "Product Added", "product": created}))
}
