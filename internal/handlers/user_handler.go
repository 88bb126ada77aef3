package handlers

import (
	"errors"
	"net/http"

	"velora-be/internal/user"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc user.Service
}

func NewUserHandler(svc user.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, fail("Please provide name, a valid email and a password"))
		return
	}

	token, _, err := h.svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailExists):
			c.JSON(http.StatusConflict, fail("User already exists"))
		case errors.Is(err, user.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, fail("Please enter a strong password"))
		default:
			c.JSON(http.StatusInternalServerError, fail("Registration failed"))
		}
		return
	}

	c.JSON(http.StatusOK, ok(gin.H{"token": token}))
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, fail("Please provide email and password"))
		return
	}

	token, _, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, fail("Invalid credentials"))
			return
		}
		c.JSON(http.StatusInternalServerError, fail("Login failed"))
		return
	}

	c.JSON(http.StatusOK, ok(gin.H{"token": token}))
}

func (h *UserHandler) AdminLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, fail("Please provide email and password"))
		return
	}

	token, err := h.svc.AdminLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, fail("Invalid credentials"))
		return
	}

	c.JSON(http.StatusOK, ok(gin.H{"token": token}))
}
