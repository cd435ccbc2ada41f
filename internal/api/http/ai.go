package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/nextmac/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/nextmac/internal/providers/ai"
)

// WallpaperRequest asks for a themed wallpaper
type WallpaperRequest struct {
	Theme string `json:"theme"`
}

// EditImageRequest asks for an image edit
type EditImageRequest struct {
	ImageDataURI string `json:"imageDataUri"`
	Prompt       string `json:"prompt"`
}

// ChatRequest is one Astra conversation turn
type ChatRequest struct {
	History []ai.Message `json:"history"`
	Message string       `json:"message"`
}

// Wallpaper returns a wallpaper data URI for a theme
func (h *Handlers) Wallpaper(c *gin.Context) {
	var req WallpaperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	uri, err := h.ai.Wallpaper(c.Request.Context(), req.Theme)
	if err != nil {
		aiFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wallpaperDataUri": uri})
}

// EditImage applies a prompt to an image
func (h *Handlers) EditImage(c *gin.Context) {
	var req EditImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	uri, err := h.ai.EditImage(c.Request.Context(), req.ImageDataURI, req.Prompt)
	if err != nil {
		aiFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"editedImageUri": uri})
}

// Chat answers an Astra message
func (h *Handlers) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	reply, err := h.ai.Chat(c.Request.Context(), req.History, req.Message)
	if err != nil {
		aiFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": reply})
}

func aiFailure(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, ai.ErrInvalidInput):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ai.ErrNotConfigured), errors.Is(err, resilience.ErrCircuitOpen):
		fail(c, http.StatusServiceUnavailable, err.Error())
	default:
		fail(c, http.StatusBadGateway, err.Error())
	}
}
