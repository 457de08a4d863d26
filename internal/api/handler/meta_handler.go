package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type MetaHandler struct{}

func NewMetaHandler() *MetaHandler {
	return &MetaHandler{}
}

// Root greets API clients.
//
// @Summary      Welcome message
// @Tags         meta
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       / [get]
func (h *MetaHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Welcome to the e-voting backend!"})
}

// Test is a lightweight probe kept for existing frontends.
//
// @Summary      Backend probe
// @Tags         meta
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /test [get]
func (h *MetaHandler) Test(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Backend is running!"})
}
