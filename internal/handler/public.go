package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/gezipass/pass-platform/internal/repository"
)

// PublicHandler serves unauthenticated storefront endpoints.
type PublicHandler struct {
    PassTypes *repository.PassTypeRepo
}

// NewPublicHandler returns a PublicHandler.
func NewPublicHandler(passTypes *repository.PassTypeRepo) *PublicHandler {
    return &PublicHandler{PassTypes: passTypes}
}

// ListPassTypes handles GET /v1/pass-types: the active campaigns a
// tourist can buy. Served through the response cache since the
// catalogue changes rarely and this is the highest-traffic read.
func (h *PublicHandler) ListPassTypes(c echo.Context) error {
    items, err := h.PassTypes.List(c.Request().Context(), true)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": viewPassTypes(items)})
}
