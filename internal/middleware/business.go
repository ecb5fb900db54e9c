package middleware

import (
    "context"
    "database/sql"
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/gezipass/pass-platform/internal/model"
)

// StatusReader reports the workflow status of a business. Satisfied by
// repository.BusinessRepo.
type StatusReader interface {
    GetStatus(ctx context.Context, id uint64) (string, error)
}

// RequireActiveBusiness gates the scanner and partner-dashboard routes
// on the venue being ACTIVE. Suspended or still-pending businesses get
// a 403 before any validation runs, so no ledger rows are written for
// requests the platform would never honor. The business ID comes from
// the JWT's bid claim, never from the request.
func RequireActiveBusiness(statuses StatusReader) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            businessID, ok := BusinessID(c)
            if !ok {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "no business linked to account"})
            }
            status, err := statuses.GetStatus(c.Request().Context(), businessID)
            if err != nil {
                if errors.Is(err, sql.ErrNoRows) {
                    return c.JSON(http.StatusForbidden, echo.Map{"error": "business not found"})
                }
                return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
            }
            if status != model.BusinessStatusActive {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "business is not active"})
            }
            return next(c)
        }
    }
}

// BusinessID extracts the acting venue's ID from the context. JWT
// numeric claims arrive as float64 after JSON decoding; string is
// handled for completeness.
func BusinessID(c echo.Context) (uint64, bool) {
    switch v := c.Get("business_id").(type) {
    case float64:
        if v <= 0 {
            return 0, false
        }
        return uint64(v), true
    case uint64:
        return v, v != 0
    case string:
        n, err := strconv.ParseUint(v, 10, 64)
        return n, err == nil && n != 0
    default:
        return 0, false
    }
}

// UserID extracts the authenticated user's ID from the context.
func UserID(c echo.Context) (uint64, bool) {
    switch v := c.Get("user_id").(type) {
    case float64:
        if v <= 0 {
            return 0, false
        }
        return uint64(v), true
    case uint64:
        return v, v != 0
    case string:
        n, err := strconv.ParseUint(v, 10, 64)
        return n, err == nil && n != 0
    default:
        return 0, false
    }
}
