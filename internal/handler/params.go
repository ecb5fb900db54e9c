package handler

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// pathID parses a numeric path parameter. Zero is never a valid ID.
func pathID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, false
    }
    return id, true
}

// pageParams reads ?limit and ?offset with repository-side defaults
// applied when absent or malformed.
func pageParams(c echo.Context) (limit, offset int) {
    if raw := c.QueryParam("limit"); raw != "" {
        if n, err := strconv.Atoi(raw); err == nil {
            limit = n
        }
    }
    if raw := c.QueryParam("offset"); raw != "" {
        if n, err := strconv.Atoi(raw); err == nil {
            offset = n
        }
    }
    return limit, offset
}
