package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Response envelope: {success:true, data} on success (lists add count),
// {success:false, message} on failure.

func respondOK(c echo.Context, status int, data any) error {
	return c.JSON(status, map[string]any{"success": true, "data": data})
}

func respondList(c echo.Context, count int, data any) error {
	return c.JSON(http.StatusOK, map[string]any{"success": true, "count": count, "data": data})
}

func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]any{"success": false, "message": message})
}

func paramUint(c echo.Context, name string) (uint, error) {
	n, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(n), nil
}

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// Identity accessors for values set by the auth middleware.

func currentUserID(c echo.Context) uint {
	id, _ := c.Get("user_id").(uint)
	return id
}

func currentRole(c echo.Context) string {
	role, _ := c.Get("role").(string)
	return role
}

func currentStudentID(c echo.Context) uint {
	id, _ := c.Get("student_id").(uint)
	return id
}
