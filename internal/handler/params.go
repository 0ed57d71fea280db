package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// IDs are snowflakes and exceed the range JavaScript numbers hold exactly.
func idToString(id int64) string {
	return strconv.FormatInt(id, 10)
}

func parseOptionalInt(raw string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return value, true
}
