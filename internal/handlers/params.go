package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

var errInvalidID = errors.New("invalid id")

// pathID parses a positive numeric path parameter. Non-numeric ids answer 404,
// the same as a row that does not exist.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		respondError(c, http.StatusNotFound, "Ressource introuvable.", errInvalidID)
		return 0, false
	}
	return id, true
}

// queryInt returns the integer query parameter name, or def when absent or malformed
func queryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return v
}

// queryBool parses truthy flags such as "1", "true", "on"
func queryBool(c *gin.Context, name string) (value, present bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "on", "yes":
		return true, true
	case "0", "false", "off", "no":
		return false, true
	default:
		return false, false
	}
}
