package httpapi

import (
	"github.com/gin-gonic/gin"
)

// Envelope codes for transport-level failures.
const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeMissingCode      = "missing_code"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeRateLimited      = "rate_limited"
	ErrCodeInternal         = "internal_error"
)

// Result codes returned with ok:false to the game server.
const (
	resultInvalidCode          = "invalid_code"
	resultAlreadyLinkedDiscord = "already_linked_discord"
	resultAlreadyLinkedRoblox  = "already_linked_roblox"
)

type errorResponse struct {
	RequestID string `json:"request_id"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// fail aborts the request with the standard error envelope.
func fail(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, errorResponse{
		RequestID: requestIDFrom(c),
		Code:      code,
		Message:   msg,
	})
}

// result answers with a definite domain outcome.
func result(c *gin.Context, status int, errCode string) {
	if errCode == "" {
		c.JSON(status, gin.H{"ok": true})
		return
	}
	c.JSON(status, gin.H{"ok": false, "error": errCode})
}
