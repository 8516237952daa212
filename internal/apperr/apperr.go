// Package apperr defines the machine-readable error codes the API returns
// and the shared response envelope helpers.
package apperr

import (
	"github.com/gin-gonic/gin"
)

const (
	InvalidInput         = "INVALID_INPUT"
	NotFound             = "NOT_FOUND"
	Unauthorized         = "UNAUTHORIZED"
	Forbidden            = "FORBIDDEN"
	Conflict             = "CONFLICT"
	UpstreamUnauthorized = "UPSTREAM_UNAUTHORIZED"
	UpstreamError        = "UPSTREAM_ERROR"
	UpstreamBadResponse  = "UPSTREAM_BAD_RESPONSE"
	UpstreamParseFailed  = "UPSTREAM_PARSE_FAILED"
	Fatal                = "FATAL"
)

// Fail writes the standard failure envelope.
func Fail(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"ok": false, "code": code, "error": message})
}

// OK writes the standard success envelope with extra payload keys merged in.
func OK(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"ok": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}
