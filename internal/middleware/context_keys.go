package middleware

import "github.com/gin-gonic/gin"

// approverIDKey is the key used to store the authenticated approver's ID in
// the request context.
const approverIDKey = contextKey("approverID")

// GetApproverIDFromContext retrieves the authenticated approver ID from the
// Gin context. It returns the ID and a boolean indicating if it was found.
func GetApproverIDFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(approverIDKey)); exists {
		if id, ok := v.(string); ok {
			return id, true
		}
		return "", false
	}
	// check in the request context as well
	if v := c.Request.Context().Value(approverIDKey); v != nil {
		if id, ok := v.(string); ok {
			return id, true
		}
	}
	return "", false
}
