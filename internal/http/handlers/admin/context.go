package admin

import "github.com/gin-gonic/gin"

// adminID returns the authenticated admin id from the request context.
func adminID(c *gin.Context) uint {
	if value, ok := c.Get("admin_id"); ok {
		if id, ok := value.(uint); ok {
			return id
		}
	}
	return 0
}

// adminUsername returns the authenticated admin username; used as the actor
// on status history rows.
func adminUsername(c *gin.Context) string {
	if value, ok := c.Get("admin_username"); ok {
		if name, ok := value.(string); ok {
			return name
		}
	}
	return ""
}
