package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxSupabaseUID = "supabase_uid"
	CtxUserDBID    = "user_db_id"
	CtxUserEmail   = "user_email"
)

// UserDBID extracts the database user id set by WithUser.
func UserDBID(c *gin.Context) string {
	v := c.GetString(CtxUserDBID)
	if strings.TrimSpace(v) == "" {
		return ""
	}
	return v
}

func UserEmail(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserEmail))
}
