package controllers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/inkpress/inkpress/config"
	"github.com/inkpress/inkpress/middleware"
	"github.com/inkpress/inkpress/models"
)

// getUserID extracts the authenticated user ID placed in context by the auth middleware.
func getUserID(ctx *gin.Context) (uint, bool) {
	v, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// getUsername extracts the authenticated username from context.
func getUsername(ctx *gin.Context) (string, bool) {
	v, exists := ctx.Get(middleware.ContextUsernameKey)
	if !exists {
		return "", false
	}
	name, ok := v.(string)
	return name, ok && name != ""
}

func isAdminUsername(username string) bool {
	for _, admin := range config.Get().AdminUsernames {
		if strings.EqualFold(admin, username) {
			return true
		}
	}
	return false
}

// isAdmin reports whether the authenticated caller is in the configured admin list.
func isAdmin(ctx *gin.Context) bool {
	name, ok := getUsername(ctx)
	return ok && isAdminUsername(name)
}

// parsePagination normalizes page/page_size query values. page_size is capped at 100.
func parsePagination(pageStr, sizeStr string) (int, int) {
	page, pageSize := 1, 10
	if v := strings.TrimSpace(pageStr); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := strings.TrimSpace(sizeStr); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			pageSize = n
		}
	}
	return page, pageSize
}

func paginationMeta(page, pageSize int, total int64) gin.H {
	return gin.H{
		"page":        page,
		"page_size":   pageSize,
		"total":       total,
		"total_pages": int((total + int64(pageSize) - 1) / int64(pageSize)),
	}
}

// sanitizeUserResponse strips credential material from a user payload.
func sanitizeUserResponse(user models.User) gin.H {
	return gin.H{
		"id":          user.ID,
		"username":    user.Username,
		"email":       user.Email,
		"profile_pic": user.ProfilePic,
		"description": user.Description,
		"created_at":  user.CreatedAt,
	}
}

// responseWrapper mirrors utils.JSONResponse for caching full response bodies.
type responseWrapper struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}
