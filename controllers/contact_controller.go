package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/models"
	"github.com/inkpress/inkpress/utils"
)

// ContactController stores contact form submissions for operator review.
// Messages are persisted only; nothing is emailed.
type ContactController struct {
	db *gorm.DB
}

// NewContactController creates a ContactController.
func NewContactController(db *gorm.DB) *ContactController {
	return &ContactController{db: db}
}

// CreateMessage handles a public contact form submission. All fields are
// required; nothing is persisted when validation fails.
func (c *ContactController) CreateMessage(ctx *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required"`
		Email   string `json:"email" binding:"required,email"`
		Subject string `json:"subject" binding:"required"`
		Message string `json:"message" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40060, "all fields are required")
		return
	}

	msg := models.ContactMessage{
		Name:    utils.SanitizePlain(strings.TrimSpace(req.Name)),
		Email:   strings.TrimSpace(req.Email),
		Subject: utils.SanitizePlain(strings.TrimSpace(req.Subject)),
		Message: utils.SanitizePlain(req.Message),
	}
	if msg.Name == "" || msg.Subject == "" || strings.TrimSpace(msg.Message) == "" {
		utils.Error(ctx, http.StatusBadRequest, 40060, "all fields are required")
		return
	}

	if err := c.db.Create(&msg).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to store message")
		return
	}

	utils.Sugar.Infow("contact form submission",
		"from", msg.Name,
		"email", msg.Email,
		"subject", msg.Subject,
	)

	utils.Success(ctx, gin.H{"message": "message received"})
}

// ListMessages returns stored contact messages, newest first. Restricted to
// the configured admin usernames.
func (c *ContactController) ListMessages(ctx *gin.Context) {
	if !isAdmin(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40330, "admin access required")
		return
	}

	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))

	var messages []models.ContactMessage
	var total int64
	if err := c.db.Model(&models.ContactMessage{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to count messages")
		return
	}
	if err := c.db.Order("created_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&messages).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to list messages")
		return
	}

	utils.Success(ctx, gin.H{
		"items":      messages,
		"pagination": paginationMeta(page, pageSize, total),
	})
}
