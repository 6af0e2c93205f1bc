package controllers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/config"
	"github.com/inkpress/inkpress/models"
	"github.com/inkpress/inkpress/utils"
)

// UploadController stores uploaded images on disk under a date-sharded
// directory and records them for timed cleanup. The returned public URL is the
// canonical photo reference; Base64 inlining is deliberately not supported.
type UploadController struct {
	db *gorm.DB
}

// NewUploadController creates an UploadController.
func NewUploadController(db *gorm.DB) *UploadController {
	return &UploadController{db: db}
}

// Upload handles a multipart image upload from an authenticated user.
func (u *UploadController) Upload(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40113, "unauthorized")
		return
	}

	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "no file uploaded")
		return
	}
	defer file.Close()

	cfg := config.Get()
	maxSize := int64(cfg.UploadMaxMB) * 1024 * 1024
	if header.Size > 0 && header.Size > maxSize {
		utils.Error(ctx, http.StatusBadRequest, 40031, fmt.Sprintf("file size exceeds %dMB", cfg.UploadMaxMB))
		return
	}

	now := time.Now()
	shard := filepath.Join(now.Format("2006"), now.Format("01"), now.Format("02"))
	baseDir := filepath.Join(cfg.UploadDir, shard)
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to create upload directory")
		return
	}

	// Keep only the extension from the client name; the stored name is ours.
	ext := strings.ToLower(filepath.Ext(filepath.Base(header.Filename)))
	safeName := fmt.Sprintf("%d_%s%s", userID, uuid.NewString(), ext)
	dstPath := filepath.Join(baseDir, safeName)

	out, err := os.Create(dstPath)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to save file")
		return
	}
	defer out.Close()

	// Enforce the size cap even when the client lies about Content-Length.
	lr := &io.LimitedReader{R: file, N: maxSize + 1}
	written, err := io.Copy(out, lr)
	if err != nil {
		_ = os.Remove(dstPath)
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to write file")
		return
	}
	if written > maxSize {
		_ = os.Remove(dstPath)
		utils.Error(ctx, http.StatusBadRequest, 40031, fmt.Sprintf("file size exceeds %dMB", cfg.UploadMaxMB))
		return
	}

	url := "/static/uploads/" + filepath.ToSlash(filepath.Join(shard, safeName))

	record := models.UploadedFile{
		FilePath: dstPath,
		URL:      url,
		ExpireAt: now.Add(time.Duration(cfg.UploadTTLHours) * time.Hour),
	}
	if err := u.db.Create(&record).Error; err != nil {
		utils.Sugar.Warnf("failed to record uploaded file %s: %v", dstPath, err)
	}

	utils.Success(ctx, gin.H{"url": url})
}
