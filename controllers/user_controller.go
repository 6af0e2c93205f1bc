package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/models"
	"github.com/inkpress/inkpress/utils"
)

// UserController manages public profiles and authenticated account settings.
type UserController struct {
	db *gorm.DB
}

// NewUserController creates a UserController.
func NewUserController(db *gorm.DB) *UserController {
	return &UserController{db: db}
}

// GetUser returns public user info by ID.
func (u *UserController) GetUser(ctx *gin.Context) {
	idStr := strings.TrimSpace(ctx.Param("id"))
	if idStr == "" {
		utils.Error(ctx, http.StatusBadRequest, 40050, "missing user id")
		return
	}
	// try cache first
	if b, ok := utils.CacheGetBytes("cache:user:public:" + idStr); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}
	var user models.User
	if err := u.db.First(&user, idStr).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to get user")
		return
	}
	payload := sanitizeUserResponse(user)
	utils.CacheSetJSON("cache:user:public:"+idStr, responseWrapper{Code: 0, Message: "success", Data: payload}, time.Hour)
	utils.Success(ctx, payload)
}

// UpdateUser applies a partial settings update. Only supplied fields change;
// the caller may only update their own account.
func (u *UserController) UpdateUser(ctx *gin.Context) {
	targetID, err := strconv.ParseUint(strings.TrimSpace(ctx.Param("id")), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40051, "invalid user id")
		return
	}

	callerID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	if uint(targetID) != callerID {
		utils.Error(ctx, http.StatusForbidden, 40310, "you can only update your own account")
		return
	}

	// Pointer fields distinguish "absent" from "set to empty".
	var req struct {
		Username    *string `json:"username"`
		Email       *string `json:"email"`
		Password    *string `json:"password"`
		ProfilePic  *string `json:"profile_pic"`
		Description *string `json:"description"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40052, "invalid request payload")
		return
	}

	var user models.User
	if err := u.db.First(&user, callerID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}
	oldUsername := user.Username

	if req.Username != nil {
		name := strings.TrimSpace(*req.Username)
		if name == "" || !validUsername(name) {
			utils.Error(ctx, http.StatusBadRequest, 40053, "invalid username")
			return
		}
		if name != user.Username {
			var existing models.User
			if err := u.db.Where("username = ?", name).First(&existing).Error; err == nil {
				utils.Error(ctx, http.StatusConflict, 40901, "username already exists")
				return
			}
			user.Username = name
		}
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email == "" {
			utils.Error(ctx, http.StatusBadRequest, 40054, "email cannot be empty")
			return
		}
		if email != user.Email {
			var existing models.User
			if err := u.db.Where("email = ?", email).First(&existing).Error; err == nil {
				utils.Error(ctx, http.StatusConflict, 40902, "email already exists")
				return
			}
			user.Email = email
		}
	}
	if req.Password != nil {
		if len(*req.Password) < 6 {
			utils.Error(ctx, http.StatusBadRequest, 40055, "password must be at least 6 characters")
			return
		}
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to hash password")
			return
		}
		user.PasswordHash = hash
	}
	if req.ProfilePic != nil {
		user.ProfilePic = strings.TrimSpace(*req.ProfilePic)
	}
	if req.Description != nil {
		desc := utils.SanitizePlain(strings.TrimSpace(*req.Description))
		if rs := []rune(desc); len(rs) > 255 {
			desc = string(rs[:255])
		}
		user.Description = desc
	}

	if err := u.db.Save(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to update user")
		return
	}

	// Renaming changes the ownership key on posts; keep the denormalized column in step.
	if user.Username != oldUsername {
		if err := u.db.Model(&models.Post{}).Where("username = ?", oldUsername).
			Update("username", user.Username).Error; err != nil {
			utils.Sugar.Warnf("failed to rename post owner %s -> %s: %v", oldUsername, user.Username, err)
		}
		utils.InvalidateByPrefix("cache:posts:")
	}
	utils.InvalidateByPrefix("cache:user:public:" + strconv.Itoa(int(user.ID)))

	utils.Success(ctx, sanitizeUserResponse(user))
}

// DeleteUser removes the caller's own account. Posts are left in place; there
// is no cascade across documents.
func (u *UserController) DeleteUser(ctx *gin.Context) {
	targetID, err := strconv.ParseUint(strings.TrimSpace(ctx.Param("id")), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40051, "invalid user id")
		return
	}

	callerID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	if uint(targetID) != callerID {
		utils.Error(ctx, http.StatusForbidden, 40311, "you can only delete your own account")
		return
	}

	var user models.User
	if err := u.db.First(&user, callerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50053, "failed to load user")
		return
	}

	if err := u.db.Delete(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50054, "failed to delete user")
		return
	}

	utils.InvalidateByPrefix("cache:user:public:" + strconv.Itoa(int(user.ID)))
	utils.Success(ctx, gin.H{"message": "account deleted"})
}
