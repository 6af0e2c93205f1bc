package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/middleware"
	"github.com/inkpress/inkpress/models"
	"github.com/inkpress/inkpress/utils"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "handler-test-secret")
	os.Setenv("ADMIN_USERNAMES", "admin")
	// Point Redis at a closed port so every cache lookup misses; tests always
	// exercise the database path.
	os.Setenv("REDIS_PORT", "1")

	uploadDir, err := os.MkdirTemp("", "inkpress-uploads")
	if err != nil {
		panic(err)
	}
	os.Setenv("UPLOAD_DIR", uploadDir)

	gin.SetMode(gin.TestMode)
	utils.Logger = zap.NewNop()
	utils.Sugar = utils.Logger.Sugar()

	code := m.Run()
	os.RemoveAll(uploadDir)
	os.Exit(code)
}

// newTestEnv builds a fresh in-memory database and a router wired like
// routes.SetupRouter, minus access logging and rate limiting.
func newTestEnv(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Category{},
		&models.ContactMessage{},
		&models.UploadedFile{},
	))

	authController := NewAuthController(db)
	userController := NewUserController(db)
	postController := NewPostController(db)
	categoryController := NewCategoryController(db)
	contactController := NewContactController(db)
	uploadController := NewUploadController(db)

	r := gin.New()
	api := r.Group("/api")

	api.POST("/auth/register", authController.Register)
	api.POST("/auth/login", authController.Login)
	api.POST("/auth/logout", middleware.AuthRequired(), authController.Logout)
	api.GET("/auth/me", middleware.AuthRequired(), authController.Me)

	api.GET("/user/:id", userController.GetUser)
	api.GET("/post", postController.ListPosts)
	api.GET("/post/:id", postController.GetPost)
	api.GET("/categories", categoryController.ListCategories)
	api.POST("/categories", categoryController.CreateCategory)
	api.POST("/contact", contactController.CreateMessage)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired())
	protected.PUT("/user/:id", userController.UpdateUser)
	protected.DELETE("/user/:id", userController.DeleteUser)
	protected.POST("/post", postController.CreatePost)
	protected.PUT("/post/:id", postController.UpdatePost)
	protected.DELETE("/post/:id", postController.DeletePost)
	protected.GET("/contact", contactController.ListMessages)
	protected.POST("/upload", uploadController.Upload)

	return r, db
}

// doJSON performs a JSON request against the test router. An empty token skips
// the Authorization header.
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// decodeData unmarshals the data field of the standard response envelope.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var resp struct {
		Code    int                    `json:"code"`
		Message string                 `json:"message"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Data
}

// registerAndLogin creates an account and returns its token.
func registerAndLogin(t *testing.T, r *gin.Engine, username, email, password string) string {
	t.Helper()

	rec := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": username,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := decodeData(t, rec)
	token, ok := data["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	return token
}
