package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpress/inkpress/models"
)

func TestContactMissingFieldPersistsNothing(t *testing.T) {
	r, db := newTestEnv(t)

	rec := doJSON(t, r, http.MethodPost, "/api/contact", "", gin.H{
		"name":    "Visitor",
		"email":   "v@x.com",
		"message": "hi there",
		// subject missing
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var count int64
	require.NoError(t, db.Model(&models.ContactMessage{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestContactSubmissionStored(t *testing.T) {
	r, db := newTestEnv(t)

	rec := doJSON(t, r, http.MethodPost, "/api/contact", "", gin.H{
		"name":    "Visitor",
		"email":   "v@x.com",
		"subject": "Hello",
		"message": "hi there",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var msg models.ContactMessage
	require.NoError(t, db.First(&msg).Error)
	assert.Equal(t, "Visitor", msg.Name)
	assert.Equal(t, "Hello", msg.Subject)
	assert.Equal(t, "hi there", msg.Message)
}

func TestContactListingAdminOnly(t *testing.T) {
	r, _ := newTestEnv(t)

	rec := doJSON(t, r, http.MethodPost, "/api/contact", "", gin.H{
		"name": "Visitor", "email": "v@x.com", "subject": "Hello", "message": "hi",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Unauthenticated
	rec = doJSON(t, r, http.MethodGet, "/api/contact", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Authenticated but not in the admin list
	userToken := registerAndLogin(t, r, "bob", "b@x.com", "correctpw")
	rec = doJSON(t, r, http.MethodGet, "/api/contact", userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Admin (ADMIN_USERNAMES=admin in TestMain)
	adminToken := registerAndLogin(t, r, "admin", "admin@x.com", "adminpw")
	rec = doJSON(t, r, http.MethodGet, "/api/contact", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	items := data["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "Hello", items[0].(map[string]interface{})["subject"])
}
