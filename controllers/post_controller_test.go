package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpress/inkpress/models"
)

func TestCreatePostRequiresAuth(t *testing.T) {
	r, _ := newTestEnv(t)

	rec := doJSON(t, r, http.MethodPost, "/api/post", "", gin.H{
		"title": "Hello", "content": "world",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreatePostValidation(t *testing.T) {
	r, db := newTestEnv(t)
	token := registerAndLogin(t, r, "bob", "b@x.com", "correctpw")

	rec := doJSON(t, r, http.MethodPost, "/api/post", token, gin.H{
		"content": "missing title",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/api/post", token, gin.H{
		"title": "no body",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreatePostOwnerComesFromToken(t *testing.T) {
	r, db := newTestEnv(t)
	token := registerAndLogin(t, r, "bob", "b@x.com", "correctpw")

	rec := doJSON(t, r, http.MethodPost, "/api/post", token, gin.H{
		"title":      "Hello",
		"content":    "first post",
		"categories": []string{"travel", "Travel", "food"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var post models.Post
	require.NoError(t, db.First(&post).Error)
	assert.Equal(t, "bob", post.Username)

	var names []string
	require.NoError(t, json.Unmarshal([]byte(post.Categories), &names))
	assert.Equal(t, []string{"travel", "food"}, names)

	// Categories are created ad hoc alongside the post
	var catCount int64
	require.NoError(t, db.Model(&models.Category{}).Count(&catCount).Error)
	assert.EqualValues(t, 2, catCount)
}

func TestCreatePostSanitizesHTML(t *testing.T) {
	r, db := newTestEnv(t)
	token := registerAndLogin(t, r, "bob", "b@x.com", "correctpw")

	rec := doJSON(t, r, http.MethodPost, "/api/post", token, gin.H{
		"title":   "<script>alert(1)</script>Safe",
		"content": "<p>fine</p><script>alert(2)</script>",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var post models.Post
	require.NoError(t, db.First(&post).Error)
	assert.Equal(t, "Safe", post.Title)
	assert.NotContains(t, post.Content, "<script>")
	assert.Contains(t, post.Content, "<p>fine</p>")
}

func TestUpdatePostOwnershipGuard(t *testing.T) {
	r, db := newTestEnv(t)
	bobToken := registerAndLogin(t, r, "bob", "b@x.com", "correctpw")
	carolToken := registerAndLogin(t, r, "carol", "c@x.com", "carolpw")

	rec := doJSON(t, r, http.MethodPost, "/api/post", bobToken, gin.H{
		"title": "Hello", "content": "original",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodPut, "/api/post/1", carolToken, gin.H{
		"title": "Hijacked", "content": "changed",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, r, http.MethodPut, "/api/post/1", bobToken, gin.H{
		"title": "Hello v2", "content": "edited",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var post models.Post
	require.NoError(t, db.First(&post, 1).Error)
	assert.Equal(t, "Hello v2", post.Title)
	assert.Equal(t, "edited", post.Content)
}

func TestGetPostNotFound(t *testing.T) {
	r, _ := newTestEnv(t)

	rec := doJSON(t, r, http.MethodGet, "/api/post/12345", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListPostsFilters(t *testing.T) {
	r, _ := newTestEnv(t)
	bobToken := registerAndLogin(t, r, "bob", "b@x.com", "correctpw")
	carolToken := registerAndLogin(t, r, "carol", "c@x.com", "carolpw")

	rec := doJSON(t, r, http.MethodPost, "/api/post", bobToken, gin.H{
		"title": "Bob on travel", "content": "x", "categories": []string{"travel"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, r, http.MethodPost, "/api/post", carolToken, gin.H{
		"title": "Carol on food", "content": "y", "categories": []string{"food"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/api/post?user=bob", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	items := data["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "Bob on travel", items[0].(map[string]interface{})["title"])

	rec = doJSON(t, r, http.MethodGet, "/api/post?category=food", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data = decodeData(t, rec)
	items = data["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "Carol on food", items[0].(map[string]interface{})["title"])

	rec = doJSON(t, r, http.MethodGet, "/api/post?search=Carol", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data = decodeData(t, rec)
	items = data["items"].([]interface{})
	require.Len(t, items, 1)
}

func TestListPostsPagination(t *testing.T) {
	r, _ := newTestEnv(t)
	token := registerAndLogin(t, r, "bob", "b@x.com", "correctpw")

	for i := 0; i < 5; i++ {
		rec := doJSON(t, r, http.MethodPost, "/api/post", token, gin.H{
			"title": "post", "content": "body",
		})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(t, r, http.MethodGet, "/api/post?page=2&page_size=2", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	items := data["items"].([]interface{})
	assert.Len(t, items, 2)

	pagination := data["pagination"].(map[string]interface{})
	assert.EqualValues(t, 5, pagination["total"])
	assert.EqualValues(t, 3, pagination["total_pages"])
}

func TestPostLifecycleEndToEnd(t *testing.T) {
	r, _ := newTestEnv(t)

	bobToken := registerAndLogin(t, r, "bob", "b@x.com", "bobpassword")
	carolToken := registerAndLogin(t, r, "carol", "c@x.com", "carolpassword")

	rec := doJSON(t, r, http.MethodPost, "/api/post", bobToken, gin.H{
		"title": "Hello", "content": "first post",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/api/post?user=bob", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	items := data["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "Hello", items[0].(map[string]interface{})["title"])

	// Carol cannot delete Bob's post
	rec = doJSON(t, r, http.MethodDelete, "/api/post/1", carolToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Bob can
	rec = doJSON(t, r, http.MethodDelete, "/api/post/1", bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/api/post/1", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
