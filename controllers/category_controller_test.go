package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndListCategories(t *testing.T) {
	r, _ := newTestEnv(t)

	rec := doJSON(t, r, http.MethodPost, "/api/categories", "", gin.H{"name": "travel"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/api/categories", "", gin.H{"name": "travel"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/api/categories", "", gin.H{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/api/categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	items := data["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "travel", items[0].(map[string]interface{})["name"])
}
