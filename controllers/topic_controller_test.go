package controllers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTopic(t *testing.T, r *gin.Engine, token, name string) uint {
	t.Helper()
	w := doRequest(r, http.MethodPost, "/api/v1/topics", gin.H{"name": name}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	topic := objField(t, dataMap(t, w), "topic")
	return uint(topic["id"].(float64))
}

func TestCreateTopic_AdminOnly(t *testing.T) {
	r, db := newTestServer(t)
	_, adminToken := seedUser(t, db, "admin")
	_, userToken := seedUser(t, db, "bob")

	w := doRequest(r, http.MethodPost, "/api/v1/topics", gin.H{"name": "go"}, userToken)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 40306, parseResponse(t, w).Code)

	w = doRequest(r, http.MethodPost, "/api/v1/topics", gin.H{"name": "go"}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 40101, parseResponse(t, w).Code)

	w = doRequest(r, http.MethodPost, "/api/v1/topics",
		gin.H{"name": "go", "description": "gophers <i>welcome</i><script>x()</script>"}, adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	topic := objField(t, dataMap(t, w), "topic")
	assert.Equal(t, "go", topic["name"])
	assert.Equal(t, "gophers <i>welcome</i>", topic["description"])

	// Names are unique.
	w = doRequest(r, http.MethodPost, "/api/v1/topics", gin.H{"name": "go"}, adminToken)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 40906, parseResponse(t, w).Code)

	// Whitespace-only and oversized names are rejected.
	w = doRequest(r, http.MethodPost, "/api/v1/topics", gin.H{"name": "   "}, adminToken)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40091, parseResponse(t, w).Code)
	w = doRequest(r, http.MethodPost, "/api/v1/topics", gin.H{"name": strings.Repeat("x", 65)}, adminToken)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40091, parseResponse(t, w).Code)
}

func TestListTopics_CountsStayFresh(t *testing.T) {
	r, db := newTestServer(t)
	_, adminToken := seedUser(t, db, "admin")
	_, userToken := seedUser(t, db, "alice")

	artID := createTopic(t, r, adminToken, "art")
	goID := createTopic(t, r, adminToken, "go")

	post := func(topicID uint, content string) {
		w := doRequest(r, http.MethodPost, "/api/v1/publications",
			gin.H{"content": content, "topic_id": topicID}, userToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	post(goID, "generics in practice")
	post(goID, "error wrapping patterns")
	post(artID, "watercolor basics")

	// The catalog is public, sorted by name, and carries usage counts.
	w := doRequest(r, http.MethodGet, "/api/v1/topics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	items := listField(t, dataMap(t, w), "items")
	require.Len(t, items, 2)
	art := items[0].(map[string]interface{})
	assert.Equal(t, "art", art["name"])
	assert.Equal(t, float64(1), art["publication_count"])
	goTopic := items[1].(map[string]interface{})
	assert.Equal(t, "go", goTopic["name"])
	assert.Equal(t, float64(2), goTopic["publication_count"])

	// New publications show up even though the catalog was just cached.
	post(artID, "oil paint on a budget")
	w = doRequest(r, http.MethodGet, "/api/v1/topics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	items = listField(t, dataMap(t, w), "items")
	require.Len(t, items, 2)
	assert.Equal(t, float64(2), items[0].(map[string]interface{})["publication_count"])
}
