package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gin-gonic/gin"

	"github.com/dimas0315/AI-Social-Platform/models"
)

func TestListNotifications_NewestFirstWithUnreadCount(t *testing.T) {
	r, db := newTestServer(t)
	_, tokenA := seedUser(t, db, "alice")
	_, tokenB := seedUser(t, db, "bob")

	pubID := createPublication(t, r, tokenA, "morning thoughts")

	// Comment, like and share each land in alice's inbox.
	w := doRequest(r, http.MethodPost, fmt.Sprintf("/api/v1/publications/%d/comments", pubID),
		gin.H{"content": "nice one"}, tokenB)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = doRequest(r, http.MethodPost, fmt.Sprintf("/api/v1/publications/%d/like", pubID), nil, tokenB)
	require.Equal(t, http.StatusOK, w.Code)
	w = doRequest(r, http.MethodPost, fmt.Sprintf("/api/v1/publications/%d/share", pubID), nil, tokenB)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodGet, "/api/v1/notifications", nil, tokenA)
	require.Equal(t, http.StatusOK, w.Code)
	data := dataMap(t, w)
	assert.Equal(t, float64(3), data["unread_count"])
	items := listField(t, data, "items")
	require.Len(t, items, 3)

	newest := items[0].(map[string]interface{})
	assert.Equal(t, models.NotificationShare, newest["type"])
	assert.Equal(t, "bob", objField(t, newest, "actor")["username"])
	assert.Equal(t, false, newest["is_read"])
	oldest := items[2].(map[string]interface{})
	assert.Equal(t, models.NotificationComment, oldest["type"])

	// The actor has nothing in their own inbox.
	w = doRequest(r, http.MethodGet, "/api/v1/notifications", nil, tokenB)
	require.Equal(t, http.StatusOK, w.Code)
	data = dataMap(t, w)
	assert.Equal(t, float64(0), data["unread_count"])
	assert.Len(t, listField(t, data, "items"), 0)
}

func TestMarkNotificationRead(t *testing.T) {
	r, db := newTestServer(t)
	userA, tokenA := seedUser(t, db, "alice")
	_, tokenB := seedUser(t, db, "bob")

	pubID := createPublication(t, r, tokenA, "hello")
	w := doRequest(r, http.MethodPost, fmt.Sprintf("/api/v1/publications/%d/like", pubID), nil, tokenB)
	require.Equal(t, http.StatusOK, w.Code)

	var notif models.Notification
	require.NoError(t, db.Where("recipient_id = ?", userA.ID).First(&notif).Error)

	// Someone else's notification is off limits.
	w = doRequest(r, http.MethodPatch, fmt.Sprintf("/api/v1/notifications/%d/read", notif.ID), nil, tokenB)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 40305, parseResponse(t, w).Code)

	w = doRequest(r, http.MethodPatch, fmt.Sprintf("/api/v1/notifications/%d/read", notif.ID), nil, tokenA)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, objField(t, dataMap(t, w), "notification")["is_read"])

	// Marking twice is harmless.
	w = doRequest(r, http.MethodPatch, fmt.Sprintf("/api/v1/notifications/%d/read", notif.ID), nil, tokenA)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, objField(t, dataMap(t, w), "notification")["is_read"])

	w = doRequest(r, http.MethodGet, "/api/v1/notifications", nil, tokenA)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), dataMap(t, w)["unread_count"])

	w = doRequest(r, http.MethodPatch, "/api/v1/notifications/99999/read", nil, tokenA)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 40423, parseResponse(t, w).Code)
}

func TestMarkAllNotificationsRead(t *testing.T) {
	r, db := newTestServer(t)
	_, tokenA := seedUser(t, db, "alice")
	_, tokenB := seedUser(t, db, "bob")

	pubID := createPublication(t, r, tokenA, "busy day")
	w := doRequest(r, http.MethodPost, fmt.Sprintf("/api/v1/publications/%d/comments", pubID),
		gin.H{"content": "first"}, tokenB)
	require.Equal(t, http.StatusOK, w.Code)
	w = doRequest(r, http.MethodPost, fmt.Sprintf("/api/v1/publications/%d/like", pubID), nil, tokenB)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodPost, "/api/v1/notifications/read-all", nil, tokenA)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), dataMap(t, w)["updated"])

	w = doRequest(r, http.MethodGet, "/api/v1/notifications", nil, tokenA)
	require.Equal(t, http.StatusOK, w.Code)
	data := dataMap(t, w)
	assert.Equal(t, float64(0), data["unread_count"])
	for _, raw := range listField(t, data, "items") {
		item := raw.(map[string]interface{})
		assert.Equal(t, true, item["is_read"])
	}

	// Nothing left to update on a second call.
	w = doRequest(r, http.MethodPost, "/api/v1/notifications/read-all", nil, tokenA)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), dataMap(t, w)["updated"])
}
