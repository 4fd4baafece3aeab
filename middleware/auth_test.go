package middleware_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dimas0315/AI-Social-Platform/middleware"
	"github.com/dimas0315/AI-Social-Platform/utils"
)

func probeRouter() *gin.Engine {
	r := gin.New()
	r.GET("/probe", middleware.AuthRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":  c.MustGet(middleware.ContextUserIDKey),
			"username": c.MustGet(middleware.ContextUsernameKey),
		})
	})
	return r
}

func TestAuthRequired_RejectsBadHeaders(t *testing.T) {
	r := probeRouter()

	cases := []struct {
		name   string
		header string
		code   int
	}{
		{"missing header", "", 40101},
		{"wrong scheme", "Token abc", 40102},
		{"scheme without token", "Bearer ", 40103},
		{"garbage token", "Bearer not-a-jwt", 40105},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := map[string]string{}
			if tc.header != "" {
				h["Authorization"] = tc.header
			}
			w := perform(r, http.MethodGet, "/probe", h)
			require.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tc.code, envelopeCode(t, w))
		})
	}
}

func TestAuthRequired_AcceptsValidToken(t *testing.T) {
	r := probeRouter()

	token, err := utils.GenerateToken(42, "tester", time.Hour)
	require.NoError(t, err)

	w := perform(r, http.MethodGet, "/probe", map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		UserID   uint   `json:"user_id"`
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint(42), resp.UserID)
	assert.Equal(t, "tester", resp.Username)

	// The scheme comparison is case-insensitive.
	w = perform(r, http.MethodGet, "/probe", map[string]string{"Authorization": "bearer " + token})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRequired_RejectsExpiredToken(t *testing.T) {
	r := probeRouter()

	token, err := utils.GenerateToken(42, "tester", -time.Minute)
	require.NoError(t, err)

	w := perform(r, http.MethodGet, "/probe", map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 40105, envelopeCode(t, w))
}

func TestAuthRequired_RejectsRevokedToken(t *testing.T) {
	r := probeRouter()

	token, err := utils.GenerateToken(7, "quitter", time.Hour)
	require.NoError(t, err)
	utils.BlacklistToken(token, time.Now().Add(time.Hour))

	w := perform(r, http.MethodGet, "/probe", map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 40104, envelopeCode(t, w))
}
