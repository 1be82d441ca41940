package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sixcities/internal/domain"
	"sixcities/internal/logger"
	"sixcities/internal/metrics"
	"sixcities/internal/tokenstore"
)

func newTestClient(t *testing.T, r *gin.Engine, tokens TokenStorage) *Client {
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return NewClient(tokens, Options{
		BaseURL: srv.URL,
		Logger:  logger.Discard(),
		Metrics: metrics.New(prometheus.NewRegistry()),
	})
}

func init() {
	gin.SetMode(gin.TestMode)
}

func TestClient_AttachesToken(t *testing.T) {
	var seen string
	r := gin.New()
	r.GET("/offers", func(c *gin.Context) {
		seen = c.GetHeader(TokenHeader)
		c.JSON(http.StatusOK, []gin.H{{"id": "1", "title": "Offer 1", "price": 100, "previewImage": "img1.jpg"}})
	})

	tokens := tokenstore.NewMemory()
	require.NoError(t, tokens.SetToken(context.Background(), "token123"))
	client := newTestClient(t, r, tokens)

	offers, err := client.Offers(context.Background())
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, "token123", seen)
	assert.Equal(t, domain.KindSummary, offers[0].Kind())
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	present := true
	r := gin.New()
	r.GET("/offers", func(c *gin.Context) {
		_, present = c.Request.Header[TokenHeader]
		c.JSON(http.StatusOK, []gin.H{})
	})

	client := newTestClient(t, r, tokenstore.NewMemory())
	_, err := client.Offers(context.Background())
	require.NoError(t, err)
	assert.False(t, present)
}

func TestClient_UnauthorizedEvictsToken(t *testing.T) {
	r := gin.New()
	r.GET("/favorite", func(c *gin.Context) {
		c.JSON(http.StatusUnauthorized, gin.H{"errorType": "COMMON_ERROR", "message": "Unauthorized"})
	})

	tokens := tokenstore.NewMemory()
	require.NoError(t, tokens.SetToken(context.Background(), "stale"))
	client := newTestClient(t, r, tokens)

	_, err := client.Favorites(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "Unauthorized", err.Error())

	token, _ := tokens.Token(context.Background())
	assert.Empty(t, token)
}

func TestClient_OtherErrorsKeepToken(t *testing.T) {
	r := gin.New()
	r.GET("/offers/:id", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	tokens := tokenstore.NewMemory()
	require.NoError(t, tokens.SetToken(context.Background(), "valid"))
	client := newTestClient(t, r, tokens)

	_, err := client.Offer(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, StatusCode(err))
	assert.Equal(t, "request failed with status code 404", err.Error())

	token, _ := tokens.Token(context.Background())
	assert.Equal(t, "valid", token)
}

func TestClient_SetFavorite(t *testing.T) {
	var path string
	r := gin.New()
	r.POST("/favorite/:id/:status", func(c *gin.Context) {
		path = c.Request.URL.Path
		c.JSON(http.StatusOK, gin.H{
			"id": c.Param("id"), "title": "Offer", "isFavorite": c.Param("status") == "1",
			"description": "Quiet", "host": gin.H{"name": "Angelina"}, "images": []string{"a.jpg"},
		})
	})

	client := newTestClient(t, r, tokenstore.NewMemory())

	offer, err := client.SetFavorite(context.Background(), "abc", true)
	require.NoError(t, err)
	assert.Equal(t, "/favorite/abc/1", path)
	assert.True(t, offer.IsFavorite)
	assert.Equal(t, domain.KindDetailed, offer.Kind())

	offer, err = client.SetFavorite(context.Background(), "abc", false)
	require.NoError(t, err)
	assert.Equal(t, "/favorite/abc/0", path)
	assert.False(t, offer.IsFavorite)
}

func TestClient_PostCommentAndLogin(t *testing.T) {
	var body struct {
		Comment string `json:"comment"`
		Rating  int    `json:"rating"`
	}
	r := gin.New()
	r.POST("/comments/:id", func(c *gin.Context) {
		_ = c.ShouldBindJSON(&body)
		c.JSON(http.StatusCreated, gin.H{"id": "r1", "comment": body.Comment, "rating": body.Rating, "date": "2024-01-03T00:00:00.000Z", "user": gin.H{"name": "Bob"}})
	})
	r.POST("/login", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"name": "John", "email": "john@example.com", "avatarUrl": "a.jpg", "isPro": false, "token": "token123"})
	})
	r.DELETE("/logout", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	client := newTestClient(t, r, tokenstore.NewMemory())

	review, err := client.PostComment(context.Background(), "1", "Lovely", 4)
	require.NoError(t, err)
	assert.Equal(t, "Lovely", body.Comment)
	assert.Equal(t, 4, body.Rating)
	assert.Equal(t, "r1", review.ID)
	assert.Equal(t, "Bob", review.User.Name)

	info, err := client.Login(context.Background(), "john@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "token123", info.Token)
	assert.Equal(t, "John", info.Profile().Name)

	assert.NoError(t, client.Logout(context.Background()))
}

func TestClient_Timeout(t *testing.T) {
	r := gin.New()
	r.GET("/offers", func(c *gin.Context) {
		time.Sleep(300 * time.Millisecond)
		c.JSON(http.StatusOK, []gin.H{})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	client := NewClient(tokenstore.NewMemory(), Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond, Logger: logger.Discard()})
	_, err := client.Offers(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, StatusCode(err))
}

func TestClient_ValidationErrorDetails(t *testing.T) {
	r := gin.New()
	r.POST("/comments/:id", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{
			"errorType": "VALIDATION_ERROR",
			"message":   "Validation error: /comments/1",
			"details":   []gin.H{{"property": "comment", "value": "short", "messages": []string{"comment must be longer than or equal to 50 characters"}}},
		})
	})

	client := newTestClient(t, r, tokenstore.NewMemory())
	_, err := client.PostComment(context.Background(), "1", "short", 4)
	require.Error(t, err)

	apiErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Type)
	require.Len(t, apiErr.Details, 1)
	assert.Equal(t, "comment", apiErr.Details[0].Property)
}
