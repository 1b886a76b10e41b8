package channels

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTelegramDeliverSuccess(t *testing.T) {
	var path string
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewTelegram("bot-token", "-100123")
	c.baseURL = srv.URL
	assert.True(t, c.Deliver(context.Background(), testNotification()))

	assert.Equal(t, "/botbot-token/sendMessage", path)
	assert.Equal(t, "-100123", got["chat_id"])
	assert.Equal(t, "Markdown", got["parse_mode"])
	assert.Contains(t, got["text"], "*Payment completed*")
}

func TestTelegramDeliverNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewTelegram("bot-token", "-100123")
	c.baseURL = srv.URL
	assert.False(t, c.Deliver(context.Background(), testNotification()))
}

func TestTelegramDeliverUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewTelegram("bot-token", "-100123")
	c.baseURL = srv.URL
	assert.False(t, c.Deliver(context.Background(), testNotification()))
}
