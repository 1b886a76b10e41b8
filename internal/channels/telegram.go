package channels

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/scholarline/scholarline-gobackend/internal/models"
)

// Telegram posts notifications to a chat via the bot API with Markdown
// formatting. Success is any 2xx response.
type Telegram struct {
	client  *http.Client
	baseURL string
	token   string
	chatID  string
}

func NewTelegram(token, chatID string) *Telegram {
	return &Telegram{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: "https://api.telegram.org",
		token:   token,
		chatID:  chatID,
	}
}

func (c *Telegram) Kind() models.ChannelKind {
	return models.ChannelChatBot
}

func (c *Telegram) Deliver(ctx context.Context, n *models.Notification) bool {
	payload := map[string]interface{}{
		"chat_id":    c.chatID,
		"text":       fmt.Sprintf("*%s*\n_%s priority_\n\n%s", n.Title, n.Priority, n.Message),
		"parse_mode": "Markdown",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal telegram request for notification %s: %v", n.ID, err)
		return false
	}

	url := c.baseURL + "/bot" + c.token + "/sendMessage"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		log.Printf("Failed to create telegram request for notification %s: %v", n.ID, err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("Telegram request failed for notification %s: %v", n.ID, err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		respBody, _ := io.ReadAll(resp.Body)
		log.Printf("Telegram API returned status %d for notification %s: %s", resp.StatusCode, n.ID, string(respBody))
		return false
	}
	return true
}
