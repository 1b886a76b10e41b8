package channels

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/scholarline/scholarline-gobackend/internal/models"
)

var emailTemplate = template.Must(template.New("notification").Parse(`<html>
<body style="font-family: Arial, sans-serif; color: #1f2933;">
  <h2 style="margin-bottom: 4px;">{{.Title}}</h2>
  <p style="color: #616e7c; margin-top: 0;">Priority: {{.Priority}}</p>
  <p>{{.Message}}</p>
  <hr style="border: none; border-top: 1px solid #e4e7eb;">
  <p style="font-size: 12px; color: #9aa5b1;">Sent {{.CreatedAt.Format "Jan 2, 2006 15:04 MST"}}</p>
</body>
</html>`))

// Email delivers notifications through a transactional email API. Any
// non-2xx response or transport error is a failed delivery, never an error
// surfaced to the dispatcher.
type Email struct {
	client *http.Client
	apiURL string
	apiKey string
	from   string
	to     string
}

func NewEmail(apiURL, apiKey, from, to string) *Email {
	return &Email{
		client: &http.Client{Timeout: 10 * time.Second},
		apiURL: apiURL,
		apiKey: apiKey,
		from:   from,
		to:     to,
	}
}

func (c *Email) Kind() models.ChannelKind {
	return models.ChannelEmail
}

func (c *Email) Deliver(ctx context.Context, n *models.Notification) bool {
	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, n); err != nil {
		log.Printf("Failed to render email for notification %s: %v", n.ID, err)
		return false
	}

	payload := map[string]interface{}{
		"from":    c.from,
		"to":      []string{c.to},
		"subject": fmt.Sprintf("[%s] %s", strings.ToUpper(string(n.Priority)), n.Title),
		"html":    buf.String(),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal email request for notification %s: %v", n.ID, err)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL, bytes.NewBuffer(body))
	if err != nil {
		log.Printf("Failed to create email request for notification %s: %v", n.ID, err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("Email request failed for notification %s: %v", n.ID, err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		respBody, _ := io.ReadAll(resp.Body)
		log.Printf("Email API returned status %d for notification %s: %s", resp.StatusCode, n.ID, string(respBody))
		return false
	}
	return true
}
