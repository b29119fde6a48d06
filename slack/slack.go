package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"nutrilookup"
)

// Client posts messages to a Slack incoming webhook.
type Client struct {
	webhookURL string
	httpClient nutrilookup.HTTPClient
}

func NewClient(webhookURL string, httpClient nutrilookup.HTTPClient) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: httpClient,
	}
}

func (c *Client) PostMessage(ctx context.Context, channel string, message string) error {
	payload, err := json.Marshal(map[string]any{
		"channel": channel,
		"text":    message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to post message: %s", resp.Status)
	}

	return nil
}

// FormatSuggestions renders suggestions as a numbered Slack message under a bold title.
func FormatSuggestions(title string, suggestions []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n", title)
	if len(suggestions) == 0 {
		b.WriteString("_No suggestions today. You are on track._")
		return b.String()
	}
	for i, s := range suggestions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	return strings.TrimRight(b.String(), "\n")
}

// PostSuggestions formats suggestions and sends them through client.
func PostSuggestions(ctx context.Context, client nutrilookup.SlackClient, channel, title string, suggestions []string) error {
	if err := client.PostMessage(ctx, channel, FormatSuggestions(title, suggestions)); err != nil {
		return fmt.Errorf("post suggestions: %w", err)
	}
	slog.Info("SLACK: Suggestions posted", "channel", channel, "count", len(suggestions))
	return nil
}
