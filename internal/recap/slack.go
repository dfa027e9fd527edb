package recap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Poster delivers recap text somewhere.
type Poster interface {
	Post(ctx context.Context, text string) error
}

// SlackPoster posts to a Slack incoming webhook.
type SlackPoster struct {
	webhookURL string
	client     *http.Client
}

func NewSlackPoster(webhookURL string) (*SlackPoster, error) {
	if webhookURL == "" {
		return nil, errors.New("slack webhook not configured")
	}
	return &SlackPoster{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 15 * time.Second},
	}, nil
}

type slackMessage struct {
	Text string `json:"text"`
}

func (p *SlackPoster) Post(ctx context.Context, text string) error {
	body, err := json.Marshal(slackMessage{Text: text})
	if err != nil {
		return fmt.Errorf("encoding slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("slack webhook error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("slack webhook %d: %s", resp.StatusCode, string(b))
	}
	return nil
}
