// AngelaMos | 2026
// sender.go

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

const (
	DefaultExpoURL       = "https://exp.host/--/api/v2/push/send"
	maxExpoResponseBytes = 1 << 16
)

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ExpoSender delivers messages through the Expo push API.
type ExpoSender struct {
	url         string
	accessToken string
	client      *http.Client
}

func NewExpoSender(url, accessToken string, client *http.Client) *ExpoSender {
	if url == "" {
		url = DefaultExpoURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &ExpoSender{url: url, accessToken: accessToken, client: client}
}

type expoTicket struct {
	Data struct {
		Status  string         `json:"status"`
		ID      string         `json:"id"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"data"`
}

func (s *ExpoSender) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode push: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if s.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.accessToken)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // body is fully read

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxExpoResponseBytes))
	if err != nil {
		return fmt.Errorf("read push response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("push rejected: status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var ticket expoTicket
	if err := json.Unmarshal(body, &ticket); err != nil {
		return fmt.Errorf("decode push ticket: %w", err)
	}

	if ticket.Data.Status == "error" {
		return fmt.Errorf("push ticket error: %s", ticket.Data.Message)
	}

	return nil
}

// LogSender only logs messages. Used in development.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.InfoContext(ctx, "push notification",
		"title", msg.Title,
		"body", msg.Body,
		"type", msg.Data["type"],
	)
	return nil
}

var (
	_ Sender = (*ExpoSender)(nil)
	_ Sender = (*LogSender)(nil)
)
