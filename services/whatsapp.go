package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"whatsapp-clinic-bot/config"
)

// WhatsAppService talks to the WhatsApp Cloud API: sending text replies and
// resolving media attachments to their bytes.
type WhatsAppService interface {
	SendText(ctx context.Context, to, body string) error
	FetchMedia(ctx context.Context, mediaID string) ([]byte, string, error)
}

type graphClient struct {
	client        *http.Client
	baseURL       string
	token         string
	phoneNumberID string
}

// NewWhatsAppService builds a Graph API client from the loaded configuration.
func NewWhatsAppService(cfg *config.Config) WhatsAppService {
	return &graphClient{
		client:        &http.Client{Timeout: 10 * time.Second},
		baseURL:       cfg.GraphBaseURL,
		token:         cfg.WhatsAppToken,
		phoneNumberID: cfg.PhoneNumberID,
	}
}

// sendMessageRequest is the fixed-shape body of the Cloud API send endpoint.
type sendMessageRequest struct {
	MessagingProduct string          `json:"messaging_product"`
	To               string          `json:"to"`
	Type             string          `json:"type"`
	Text             sendMessageText `json:"text"`
}

type sendMessageText struct {
	Body string `json:"body"`
}

// SendText posts a text message to the sender. Failures are returned as
// *SendError; the caller decides whether anyone is left to notify.
func (g *graphClient) SendText(ctx context.Context, to, body string) error {
	url := fmt.Sprintf("%s/%s/messages", g.baseURL, g.phoneNumberID)

	payload := sendMessageRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             sendMessageText{Body: body},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return &SendError{To: to, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return &SendError{To: to, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+g.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return &SendError{To: to, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		slog.Error("Failed to send WhatsApp message", "status", resp.StatusCode, "body", string(respBody))
		return &SendError{To: to, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	slog.Info("Message sent", "to", to)
	return nil
}

// mediaInfo is the metadata the Graph API returns for a media ID. The URL is
// short-lived and must be fetched with the same bearer token.
type mediaInfo struct {
	URL      string `json:"url"`
	MimeType string `json:"mime_type"`
}

// FetchMedia resolves a media ID to its download URL, then downloads the
// binary content. Returns the bytes and the declared MIME type.
func (g *graphClient) FetchMedia(ctx context.Context, mediaID string) ([]byte, string, error) {
	info, err := g.getMediaInfo(ctx, mediaID)
	if err != nil {
		return nil, "", &MediaFetchError{MediaID: mediaID, Err: err}
	}
	if info.URL == "" {
		return nil, "", &MediaFetchError{MediaID: mediaID, Err: fmt.Errorf("no download URL in media metadata")}
	}

	data, err := g.downloadMedia(ctx, info.URL)
	if err != nil {
		return nil, "", &MediaFetchError{MediaID: mediaID, Err: err}
	}

	slog.Info("Downloaded media", "mediaID", mediaID, "bytes", len(data), "mimeType", info.MimeType)
	return data, info.MimeType, nil
}

func (g *graphClient) getMediaInfo(ctx context.Context, mediaID string) (*mediaInfo, error) {
	url := fmt.Sprintf("%s/%s", g.baseURL, mediaID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.token)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("media metadata request failed: %s", resp.Status)
	}

	var info mediaInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (g *graphClient) downloadMedia(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	// The download URL is not self-authorizing; it needs the bearer token too.
	req.Header.Set("Authorization", "Bearer "+g.token)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("media download failed: %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}
