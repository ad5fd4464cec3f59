package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"whatsapp-clinic-bot/config"
)

// GenerateInput carries exactly one of a user text message or an audio blob
// with its MIME type. Supplying neither (or both) is a caller bug.
type GenerateInput struct {
	UserText string
	Audio    []byte
	MimeType string
}

// ReplyGenerator produces the reply text for one inbound message.
type ReplyGenerator interface {
	Generate(ctx context.Context, in GenerateInput) (string, error)
}

type geminiService struct {
	client       *http.Client
	baseURL      string
	apiKey       string
	model        string
	systemPrompt string
}

// NewReplyGenerator builds a Gemini client with the clinic persona prompt.
func NewReplyGenerator(cfg *config.Config) ReplyGenerator {
	return &geminiService{
		client:       &http.Client{Timeout: 45 * time.Second},
		baseURL:      cfg.GeminiBaseURL,
		apiKey:       cfg.GeminiAPIKey,
		model:        cfg.GeminiModel,
		systemPrompt: config.ClinicSystemPrompt,
	}
}

// generateContentRequest mirrors the v1beta generateContent body: a single
// user turn whose parts are ordered text and inline binary blobs.
type generateContentRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// Generate invokes Gemini once, synchronously, and returns the trimmed text
// of the first candidate. Every failure mode, including safety blocks and
// empty candidate lists, comes back as a *GenerationError.
func (g *geminiService) Generate(ctx context.Context, in GenerateInput) (string, error) {
	parts, err := g.buildParts(in)
	if err != nil {
		return "", err
	}

	requestBody := generateContentRequest{
		Contents: []geminiContent{{Parts: parts}},
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", &GenerationError{Reason: "encode request", Err: err}
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", &GenerationError{Reason: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		if os.IsTimeout(err) || strings.Contains(err.Error(), "deadline exceeded") {
			slog.Error("Gemini API timeout", "error", err)
			return "", &GenerationError{Reason: "timeout", Err: err}
		}
		return "", &GenerationError{Reason: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &GenerationError{Reason: "read response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		slog.Error("Gemini API error", "status", resp.StatusCode, "body", string(body))
		return "", &GenerationError{Reason: fmt.Sprintf("unexpected status %s", resp.Status)}
	}

	var genResp generateContentResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", &GenerationError{Reason: "decode response", Err: err}
	}

	if genResp.PromptFeedback.BlockReason != "" {
		return "", &GenerationError{Reason: "blocked: " + genResp.PromptFeedback.BlockReason}
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", &GenerationError{Reason: "no response content"}
	}

	text := strings.TrimSpace(genResp.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", &GenerationError{Reason: "empty response text"}
	}
	return text, nil
}

// buildParts orders the request: system prompt first, then either the quoted
// user turn or the audio instruction followed by the raw blob.
func (g *geminiService) buildParts(in GenerateInput) ([]geminiPart, error) {
	hasText := in.UserText != ""
	hasAudio := len(in.Audio) > 0

	switch {
	case hasText && hasAudio:
		return nil, &GenerationError{Reason: "both text and audio supplied"}
	case hasText:
		return []geminiPart{
			{Text: g.systemPrompt},
			{Text: fmt.Sprintf("User message: %q", in.UserText)},
		}, nil
	case hasAudio:
		return []geminiPart{
			{Text: g.systemPrompt},
			{Text: config.AudioPromptInstruction},
			{InlineData: &geminiInlineData{
				MimeType: in.MimeType,
				Data:     base64.StdEncoding.EncodeToString(in.Audio),
			}},
		}, nil
	default:
		return nil, &GenerationError{Reason: "neither text nor audio supplied"}
	}
}
