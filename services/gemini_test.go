package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"whatsapp-clinic-bot/config"
)

func newTestGemini(baseURL string) *geminiService {
	return &geminiService{
		client:       &http.Client{Timeout: 5 * time.Second},
		baseURL:      baseURL,
		apiKey:       "test-key",
		model:        "gemini-2.0-flash",
		systemPrompt: config.ClinicSystemPrompt,
	}
}

func geminiTextResponse(text string) string {
	resp := map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"parts": []any{map[string]any{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestGenerateFromText(t *testing.T) {
	var gotPath, gotKey string
	var gotReq generateContentRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(geminiTextResponse("  أهلا بيك  \n")))
	}))
	defer srv.Close()

	g := newTestGemini(srv.URL)
	reply, err := g.Generate(context.Background(), GenerateInput{UserText: "hi"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if reply != "أهلا بيك" {
		t.Errorf("reply = %q, want trimmed text", reply)
	}
	if gotPath != "/v1beta/models/gemini-2.0-flash:generateContent" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("key = %q", gotKey)
	}

	if len(gotReq.Contents) != 1 {
		t.Fatalf("contents = %d, want 1", len(gotReq.Contents))
	}
	parts := gotReq.Contents[0].Parts
	if len(parts) != 2 {
		t.Fatalf("parts = %d, want system prompt + user turn", len(parts))
	}
	if parts[0].Text != config.ClinicSystemPrompt {
		t.Errorf("first part is not the system prompt")
	}
	if parts[1].Text != `User message: "hi"` {
		t.Errorf("user turn = %q", parts[1].Text)
	}
}

func TestGenerateFromAudio(t *testing.T) {
	var gotReq generateContentRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(geminiTextResponse("تمام")))
	}))
	defer srv.Close()

	audio := []byte{0x4f, 0x67, 0x67, 0x53, 0x00}
	g := newTestGemini(srv.URL)
	reply, err := g.Generate(context.Background(), GenerateInput{Audio: audio, MimeType: "audio/ogg"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if reply != "تمام" {
		t.Errorf("reply = %q", reply)
	}

	parts := gotReq.Contents[0].Parts
	if len(parts) != 3 {
		t.Fatalf("parts = %d, want prompt + instruction + blob", len(parts))
	}
	if parts[0].Text != config.ClinicSystemPrompt {
		t.Errorf("first part is not the system prompt")
	}
	if parts[1].Text != config.AudioPromptInstruction {
		t.Errorf("second part = %q, want audio instruction", parts[1].Text)
	}
	if parts[2].InlineData == nil {
		t.Fatal("third part has no inline data")
	}
	if parts[2].InlineData.MimeType != "audio/ogg" {
		t.Errorf("mime type = %q", parts[2].InlineData.MimeType)
	}
	decoded, err := base64.StdEncoding.DecodeString(parts[2].InlineData.Data)
	if err != nil {
		t.Fatalf("inline data is not base64: %v", err)
	}
	if string(decoded) != string(audio) {
		t.Errorf("inline data does not round-trip the audio bytes")
	}
}

func TestGenerateRejectsEmptyInput(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	g := newTestGemini(srv.URL)
	_, err := g.Generate(context.Background(), GenerateInput{})

	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("err = %v, want *GenerationError", err)
	}
	if called {
		t.Error("empty input must not reach the API")
	}
}

func TestGenerateRejectsBothInputs(t *testing.T) {
	g := newTestGemini("http://unused")
	_, err := g.Generate(context.Background(), GenerateInput{
		UserText: "hi",
		Audio:    []byte{1},
		MimeType: "audio/ogg",
	})

	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("err = %v, want *GenerationError", err)
	}
}

func TestGenerateAPIFailure(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{"quota exceeded", `{"error":{"code":429,"status":"RESOURCE_EXHAUSTED"}}`, http.StatusTooManyRequests},
		{"server error", `oops`, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, tt.body, tt.code)
			}))
			defer srv.Close()

			g := newTestGemini(srv.URL)
			_, err := g.Generate(context.Background(), GenerateInput{UserText: "hi"})

			var genErr *GenerationError
			if !errors.As(err, &genErr) {
				t.Fatalf("err = %v, want *GenerationError", err)
			}
		})
	}
}

func TestGenerateBlockedPrompt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer srv.Close()

	g := newTestGemini(srv.URL)
	_, err := g.Generate(context.Background(), GenerateInput{UserText: "hi"})

	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("err = %v, want *GenerationError", err)
	}
}

func TestGenerateEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	g := newTestGemini(srv.URL)
	if _, err := g.Generate(context.Background(), GenerateInput{UserText: "hi"}); err == nil {
		t.Fatal("expected error on empty candidates")
	}
}
