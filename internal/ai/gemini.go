package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"anamny_backend/internal/logger"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// systemInstruction - фиксированная инструкция ассистента-врача
const systemInstruction = `You are an AI doctor who helps detect and prevent diseases.
Based on the patient's symptoms and other diseases, tell him what's wrong with him.
Recommend the necessary tests and which doctor he needs to visit in reality.
If you don't have enough data, ask the patient for it.

Important: Always remind users that you are providing general information only and
that they should consult with a healthcare professional for proper diagnosis and treatment.`

var ErrMissingAPIKey = errors.New("AI API key is not configured")

// GeminiClient - клиент generativelanguage REST API.
// Один запрос на сообщение, без ретраев и rate-limiting.
type GeminiClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewGeminiClient(apiKey, model, baseURL string) *GeminiClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &GeminiClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (g *GeminiClient) Model() string {
	return g.model
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type generateContentRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateReply отправляет сообщение модели и возвращает текст ответа
func (g *GeminiClient) GenerateReply(ctx context.Context, req Request) (string, error) {
	if g.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	body := generateContentRequest{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: systemInstruction}},
		},
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: req.Message}}},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	logger.CtxDebug(ctx, "calling AI provider",
		"model", g.model,
		"user_id", req.UserID,
		"session_id", req.SessionID,
	)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed generateContentResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode provider response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("provider returned %d: %s", resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("provider returned %d", resp.StatusCode)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("provider returned no candidates")
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
