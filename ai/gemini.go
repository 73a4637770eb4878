package ai

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
	defaultModel = "gemini-3-flash-preview"
	endpointFmt  = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"

	// Persona of the in-app assistant: an Iraqi-dialect helper that keeps
	// replies short enough for a chat room.
	systemInstruction = "أنت مساعد ذكي في تطبيق 'شات ريل العراق'. تحدث بلهجة عراقية محببة وودودة. قدم المساعدة للمستخدمين وكن مطلعاً على ثقافة العراق وتاريخه. اجعل ردودك قصيرة ومناسبة لبيئة الدردشة."

	// Shown when the model answers with nothing usable.
	emptyReply = "عذراً، لم أفهم ذلك جيداً. كيف يمكنني مساعدتك؟"
)

// GeminiResponder calls the Generative Language REST API. The caller
// bounds each completion through the context deadline.
type GeminiResponder struct {
	httpClient *http.Client
	log        *slog.Logger
	apiKey     string
	model      string
}

func NewGeminiResponder(apiKey, model string, log *slog.Logger) *GeminiResponder {
	if model == "" {
		model = defaultModel
	}
	if log == nil {
		log = slog.Default()
	}
	return &GeminiResponder{
		httpClient: &http.Client{},
		log:        log,
		apiKey:     apiKey,
		model:      model,
	}
}

type generateRequest struct {
	SystemInstruction content          `json:"system_instruction"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"topP"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (g *GeminiResponder) Complete(ctx context.Context, prompt string) (string, error) {
	payload := generateRequest{
		SystemInstruction: content{Parts: []part{{Text: systemInstruction}}},
		Contents:          []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig:  generationConfig{Temperature: 0.8, TopP: 0.9},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf(endpointFmt, g.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		g.log.Warn("gemini call rejected", "status", resp.StatusCode, "body", string(raw))
		return "", fmt.Errorf("gemini: unexpected status %d", resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("gemini: decoding response: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 ||
		parsed.Candidates[0].Content.Parts[0].Text == "" {
		return emptyReply, nil
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
