// Package llm holds the LLM clients used by the assistant.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/trezcool/tawjih/core"
	"github.com/trezcool/tawjih/core/assistant"
)

type (
	part struct {
		Text string `json:"text"`
	}

	content struct {
		Role  string `json:"role,omitempty"`
		Parts []part `json:"parts"`
	}

	generateRequest struct {
		Contents []content `json:"contents"`
	}

	generateResponse struct {
		Candidates []struct {
			Content      content `json:"content"`
			FinishReason string  `json:"finishReason"`
		} `json:"candidates"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
)

// GeminiClient calls the `generateContent` method of the Gemini API.
type GeminiClient struct {
	client  *rest.Client
	baseURL string
	model   string
	key     string
	timeout time.Duration
}

var _ assistant.LLM = (*GeminiClient)(nil)

// NewGeminiClient fails when the API key, base URL or model is missing.
func NewGeminiClient(conf core.AssistantConfig) (*GeminiClient, error) {
	err := vala.BeginValidation().Validate(
		vala.StringNotEmpty(conf.GeminiAPIKey, "GeminiAPIKey"),
		vala.StringNotEmpty(conf.GeminiBaseURL, "GeminiBaseURL"),
		vala.StringNotEmpty(conf.GeminiModel, "GeminiModel"),
	).Check()
	if err != nil {
		return nil, errors.Wrap(err, "llm.NewGeminiClient")
	}
	return &GeminiClient{
		client:  &rest.Client{HTTPClient: &http.Client{}},
		baseURL: strings.TrimRight(conf.GeminiBaseURL, "/"),
		model:   conf.GeminiModel,
		key:     conf.GeminiAPIKey,
		timeout: conf.Timeout,
	}, nil
}

func (c *GeminiClient) endpoint() string {
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
}

// Generate returns the text of the first candidate.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", errors.Wrap(err, "encoding gemini request")
	}

	res, err := c.client.SendWithContext(ctx, rest.Request{
		Method:      rest.Post,
		BaseURL:     c.endpoint(),
		Headers:     map[string]string{"Content-Type": "application/json"},
		QueryParams: map[string]string{"key": c.key},
		Body:        body,
	})
	if err != nil {
		return "", errors.Wrap(err, "calling gemini")
	}

	var gr generateResponse
	if err = json.Unmarshal([]byte(res.Body), &gr); err != nil {
		return "", errors.Wrapf(err, "decoding gemini response (status %d)", res.StatusCode)
	}
	if res.StatusCode >= http.StatusBadRequest {
		if gr.Error != nil {
			return "", errors.Errorf("gemini: %d %s: %s", gr.Error.Code, gr.Error.Status, gr.Error.Message)
		}
		return "", errors.Errorf("gemini: status %d", res.StatusCode)
	}

	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", assistant.ErrEmptyAnswer
	}
	text := gr.Candidates[0].Content.Parts[0].Text
	if strings.TrimSpace(text) == "" {
		return "", assistant.ErrEmptyAnswer
	}
	return text, nil
}
