// Package extraction turns free-form technician narration into structured
// work-order fields using the Gemini API.
package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	workorder "easypcm_backend/internal/workorder/service"
	"easypcm_backend/platform/apperr"
	"easypcm_backend/platform/config"
	"easypcm_backend/platform/logger"
)

type Service struct {
	client *genai.Client
	model  string
	logger *logger.Logger
}

func NewService(ctx context.Context, cfg config.AIConfig, log *logger.Logger) (*Service, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GetGeminiAPIKey(),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Service{client: client, model: cfg.GetGeminiModel(), logger: log}, nil
}

// Extract asks the model for the ten structured fields and re-normalizes
// the answer. No partial result is ever returned: either the response
// parses to a JSON object or the narration is rejected.
func (s *Service) Extract(ctx context.Context, text string) (workorder.ExtractedFields, error) {
	const op = "extraction.Extract"

	resp, err := s.client.Models.GenerateContent(ctx, s.model,
		genai.Text(fmt.Sprintf(userPromptTemplate, text)),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
			ResponseMIMEType:  "application/json",
		},
	)
	if err != nil {
		return workorder.ExtractedFields{}, apperr.Wrap(apperr.KindInternal, "extração indisponível", err).WithOp(op)
	}

	payload := strings.TrimSpace(resp.Text())
	// Belt and braces: some models wrap JSON in a fenced block even when
	// told not to.
	payload = strings.TrimPrefix(payload, "```json")
	payload = strings.TrimPrefix(payload, "```")
	payload = strings.TrimSuffix(payload, "```")

	var raw map[string]any
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		s.logger.Error("extraction returned non-object output", "error", err, "model", s.model)
		return workorder.ExtractedFields{}, apperr.Wrap(apperr.KindInternal, "resposta da extração inválida", err).WithOp(op)
	}
	return FromRaw(raw), nil
}
