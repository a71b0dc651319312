package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goaltrack/backend/internal/model"
	"github.com/google/uuid"
)

type SuggestionClient interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type goalReader interface {
	GetGoalsByUser(ctx context.Context, userID uuid.UUID) ([]model.Goal, error)
}

// SuggestionService asks the LLM for one concrete task suggestion based
// on the user's open goals. The model is treated as an opaque service;
// any failure surfaces as an internal error to the caller.
type SuggestionService struct {
	goals  goalReader
	client SuggestionClient
}

func NewSuggestionService(goals goalReader, client SuggestionClient) *SuggestionService {
	return &SuggestionService{goals: goals, client: client}
}

const suggestPrompt = `You are a productivity assistant. The user has these active goals:
%s
Suggest exactly one small, concrete task the user could do today to make progress.
Do not repeat a goal verbatim; be specific rather than generic, and answer in the
same language as the goals. Respond with only a JSON object of the form
{"content": "...", "duration": "30 minutes"}.`

func (s *SuggestionService) SuggestTask(ctx context.Context, userID uuid.UUID) (*model.TaskSuggestion, error) {
	goals, err := s.goals.GetGoalsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	open := make([]string, 0, len(goals))
	for _, g := range goals {
		if g.CompletedAt == nil {
			open = append(open, "- "+g.Content)
		}
	}
	if len(open) == 0 {
		open = append(open, "- (no goals yet; suggest a task about setting a first goal)")
	}

	raw, err := s.client.GenerateText(ctx, fmt.Sprintf(suggestPrompt, strings.Join(open, "\n")))
	if err != nil {
		return nil, err
	}

	suggestion, err := parseSuggestion(raw)
	if err != nil {
		return nil, err
	}
	return suggestion, nil
}

// parseSuggestion tolerates markdown fences and surrounding prose around
// the JSON object the prompt asks for.
func parseSuggestion(raw string) (*model.TaskSuggestion, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("unparseable suggestion: %q", raw)
	}

	var suggestion model.TaskSuggestion
	if err := json.Unmarshal([]byte(raw[start:end+1]), &suggestion); err != nil {
		return nil, fmt.Errorf("unparseable suggestion: %w", err)
	}
	if suggestion.Content == "" {
		return nil, fmt.Errorf("empty suggestion content")
	}
	return &suggestion, nil
}
