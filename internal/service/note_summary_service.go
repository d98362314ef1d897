package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/mbruno/notekeep-website/internal/domain"
	"github.com/mbruno/notekeep-website/internal/llm"
	"github.com/mbruno/notekeep-website/internal/repository"
)

const summarySystemPrompt = "You are a helpful assistant that summarizes notes. " +
	"Return your response in markdown only. Create a concise summary of the following notes:"

// NoteSummaryService produces a markdown summary of a user's notes through
// the chat model.
type NoteSummaryService struct {
	notes repository.OwnedRepository[domain.Note, *domain.Note]
	model *llm.Client
}

func NewNoteSummaryService(notes repository.OwnedRepository[domain.Note, *domain.Note], model *llm.Client) *NoteSummaryService {
	return &NoteSummaryService{notes: notes, model: model}
}

// Summarize collects the user's notes and asks the model for a summary.
// Having no notes, or only notes with empty content, is a NotFoundError
// rather than an empty summary.
func (s *NoteSummaryService) Summarize(ctx context.Context, userID uuid.UUID) (string, error) {
	notes, err := s.notes.FindAllByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(notes) == 0 {
		return "", domain.NewNotFoundError("Zero notes found for summarization.")
	}

	contents := make([]string, 0, len(notes))
	for _, note := range notes {
		if note.Content != "" {
			contents = append(contents, note.Content)
		}
	}
	if len(contents) == 0 {
		return "", domain.NewNotFoundError("No valid note content found.")
	}

	summary, err := s.model.Chat(ctx, summarySystemPrompt, strings.Join(contents, "\n\n"))
	if err != nil {
		return "", domain.NewInternalError("Failed to summarize notes.", err)
	}
	return summary, nil
}
