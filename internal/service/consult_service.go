package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	"github.com/mufashe/mufashe-api/internal/domain"
	"github.com/mufashe/mufashe-api/internal/repository"
	"github.com/mufashe/mufashe-api/internal/telemetry"
)

// PlaceholderAnswer is returned until document retrieval is wired in.
const PlaceholderAnswer = "MVP response: I can help. Next, MUFASHE will retrieve relevant legal documents and explain them in simple language."

// ConsultService logs legal questions and answers them.
type ConsultService struct {
	instrumentation
	consultations repository.ConsultationRepository
	snowflake     *snowflake.Node
}

// NewConsultService wires dependencies.
func NewConsultService(consultations repository.ConsultationRepository, snowflake *snowflake.Node, logger *zap.Logger, tracing *telemetry.Provider) *ConsultService {
	return &ConsultService{
		instrumentation: newInstrumentation(logger, tracing),
		consultations:   consultations,
		snowflake:       snowflake,
	}
}

// Consult answers a question and records it. UserID is nil for anonymous callers.
func (s *ConsultService) Consult(ctx context.Context, in ConsultInput) (*ConsultationView, error) {
	ctx, span := s.startSpan(ctx, "ConsultService.Consult")
	defer span.End()

	question := strings.TrimSpace(in.Question)
	if question == "" {
		return nil, newValidationError("Question is required")
	}
	language := strings.TrimSpace(in.Language)
	if language == "" {
		language = domain.DefaultLanguage
	}

	saved, err := s.consultations.Create(ctx, domain.Consultation{
		ID:       s.snowflake.Generate().Int64(),
		UserID:   in.UserID,
		Question: question,
		Answer:   PlaceholderAnswer,
		Language: language,
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("save consultation: %w", err)
	}

	attrs := []any{"consultation_id", saved.ID, "language", saved.Language}
	if saved.UserID != nil {
		attrs = append(attrs, "user_id", *saved.UserID)
	}
	s.audit("consult.logged", attrs...)

	view := newConsultationView(saved)
	return &view, nil
}

// History lists a user's consultations, newest first.
func (s *ConsultService) History(ctx context.Context, userID int64) ([]ConsultationView, error) {
	ctx, span := s.startSpan(ctx, "ConsultService.History")
	defer span.End()

	items, err := s.consultations.ListByUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list consultations: %w", err)
	}
	views := make([]ConsultationView, 0, len(items))
	for _, item := range items {
		views = append(views, newConsultationView(item))
	}
	return views, nil
}
