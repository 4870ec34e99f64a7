package idea

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"hrms/internal/apperr"
	"hrms/internal/domain/auth"
)

// Service enforces the idea rules: required text fields, tag
// normalization, and owner-only mutation. Reads are public.
type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

type Input struct {
	Title       string  `json:"title"`
	Summary     string  `json:"summary"`
	Description string  `json:"description"`
	Tags        TagList `json:"tags"`
}

// List returns newest-first ideas, capped at limit when positive.
func (s *Service) List(ctx context.Context, limit int) ([]Idea, error) {
	return s.store.List(ctx, limit)
}

func (s *Service) Get(ctx context.Context, id string) (*Idea, error) {
	if uuid.Validate(id) != nil {
		return nil, apperr.NotFound("Idea Not Found")
	}
	i, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if i == nil {
		return nil, apperr.NotFound("Idea Not Found")
	}
	return i, nil
}

func (s *Service) Create(ctx context.Context, actor auth.Actor, in Input) (*Idea, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	return s.store.Create(ctx, Idea{
		Title:       in.Title,
		Summary:     in.Summary,
		Description: in.Description,
		Tags:        in.Tags,
		UserID:      actor.ID,
	})
}

func (s *Service) Update(ctx context.Context, actor auth.Actor, id string, in Input) (*Idea, error) {
	if uuid.Validate(id) != nil {
		return nil, apperr.NotFound("Idea Not Found")
	}
	i, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if i == nil {
		return nil, apperr.NotFound("Idea not found")
	}

	if i.UserID != actor.ID {
		return nil, apperr.Forbidden("Not authorized to update this idea")
	}

	if err := validateInput(in); err != nil {
		return nil, err
	}

	i.Title = in.Title
	i.Summary = in.Summary
	i.Description = in.Description
	i.Tags = in.Tags

	return s.store.Update(ctx, *i)
}

func (s *Service) Delete(ctx context.Context, actor auth.Actor, id string) error {
	if uuid.Validate(id) != nil {
		return apperr.NotFound("Idea Not Found")
	}
	i, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if i == nil {
		return apperr.NotFound("Idea not found")
	}

	if i.UserID != actor.ID {
		return apperr.Forbidden("Not authorized to delete this idea")
	}

	return s.store.Delete(ctx, id)
}

func validateInput(in Input) error {
	if strings.TrimSpace(in.Title) == "" ||
		strings.TrimSpace(in.Summary) == "" ||
		strings.TrimSpace(in.Description) == "" {
		return apperr.Validation("Title, summary and description are required")
	}
	return nil
}
