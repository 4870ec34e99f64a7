package shift

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"hrms/internal/apperr"
	"hrms/internal/domain/approval"
	"hrms/internal/domain/auth"
)

var validDays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Service enforces the shift rules: required time window, working day
// membership, complete break intervals, global name uniqueness, and
// the approval workflow. Shifts track no dependents on delete.
type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

type Input struct {
	Name        string     `json:"name"`
	StartTime   string     `json:"startTime"`
	EndTime     string     `json:"endTime"`
	Intervals   []Interval `json:"intervals"`
	WorkingDays []string   `json:"workingDays"`
	Notes       string     `json:"notes"`
}

func (s *Service) List(ctx context.Context, search string, limit, offset int) ([]Shift, int, error) {
	search = strings.TrimSpace(search)
	total, err := s.store.Count(ctx, search)
	if err != nil {
		return nil, 0, err
	}
	shifts, err := s.store.List(ctx, search, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return shifts, total, nil
}

func (s *Service) Options(ctx context.Context) ([]Option, error) {
	return s.store.Options(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Shift, error) {
	if uuid.Validate(id) != nil {
		return nil, apperr.NotFound("Shift Not Found")
	}
	sh, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sh == nil {
		return nil, apperr.NotFound("Shift Not Found")
	}
	return sh, nil
}

func (s *Service) Create(ctx context.Context, actor auth.Actor, in Input) (*Shift, error) {
	sh, err := validateInput(in)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.FindByName(ctx, sh.Name, "")
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("Shift with this name already exists")
	}

	sh.Status = approval.Initial(actor)
	sh.CreatedBy = approval.CreatedBy(actor)
	return s.store.Create(ctx, *sh)
}

func (s *Service) Update(ctx context.Context, actor auth.Actor, id string, in Input) (*Shift, error) {
	if uuid.Validate(id) != nil {
		return nil, apperr.NotFound("Shift Not Found")
	}
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperr.NotFound("Shift not found")
	}

	sh, err := validateInput(in)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(sh.Name, current.Name) {
		existing, err := s.store.FindByName(ctx, sh.Name, id)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperr.Conflict("Shift with this name already exists")
		}
	}

	current.Name = sh.Name
	current.StartTime = sh.StartTime
	current.EndTime = sh.EndTime
	current.Intervals = sh.Intervals
	current.WorkingDays = sh.WorkingDays
	current.Notes = sh.Notes

	return s.store.Update(ctx, *current)
}

func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*Shift, string, error) {
	if uuid.Validate(id) != nil {
		return nil, "", apperr.NotFound("Shift Not Found")
	}
	sh, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if sh == nil {
		return nil, "", apperr.NotFound("Shift not found")
	}

	if err := approval.ValidateStatus(status); err != nil {
		return nil, "", err
	}

	updated, err := s.store.SetStatus(ctx, id, status)
	if err != nil {
		return nil, "", err
	}
	return updated, approval.TransitionMessage("Shift", status), nil
}

func (s *Service) Delete(ctx context.Context, id string) (*Shift, error) {
	if uuid.Validate(id) != nil {
		return nil, apperr.NotFound("Shift Not Found")
	}
	sh, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sh == nil {
		return nil, apperr.NotFound("Shift not found")
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return nil, err
	}
	return sh, nil
}

func validateInput(in Input) (*Shift, error) {
	name := strings.TrimSpace(in.Name)
	startTime := strings.TrimSpace(in.StartTime)
	endTime := strings.TrimSpace(in.EndTime)
	if name == "" || startTime == "" || endTime == "" {
		return nil, apperr.Validation("Shift name, start time and end time are required")
	}

	if len(in.WorkingDays) == 0 {
		return nil, apperr.Validation("At least one working day is required")
	}
	for _, day := range in.WorkingDays {
		if !isValidDay(day) {
			return nil, apperr.Validation("Invalid working day: %s. Valid days are: %s", day, strings.Join(validDays, ", "))
		}
	}

	for _, iv := range in.Intervals {
		if strings.TrimSpace(iv.StartTime) == "" || strings.TrimSpace(iv.EndTime) == "" {
			return nil, apperr.Validation("Break intervals must include both start and end times")
		}
	}

	return &Shift{
		Name:        name,
		StartTime:   startTime,
		EndTime:     endTime,
		Intervals:   in.Intervals,
		WorkingDays: in.WorkingDays,
		Notes:       strings.TrimSpace(in.Notes),
	}, nil
}

func isValidDay(day string) bool {
	for _, d := range validDays {
		if d == day {
			return true
		}
	}
	return false
}
