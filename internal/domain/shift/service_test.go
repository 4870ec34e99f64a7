package shift

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"hrms/internal/apperr"
	"hrms/internal/domain/approval"
	"hrms/internal/domain/auth"
)

type fakeStore struct {
	shifts map[string]*Shift
	nextID int
}

func newFakeStore() *fakeStore {
	return &fakeStore{shifts: map[string]*Shift{}}
}

func (f *fakeStore) genID() string {
	f.nextID++
	return fmt.Sprintf("00000000-0000-0000-0000-%012d", f.nextID)
}

func (f *fakeStore) Get(ctx context.Context, id string) (*Shift, error) {
	sh, ok := f.shifts[id]
	if !ok {
		return nil, nil
	}
	cp := *sh
	return &cp, nil
}

func (f *fakeStore) FindByName(ctx context.Context, name, excludeID string) (*Shift, error) {
	for _, sh := range f.shifts {
		if strings.EqualFold(sh.Name, name) && sh.ID != excludeID {
			cp := *sh
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) Count(ctx context.Context, search string) (int, error) {
	return len(f.shifts), nil
}

func (f *fakeStore) List(ctx context.Context, search string, limit, offset int) ([]Shift, error) {
	var out []Shift
	for _, sh := range f.shifts {
		out = append(out, *sh)
	}
	return out, nil
}

func (f *fakeStore) Options(ctx context.Context) ([]Option, error) {
	var out []Option
	for _, sh := range f.shifts {
		out = append(out, Option{ID: sh.ID, Name: sh.Name})
	}
	return out, nil
}

func (f *fakeStore) Create(ctx context.Context, sh Shift) (*Shift, error) {
	sh.ID = f.genID()
	sh.CreatedAt = time.Now()
	sh.UpdatedAt = sh.CreatedAt
	f.shifts[sh.ID] = &sh
	cp := sh
	return &cp, nil
}

func (f *fakeStore) Update(ctx context.Context, sh Shift) (*Shift, error) {
	sh.UpdatedAt = time.Now()
	f.shifts[sh.ID] = &sh
	cp := sh
	return &cp, nil
}

func (f *fakeStore) SetStatus(ctx context.Context, id, status string) (*Shift, error) {
	sh := f.shifts[id]
	sh.Status = status
	cp := *sh
	return &cp, nil
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	delete(f.shifts, id)
	return nil
}

var (
	adminActor      = auth.Actor{ID: "a7f43c6e-74a1-4b4c-9a6a-2f0f26f8d001", Name: "Admin", Role: auth.RoleAdmin}
	supervisorActor = auth.Actor{ID: "a7f43c6e-74a1-4b4c-9a6a-2f0f26f8d002", Name: "Supervisor", Role: auth.RoleSupervisor}
)

func validInput(name string) Input {
	return Input{
		Name:        name,
		StartTime:   "09:00",
		EndTime:     "17:00",
		WorkingDays: []string{"Mon", "Tue", "Wed", "Thu", "Fri"},
	}
}

func mustCreate(t *testing.T, svc *Service, actor auth.Actor, in Input) *Shift {
	t.Helper()
	sh, err := svc.Create(context.Background(), actor, in)
	if err != nil {
		t.Fatalf("create shift %q: %v", in.Name, err)
	}
	return sh
}

func TestCreateShiftRequiredFields(t *testing.T) {
	svc := NewService(newFakeStore())

	cases := []Input{
		{StartTime: "09:00", EndTime: "17:00", WorkingDays: []string{"Mon"}},
		{Name: "Day", EndTime: "17:00", WorkingDays: []string{"Mon"}},
		{Name: "Day", StartTime: "09:00", WorkingDays: []string{"Mon"}},
	}
	for _, in := range cases {
		_, err := svc.Create(context.Background(), adminActor, in)
		if !apperr.IsKind(err, apperr.KindValidation) {
			t.Fatalf("input %+v: got %v", in, err)
		}
	}
}

func TestCreateShiftWorkingDays(t *testing.T) {
	svc := NewService(newFakeStore())

	in := validInput("Day")
	in.WorkingDays = nil
	_, err := svc.Create(context.Background(), adminActor, in)
	if err == nil || err.Error() != "At least one working day is required" {
		t.Fatalf("empty working days: got %v", err)
	}

	in.WorkingDays = []string{"Mon", "Monday"}
	_, err = svc.Create(context.Background(), adminActor, in)
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("unknown day should be a validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Monday") {
		t.Fatalf("message should name the bad day, got %q", err.Error())
	}
}

func TestCreateShiftBreakIntervals(t *testing.T) {
	svc := NewService(newFakeStore())

	in := validInput("Day")
	in.Intervals = []Interval{{StartTime: "12:00"}}
	_, err := svc.Create(context.Background(), adminActor, in)
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("half-open break should be rejected, got %v", err)
	}

	in.Intervals = []Interval{{StartTime: "12:00", EndTime: "12:30"}}
	sh := mustCreate(t, svc, adminActor, in)
	if len(sh.Intervals) != 1 {
		t.Fatalf("intervals = %+v", sh.Intervals)
	}
}

func TestCreateShiftNameUniqueness(t *testing.T) {
	svc := NewService(newFakeStore())
	mustCreate(t, svc, adminActor, validInput("Day Shift"))

	_, err := svc.Create(context.Background(), adminActor, validInput("day shift"))
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for case-variant duplicate, got %v", err)
	}
}

func TestCreateShiftApprovalWorkflow(t *testing.T) {
	svc := NewService(newFakeStore())

	byAdmin := mustCreate(t, svc, adminActor, validInput("Day"))
	if byAdmin.Status != approval.StatusApproved {
		t.Fatalf("admin-created status = %q", byAdmin.Status)
	}

	bySup := mustCreate(t, svc, supervisorActor, validInput("Night"))
	if bySup.Status != approval.StatusPending {
		t.Fatalf("supervisor-created status = %q", bySup.Status)
	}
	if bySup.CreatedBy != supervisorActor.ID {
		t.Fatalf("supervisor createdBy = %q, want actor id", bySup.CreatedBy)
	}
}

func TestUpdateShiftKeepsOwnName(t *testing.T) {
	svc := NewService(newFakeStore())
	sh := mustCreate(t, svc, adminActor, validInput("Day"))

	in := validInput("DAY")
	in.Notes = "updated"
	updated, err := svc.Update(context.Background(), adminActor, sh.ID, in)
	if err != nil {
		t.Fatalf("case-only rename of own shift: %v", err)
	}
	if updated.Notes != "updated" {
		t.Fatalf("notes = %q", updated.Notes)
	}
}

func TestUpdateShiftStatus(t *testing.T) {
	svc := NewService(newFakeStore())
	sh := mustCreate(t, svc, supervisorActor, validInput("Night"))

	updated, msg, err := svc.UpdateStatus(context.Background(), sh.ID, approval.StatusApproved)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if updated.Status != approval.StatusApproved {
		t.Fatalf("status = %q", updated.Status)
	}
	if msg != "Shift approved successfully" {
		t.Fatalf("message = %q", msg)
	}

	_, _, err = svc.UpdateStatus(context.Background(), sh.ID, "Done")
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("unknown status: got %v", err)
	}
}

func TestDeleteShift(t *testing.T) {
	svc := NewService(newFakeStore())
	sh := mustCreate(t, svc, adminActor, validInput("Day"))

	deleted, err := svc.Delete(context.Background(), sh.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.Name != "Day" {
		t.Fatalf("deleted name = %q", deleted.Name)
	}

	_, err = svc.Delete(context.Background(), sh.ID)
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("second delete should be not found, got %v", err)
	}
}
