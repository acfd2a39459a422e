package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/besti-sekretariat/besti-backend-go/internal/domain/attendance"
	"github.com/google/uuid"
)

type attendanceRepository struct {
	mu       sync.RWMutex
	sessions map[string]attendance.Session
}

func NewAttendanceRepository() attendance.Repository {
	return &attendanceRepository{sessions: make(map[string]attendance.Session)}
}

func sameDate(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

// clone copies the slices and pointers so callers cannot mutate stored state.
func clone(s attendance.Session) attendance.Session {
	out := s
	out.Checklist = make([]attendance.ChecklistEntry, len(s.Checklist))
	for i, entry := range s.Checklist {
		out.Checklist[i] = entry
		if entry.Status != nil {
			st := *entry.Status
			out.Checklist[i].Status = &st
		}
	}
	return out
}

func (r *attendanceRepository) FindOpenSession(ctx context.Context, personID string, date time.Time) (*attendance.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.newestFirst() {
		if s.PersonID == personID && sameDate(s.Date, date) && s.CheckOutTime == nil {
			found := clone(s)
			return &found, nil
		}
	}
	return nil, nil
}

func (r *attendanceRepository) Create(ctx context.Context, s attendance.Session) (attendance.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.sessions {
		if existing.PersonID == s.PersonID && sameDate(existing.Date, s.Date) && existing.CheckOutTime == nil {
			return attendance.Session{}, attendance.ErrDuplicateCheckIn
		}
	}

	s.ID = uuid.NewString()
	now := time.Now()
	s.CreatedAt, s.UpdatedAt = now, now
	r.sessions[s.ID] = clone(s)
	return s, nil
}

func (r *attendanceRepository) Save(ctx context.Context, s attendance.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.sessions[s.ID]
	if !ok {
		return attendance.ErrSessionNotFound
	}
	s.CreatedAt = existing.CreatedAt
	s.UpdatedAt = time.Now()
	r.sessions[s.ID] = clone(s)
	return nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return attendance.Session{}, attendance.ErrSessionNotFound
	}
	return clone(s), nil
}

func (r *attendanceRepository) GetLatestByPersonAndDate(ctx context.Context, personID string, date time.Time) (*attendance.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.newestFirst() {
		if s.PersonID == personID && sameDate(s.Date, date) {
			found := clone(s)
			return &found, nil
		}
	}
	return nil, nil
}

func (r *attendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]attendance.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]attendance.Session, 0)
	for _, s := range r.newestFirst() {
		if sameDate(s.Date, date) {
			out = append(out, clone(s))
		}
	}
	return out, nil
}

func (r *attendanceRepository) ListByPerson(ctx context.Context, personID string, limit int) ([]attendance.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]attendance.Session, 0)
	for _, s := range r.newestFirst() {
		if s.PersonID != personID {
			continue
		}
		out = append(out, clone(s))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *attendanceRepository) ArchiveBefore(ctx context.Context, date time.Time, archivedAt time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := date.Format("2006-01-02")
	var n int64
	for id, s := range r.sessions {
		if s.ArchivedAt != nil || s.Date.Format("2006-01-02") >= cutoff {
			continue
		}
		status := attendance.DisplayIncomplete
		if s.CheckOutTime != nil {
			status = attendance.DisplayDone
		}
		at := archivedAt
		s.FinalStatus = &status
		s.ArchivedAt = &at
		r.sessions[id] = s
		n++
	}
	return n, nil
}

// newestFirst must be called with the lock held.
func (r *attendanceRepository) newestFirst() []attendance.Session {
	out := make([]attendance.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CheckInTime.After(out[j].CheckInTime)
	})
	return out
}
