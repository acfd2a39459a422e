package roster

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/besti-sekretariat/besti-backend-go/internal/domain/person"
	"github.com/besti-sekretariat/besti-backend-go/internal/domain/roster"
	"github.com/besti-sekretariat/besti-backend-go/internal/pkg/sse"
)

const (
	Topic = "roster"

	EventChanged = "roster.changed"
	EventSaved   = "roster.saved"
	EventCleared = "roster.cleared"
)

// ChangeEvent is the payload published on every roster mutation.
type ChangeEvent struct {
	Version int64 `json:"version"`
	IsSaved bool  `json:"is_saved"`
}

// RosterServiceImpl owns the single working copy of the roster. All access
// to the store goes through mu.
type RosterServiceImpl struct {
	mu     sync.Mutex
	store  *roster.Store
	editor *roster.Editor
	loaded bool

	repo    roster.Repository
	people  person.Directory
	hub     *sse.Hub
	timeout time.Duration
	logger  *slog.Logger
}

func NewRosterService(repo roster.Repository, people person.Directory, hub *sse.Hub, timeout time.Duration, logger *slog.Logger) roster.Service {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	store := roster.NewStore()
	return &RosterServiceImpl{
		store:   store,
		editor:  roster.NewEditor(store),
		repo:    repo,
		people:  people,
		hub:     hub,
		timeout: timeout,
		logger:  logger.With(slog.String("service", "roster")),
	}
}

// Get implements roster.Service.
func (s *RosterServiceImpl) Get(ctx context.Context) (roster.RosterResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return roster.RosterResponse{}, err
	}
	return s.response(ctx)
}

// Generate implements roster.Service.
func (s *RosterServiceImpl) Generate(ctx context.Context, req roster.GenerateRequest) (roster.RosterResponse, error) {
	if err := req.Validate(); err != nil {
		return roster.RosterResponse{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return roster.RosterResponse{}, err
	}

	people := req.People
	if len(people) == 0 {
		all, err := s.listPeople(ctx)
		if err != nil {
			return roster.RosterResponse{}, err
		}
		people = person.IDs(all)
	} else if err := s.ensurePeopleExist(ctx, people); err != nil {
		return roster.RosterResponse{}, err
	}

	days, err := roster.Generate(people, req.HeadcountPerDay)
	if err != nil {
		return roster.RosterResponse{}, err
	}
	if err := s.store.ReplaceAll(days); err != nil {
		return roster.RosterResponse{}, err
	}

	s.logger.Info("roster generated", "people", len(people), "headcount_per_day", req.HeadcountPerDay)
	s.publish(EventChanged)
	return s.response(ctx)
}

// AddAssignment implements roster.Service.
func (s *RosterServiceImpl) AddAssignment(ctx context.Context, req roster.AddAssignmentRequest) (roster.RosterResponse, error) {
	if err := req.Validate(); err != nil {
		return roster.RosterResponse{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return roster.RosterResponse{}, err
	}
	if err := s.ensurePeopleExist(ctx, []string{req.PersonID}); err != nil {
		return roster.RosterResponse{}, err
	}
	if err := s.editor.AddPersonToDays(req.PersonID, req.Days); err != nil {
		return roster.RosterResponse{}, err
	}

	s.publish(EventChanged)
	return s.response(ctx)
}

// RemoveAssignment implements roster.Service.
func (s *RosterServiceImpl) RemoveAssignment(ctx context.Context, day roster.Weekday, personID string) (roster.RosterResponse, error) {
	if !day.Valid() {
		return roster.RosterResponse{}, roster.ErrInvalidDay
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return roster.RosterResponse{}, err
	}

	before := len(s.store.Day(day))
	s.store.RemovePerson(day, personID)
	if len(s.store.Day(day)) != before {
		s.publish(EventChanged)
	}
	return s.response(ctx)
}

// Available implements roster.Service.
func (s *RosterServiceImpl) Available(ctx context.Context, days []roster.Weekday) (roster.AvailableResponse, error) {
	for _, day := range days {
		if !day.Valid() {
			return roster.AvailableResponse{}, roster.ErrInvalidDay
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return roster.AvailableResponse{}, err
	}

	all, err := s.listPeople(ctx)
	if err != nil {
		return roster.AvailableResponse{}, err
	}
	byID := indexPeople(all)

	available := roster.AvailableForDays(person.IDs(all), s.store.Snapshot().Days, days)
	resp := roster.AvailableResponse{
		Days:   days,
		People: make([]person.PersonResponse, 0, len(available)),
	}
	if resp.Days == nil {
		resp.Days = []roster.Weekday{}
	}
	for _, id := range available {
		resp.People = append(resp.People, person.ToResponse(byID[id]))
	}
	return resp, nil
}

// Save implements roster.Service. The working copy is only marked saved
// once storage confirms the write.
func (s *RosterServiceImpl) Save(ctx context.Context, req roster.SaveRequest) (roster.RosterResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return roster.RosterResponse{}, err
	}

	snapshot := s.store.Snapshot()
	saveCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	version, err := s.repo.Save(saveCtx, snapshot.Days, req.Version)
	if err != nil {
		s.logger.Error("roster save failed", "error", err)
		return roster.RosterResponse{}, fmt.Errorf("failed to save roster: %w", err)
	}
	s.store.MarkSaved(version)

	s.logger.Info("roster saved", "version", version)
	s.publish(EventSaved)
	return s.response(ctx)
}

// Reload implements roster.Service.
func (s *RosterServiceImpl) Reload(ctx context.Context) (roster.RosterResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return roster.RosterResponse{}, err
	}
	s.publish(EventChanged)
	return s.response(ctx)
}

// Clear implements roster.Service.
func (s *RosterServiceImpl) Clear(ctx context.Context) (roster.RosterResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clearCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	version, err := s.repo.Clear(clearCtx)
	if err != nil {
		s.logger.Error("roster clear failed", "error", err)
		return roster.RosterResponse{}, fmt.Errorf("failed to clear roster: %w", err)
	}
	if err := s.store.ReplaceAll(roster.EmptyDays()); err != nil {
		return roster.RosterResponse{}, err
	}
	s.store.MarkSaved(version)
	s.loaded = true

	s.logger.Info("roster cleared", "version", version)
	s.publish(EventCleared)
	return s.response(ctx)
}

// Subscribe implements roster.Service.
func (s *RosterServiceImpl) Subscribe(ctx context.Context, subscriberID string) (<-chan sse.Event, func()) {
	ch, cleanup := s.hub.Subscribe(Topic)
	s.logger.Debug("roster subscriber connected", "subscriber", subscriberID, "subscribers", s.hub.SubscriberCount(Topic))
	return ch, cleanup
}

// ensureLoaded must be called with mu held.
func (s *RosterServiceImpl) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	return s.load(ctx)
}

// load must be called with mu held. A failed load leaves the working copy
// as it was.
func (s *RosterServiceImpl) load(ctx context.Context) error {
	loadCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	stored, err := s.repo.Load(loadCtx)
	if err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}
	if err := s.store.ReplaceAll(stored.Days); err != nil {
		return fmt.Errorf("stored roster is invalid: %w", err)
	}
	s.store.MarkSaved(stored.Version)
	s.loaded = true
	return nil
}

func (s *RosterServiceImpl) listPeople(ctx context.Context) ([]person.Person, error) {
	listCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	people, err := s.people.ListAll(listCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	return people, nil
}

func (s *RosterServiceImpl) ensurePeopleExist(ctx context.Context, ids []string) error {
	all, err := s.listPeople(ctx)
	if err != nil {
		return err
	}
	byID := indexPeople(all)
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return fmt.Errorf("%w: %s", person.ErrPersonNotFound, id)
		}
	}
	return nil
}

// response must be called with mu held.
func (s *RosterServiceImpl) response(ctx context.Context) (roster.RosterResponse, error) {
	all, err := s.listPeople(ctx)
	if err != nil {
		return roster.RosterResponse{}, err
	}
	byID := indexPeople(all)

	snapshot := s.store.Snapshot()
	counts := snapshot.Days.AssignmentCounts()

	resp := roster.RosterResponse{
		Days:       make([]roster.DayResponse, 0, len(roster.Weekdays)),
		IsSaved:    s.store.IsSaved(),
		Version:    snapshot.Version,
		Unassigned: make([]person.PersonResponse, 0),
	}
	for _, day := range roster.Weekdays {
		dayResp := roster.DayResponse{
			Day:       day,
			Label:     day.Label(),
			Assignees: make([]roster.AssigneeResponse, 0, len(snapshot.Days[day])),
		}
		for i, id := range snapshot.Days[day] {
			assignee := roster.AssigneeResponse{
				PersonID:         id,
				DisplayName:      id,
				Position:         i + 1,
				TotalAssignments: counts[id],
			}
			if p, ok := byID[id]; ok {
				assignee.DisplayName = p.DisplayName
				assignee.Division = p.Division
			}
			dayResp.Assignees = append(dayResp.Assignees, assignee)
		}
		resp.Days = append(resp.Days, dayResp)
	}

	for _, id := range roster.UnassignedPeople(person.IDs(all), snapshot.Days) {
		resp.Unassigned = append(resp.Unassigned, person.ToResponse(byID[id]))
	}
	return resp, nil
}

// publish must be called with mu held.
func (s *RosterServiceImpl) publish(event string) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(sse.Event{
		Topic: Topic,
		Event: event,
		Data:  ChangeEvent{Version: s.store.Version(), IsSaved: s.store.IsSaved()},
	})
}

func indexPeople(people []person.Person) map[string]person.Person {
	byID := make(map[string]person.Person, len(people))
	for _, p := range people {
		byID[p.ID] = p
	}
	return byID
}
