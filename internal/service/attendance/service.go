package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/besti-sekretariat/besti-backend-go/internal/domain/attendance"
	"github.com/besti-sekretariat/besti-backend-go/internal/domain/inventory"
	"github.com/besti-sekretariat/besti-backend-go/internal/domain/person"
	"github.com/besti-sekretariat/besti-backend-go/internal/pkg/clock"
	"github.com/besti-sekretariat/besti-backend-go/internal/pkg/validator"
	"github.com/besti-sekretariat/besti-backend-go/internal/service/file"
)

const (
	defaultHistoryLimit = 30
	maxHistoryLimit     = 100
)

// Settings are the time rules applied to every session.
type Settings struct {
	Location           *time.Location
	MinDuration        time.Duration
	PersistenceTimeout time.Duration
}

type AttendanceServiceImpl struct {
	repo        attendance.Repository
	inventory   inventory.Directory
	people      person.Directory
	fileService file.FileService
	clock       clock.Clock
	settings    Settings
	logger      *slog.Logger
}

func NewAttendanceService(
	repo attendance.Repository,
	inventoryDirectory inventory.Directory,
	people person.Directory,
	fileService file.FileService,
	clk clock.Clock,
	settings Settings,
	logger *slog.Logger,
) attendance.Service {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if settings.PersistenceTimeout <= 0 {
		settings.PersistenceTimeout = 10 * time.Second
	}
	if clk == nil {
		clk = clock.System()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AttendanceServiceImpl{
		repo:        repo,
		inventory:   inventoryDirectory,
		people:      people,
		fileService: fileService,
		clock:       clk,
		settings:    settings,
		logger:      logger.With(slog.String("service", "attendance")),
	}
}

func (a *AttendanceServiceImpl) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.settings.PersistenceTimeout)
}

// CheckIn implements attendance.Service.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SessionResponse{}, err
	}

	loc := a.settings.Location
	now := a.clock.Now().In(loc)
	today := attendance.LocalDate(now, loc)

	repoCtx, cancel := a.withTimeout(ctx)
	defer cancel()

	member, err := a.people.GetByID(repoCtx, req.PersonID)
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	open, err := a.repo.FindOpenSession(repoCtx, req.PersonID, today)
	if err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to check open session: %w", err)
	}
	if open != nil {
		return attendance.SessionResponse{}, attendance.ErrDuplicateCheckIn
	}

	items, err := a.inventory.ListAll(repoCtx)
	if err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to list inventory: %w", err)
	}

	photoPath, err := a.fileService.UploadAttendanceProof(ctx, req.PersonID, today, req.File, req.FileHeader.Filename, file.PhotoCheckIn)
	if err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to upload check-in photo: %w", err)
	}

	location := attendance.Location{Latitude: req.Latitude, Longitude: req.Longitude}
	session := attendance.NewSession(req.PersonID, now, loc, items, location, photoPath)

	created, err := a.repo.Create(repoCtx, session)
	if err != nil {
		a.discardPhoto(ctx, photoPath)
		if errors.Is(err, attendance.ErrDuplicateCheckIn) {
			return attendance.SessionResponse{}, err
		}
		return attendance.SessionResponse{}, fmt.Errorf("failed to create session: %w", err)
	}
	created.PersonName = &member.DisplayName

	a.logger.Info("checked in", "person_id", req.PersonID, "session_id", created.ID, "items", len(created.Checklist))
	return a.toResponse(created, now), nil
}

// SubmitChecklist implements attendance.Service.
func (a *AttendanceServiceImpl) SubmitChecklist(ctx context.Context, req attendance.SubmitChecklistRequest) (attendance.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SessionResponse{}, err
	}

	repoCtx, cancel := a.withTimeout(ctx)
	defer cancel()

	session, err := a.ownedSession(repoCtx, req.SessionID, req.PersonID)
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	now := a.clock.Now().In(a.settings.Location)
	if err := session.SubmitChecklist(req.Statuses(), req.Note, now, a.settings.Location); err != nil {
		return attendance.SessionResponse{}, err
	}

	if err := a.repo.Save(repoCtx, session); err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to save checklist: %w", err)
	}

	summary := attendance.Summarize(session.Checklist)
	a.logger.Info("checklist submitted", "session_id", session.ID, "good", summary.Good, "damaged", summary.Damaged, "lost", summary.Lost)
	return a.toResponse(session, now), nil
}

// CheckOut implements attendance.Service. Eligibility is checked before the
// photo is stored so refused attempts leave nothing behind.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SessionResponse{}, err
	}

	repoCtx, cancel := a.withTimeout(ctx)
	defer cancel()

	session, err := a.ownedSession(repoCtx, req.SessionID, req.PersonID)
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	loc := a.settings.Location
	now := a.clock.Now().In(loc)
	if err := session.CheckOutEligibility(now, loc, a.settings.MinDuration); err != nil {
		return attendance.SessionResponse{}, err
	}

	photoPath, err := a.fileService.UploadAttendanceProof(ctx, req.PersonID, session.Date, req.File, req.FileHeader.Filename, file.PhotoCheckOut)
	if err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to upload check-out photo: %w", err)
	}

	location := attendance.Location{Latitude: req.Latitude, Longitude: req.Longitude}
	if err := session.CheckOut(now, loc, a.settings.MinDuration, location, photoPath); err != nil {
		a.discardPhoto(ctx, photoPath)
		return attendance.SessionResponse{}, err
	}

	if err := a.repo.Save(repoCtx, session); err != nil {
		a.discardPhoto(ctx, photoPath)
		return attendance.SessionResponse{}, fmt.Errorf("failed to save check-out: %w", err)
	}

	a.logger.Info("checked out", "session_id", session.ID, "person_id", session.PersonID, "minutes", session.ElapsedMinutes(now))
	return a.toResponse(session, now), nil
}

// Today implements attendance.Service.
func (a *AttendanceServiceImpl) Today(ctx context.Context, personID string) (attendance.TodayResponse, error) {
	loc := a.settings.Location
	now := a.clock.Now().In(loc)
	today := attendance.LocalDate(now, loc)

	repoCtx, cancel := a.withTimeout(ctx)
	defer cancel()

	session, err := a.repo.GetLatestByPersonAndDate(repoCtx, personID, today)
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to get today's session: %w", err)
	}

	resp := attendance.TodayResponse{
		Date:          today.Format("2006-01-02"),
		DisplayStatus: attendance.StatusFor(session, now, loc),
	}
	if session != nil {
		sessionResp := a.toResponse(*session, now)
		resp.Session = &sessionResp
	}
	return resp, nil
}

// Get implements attendance.Service.
func (a *AttendanceServiceImpl) Get(ctx context.Context, id string) (attendance.SessionResponse, error) {
	repoCtx, cancel := a.withTimeout(ctx)
	defer cancel()

	session, err := a.repo.GetByID(repoCtx, id)
	if err != nil {
		return attendance.SessionResponse{}, err
	}
	a.attachName(repoCtx, &session)
	return a.toResponse(session, a.clock.Now().In(a.settings.Location)), nil
}

// DailyReport implements attendance.Service. Every person appears once with
// the status of their latest session that day.
func (a *AttendanceServiceImpl) DailyReport(ctx context.Context, date string) (attendance.DailyReportResponse, error) {
	loc := a.settings.Location
	now := a.clock.Now().In(loc)

	day := attendance.LocalDate(now, loc)
	if date != "" {
		parsed, ok := validator.IsValidDate(date)
		if !ok {
			return attendance.DailyReportResponse{}, validator.ValidationErrors{{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			}}
		}
		day = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, loc)
	}

	repoCtx, cancel := a.withTimeout(ctx)
	defer cancel()

	people, err := a.people.ListAll(repoCtx)
	if err != nil {
		return attendance.DailyReportResponse{}, fmt.Errorf("failed to list people: %w", err)
	}
	sessions, err := a.repo.ListByDate(repoCtx, day)
	if err != nil {
		return attendance.DailyReportResponse{}, fmt.Errorf("failed to list sessions: %w", err)
	}

	latest := make(map[string]attendance.Session, len(sessions))
	for _, s := range sessions {
		if _, seen := latest[s.PersonID]; !seen {
			latest[s.PersonID] = s
		}
	}

	resp := attendance.DailyReportResponse{
		Date: day.Format("2006-01-02"),
		Totals: map[attendance.DisplayStatus]int{
			attendance.DisplayDone:       0,
			attendance.DisplayInProgress: 0,
			attendance.DisplayIncomplete: 0,
			attendance.DisplayNotStarted: 0,
		},
		People: make([]attendance.DailyStatusResponse, 0, len(people)),
	}
	for _, p := range people {
		row := attendance.DailyStatusResponse{
			PersonID:    p.ID,
			DisplayName: p.DisplayName,
			Division:    p.Division,
			Status:      attendance.DisplayNotStarted,
		}
		if s, ok := latest[p.ID]; ok {
			s.PersonName = &p.DisplayName
			row.Status = s.DisplayStatus(now, loc)
			sessionResp := a.toResponse(s, now)
			row.Session = &sessionResp
		}
		resp.Totals[row.Status]++
		resp.People = append(resp.People, row)
	}
	return resp, nil
}

// History implements attendance.Service.
func (a *AttendanceServiceImpl) History(ctx context.Context, personID string, limit int) ([]attendance.SessionResponse, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	repoCtx, cancel := a.withTimeout(ctx)
	defer cancel()

	sessions, err := a.repo.ListByPerson(repoCtx, personID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	now := a.clock.Now().In(a.settings.Location)
	out := make([]attendance.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, a.toResponse(s, now))
	}
	return out, nil
}

// ArchiveStale implements attendance.Service.
func (a *AttendanceServiceImpl) ArchiveStale(ctx context.Context) (int64, error) {
	loc := a.settings.Location
	now := a.clock.Now().In(loc)

	repoCtx, cancel := a.withTimeout(ctx)
	defer cancel()

	n, err := a.repo.ArchiveBefore(repoCtx, attendance.LocalDate(now, loc), now)
	if err != nil {
		return 0, fmt.Errorf("failed to archive sessions: %w", err)
	}
	return n, nil
}

func (a *AttendanceServiceImpl) ownedSession(ctx context.Context, sessionID, personID string) (attendance.Session, error) {
	session, err := a.repo.GetByID(ctx, sessionID)
	if err != nil {
		return attendance.Session{}, err
	}
	if session.PersonID != personID {
		return attendance.Session{}, attendance.ErrSessionNotOwned
	}
	a.attachName(ctx, &session)
	return session, nil
}

func (a *AttendanceServiceImpl) attachName(ctx context.Context, s *attendance.Session) {
	if s.PersonName != nil {
		return
	}
	if p, err := a.people.GetByID(ctx, s.PersonID); err == nil {
		s.PersonName = &p.DisplayName
	}
}

func (a *AttendanceServiceImpl) discardPhoto(ctx context.Context, path string) {
	if err := a.fileService.DeleteFile(ctx, path); err != nil {
		a.logger.Warn("failed to remove orphaned photo", "path", path, "error", err)
	}
}

func (a *AttendanceServiceImpl) toResponse(s attendance.Session, now time.Time) attendance.SessionResponse {
	loc := a.settings.Location

	resp := attendance.SessionResponse{
		ID:                 s.ID,
		PersonID:           s.PersonID,
		Date:               s.Date.Format("2006-01-02"),
		State:              s.State(),
		DisplayStatus:      s.DisplayStatus(now, loc),
		CheckInTime:        s.CheckInTime.In(loc).Format(time.RFC3339),
		CheckInLocation:    s.CheckInLocation,
		CheckOutLocation:   s.CheckOutLocation,
		CheckInPhotoURL:    a.fileService.GetFileURL(s.CheckInPhotoPath),
		Checklist:          s.Checklist,
		ChecklistSubmitted: s.ChecklistSubmitted,
		ChecklistSummary:   attendance.Summarize(s.Checklist),
		Note:               s.Note,
	}
	if resp.Checklist == nil {
		resp.Checklist = []attendance.ChecklistEntry{}
	}
	if s.PersonName != nil {
		resp.PersonName = *s.PersonName
	}
	if s.CheckOutPhotoPath != nil {
		url := a.fileService.GetFileURL(*s.CheckOutPhotoPath)
		resp.CheckOutPhotoURL = &url
	}

	if s.CheckOutTime != nil {
		out := s.CheckOutTime.In(loc).Format(time.RFC3339)
		resp.CheckOutTime = &out
		resp.ElapsedMinutes = s.ElapsedMinutes(*s.CheckOutTime)
		return resp
	}

	resp.ElapsedMinutes = s.ElapsedMinutes(now)
	err := s.CheckOutEligibility(now, loc, a.settings.MinDuration)
	var notEligible *attendance.NotEligibleError
	switch {
	case err == nil:
		resp.CanCheckOut = true
	case errors.As(err, &notEligible) && notEligible.Reason == attendance.ReasonDurationNotMet:
		resp.MinutesRemaining = notEligible.MinutesRemaining
	case errors.As(err, &notEligible):
		// Checklist pending: report the full remaining wait.
		required := int(a.settings.MinDuration / time.Minute)
		if remaining := required - resp.ElapsedMinutes; remaining > 0 {
			resp.MinutesRemaining = remaining
		}
	}
	return resp
}
