package roster

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/besti-sekretariat/besti-backend-go/internal/domain/person"
	"github.com/besti-sekretariat/besti-backend-go/internal/domain/roster"
	"github.com/besti-sekretariat/besti-backend-go/internal/pkg/sse"
	"github.com/besti-sekretariat/besti-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rosterFixture struct {
	svc  roster.Service
	repo roster.Repository
	hub  *sse.Hub
	ids  map[string]string // display name -> person ID
}

func setupRoster(t *testing.T, names ...string) rosterFixture {
	t.Helper()
	ctx := context.Background()

	people := memory.NewPersonRepository()
	ids := make(map[string]string, len(names))
	for i, name := range names {
		p, err := people.Create(ctx, person.Person{
			Username:    fmt.Sprintf("user%d", i),
			DisplayName: name,
			Role:        person.RoleMember,
		})
		require.NoError(t, err)
		ids[name] = p.ID
	}

	repo := memory.NewRosterRepository()
	hub := sse.NewHub()
	return rosterFixture{
		svc:  NewRosterService(repo, people, hub, time.Second, nil),
		repo: repo,
		hub:  hub,
		ids:  ids,
	}
}

func assigneeNames(day roster.DayResponse) []string {
	names := make([]string, 0, len(day.Assignees))
	for _, a := range day.Assignees {
		names = append(names, a.DisplayName)
	}
	return names
}

func TestRosterService_GetEmpty(t *testing.T) {
	f := setupRoster(t, "Ani", "Budi")

	resp, err := f.svc.Get(context.Background())
	require.NoError(t, err)

	require.Len(t, resp.Days, 5)
	assert.Equal(t, roster.Monday, resp.Days[0].Day)
	assert.Equal(t, "Senin", resp.Days[0].Label)
	for _, day := range resp.Days {
		assert.Empty(t, day.Assignees)
	}
	assert.True(t, resp.IsSaved)
	assert.Len(t, resp.Unassigned, 2)
}

func TestRosterService_GenerateUsesDirectoryOrder(t *testing.T) {
	f := setupRoster(t, "A", "B", "C", "D", "E", "F", "G", "H", "I", "J")

	resp, err := f.svc.Generate(context.Background(), roster.GenerateRequest{HeadcountPerDay: 2})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, assigneeNames(resp.Days[0]))
	assert.Equal(t, []string{"C", "D"}, assigneeNames(resp.Days[1]))
	assert.Equal(t, []string{"I", "J"}, assigneeNames(resp.Days[4]))
	assert.False(t, resp.IsSaved)
	assert.Empty(t, resp.Unassigned)

	assert.Equal(t, 1, resp.Days[0].Assignees[0].Position)
	assert.Equal(t, 2, resp.Days[0].Assignees[1].Position)
	assert.Equal(t, 1, resp.Days[0].Assignees[0].TotalAssignments)
}

func TestRosterService_GenerateErrors(t *testing.T) {
	f := setupRoster(t, "A", "B")
	ctx := context.Background()

	_, err := f.svc.Generate(ctx, roster.GenerateRequest{HeadcountPerDay: 3})
	assert.ErrorIs(t, err, roster.ErrInsufficientPeople)

	_, err = f.svc.Generate(ctx, roster.GenerateRequest{People: []string{"ghost"}, HeadcountPerDay: 1})
	assert.ErrorIs(t, err, person.ErrPersonNotFound)

	_, err = f.svc.Generate(ctx, roster.GenerateRequest{HeadcountPerDay: 0})
	assert.Error(t, err)

	empty := setupRoster(t)
	_, err = empty.svc.Generate(ctx, roster.GenerateRequest{HeadcountPerDay: 1})
	assert.ErrorIs(t, err, roster.ErrNoPeople)
}

func TestRosterService_AddAndRemove(t *testing.T) {
	f := setupRoster(t, "Ani", "Budi")
	ctx := context.Background()
	ani := f.ids["Ani"]

	resp, err := f.svc.AddAssignment(ctx, roster.AddAssignmentRequest{PersonID: ani, Days: []roster.Weekday{roster.Monday, roster.Wednesday}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ani"}, assigneeNames(resp.Days[0]))
	assert.Equal(t, []string{"Ani"}, assigneeNames(resp.Days[2]))
	assert.Equal(t, 2, resp.Days[0].Assignees[0].TotalAssignments)
	assert.False(t, resp.IsSaved)

	_, err = f.svc.AddAssignment(ctx, roster.AddAssignmentRequest{PersonID: ani, Days: []roster.Weekday{roster.Tuesday, roster.Wednesday}})
	var conflict *roster.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []roster.Weekday{roster.Wednesday}, conflict.Days)

	// A rejected add leaves the roster as it was.
	resp, err = f.svc.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, resp.Days[1].Assignees)

	resp, err = f.svc.RemoveAssignment(ctx, roster.Monday, ani)
	require.NoError(t, err)
	assert.Empty(t, resp.Days[0].Assignees)
	assert.Equal(t, []string{"Ani"}, assigneeNames(resp.Days[2]))

	_, err = f.svc.AddAssignment(ctx, roster.AddAssignmentRequest{PersonID: "ghost", Days: []roster.Weekday{roster.Monday}})
	assert.ErrorIs(t, err, person.ErrPersonNotFound)

	_, err = f.svc.RemoveAssignment(ctx, roster.Weekday(9), ani)
	assert.ErrorIs(t, err, roster.ErrInvalidDay)
}

func TestRosterService_Available(t *testing.T) {
	f := setupRoster(t, "Ani", "Budi", "Citra")
	ctx := context.Background()

	_, err := f.svc.AddAssignment(ctx, roster.AddAssignmentRequest{PersonID: f.ids["Ani"], Days: []roster.Weekday{roster.Monday}})
	require.NoError(t, err)
	_, err = f.svc.AddAssignment(ctx, roster.AddAssignmentRequest{PersonID: f.ids["Budi"], Days: []roster.Weekday{roster.Tuesday}})
	require.NoError(t, err)

	resp, err := f.svc.Available(ctx, []roster.Weekday{roster.Monday, roster.Tuesday})
	require.NoError(t, err)
	require.Len(t, resp.People, 1)
	assert.Equal(t, "Citra", resp.People[0].DisplayName)

	resp, err = f.svc.Available(ctx, []roster.Weekday{roster.Monday})
	require.NoError(t, err)
	assert.Len(t, resp.People, 2)
}

func TestRosterService_SaveReloadClear(t *testing.T) {
	f := setupRoster(t, "Ani", "Budi")
	ctx := context.Background()

	_, err := f.svc.Generate(ctx, roster.GenerateRequest{HeadcountPerDay: 1})
	require.NoError(t, err)

	saved, err := f.svc.Save(ctx, roster.SaveRequest{})
	require.NoError(t, err)
	assert.True(t, saved.IsSaved)
	assert.Equal(t, int64(1), saved.Version)

	stored, err := f.repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, stored.Days[roster.Monday], 1)

	_, err = f.svc.RemoveAssignment(ctx, roster.Monday, f.ids["Ani"])
	require.NoError(t, err)

	reloaded, err := f.svc.Reload(ctx)
	require.NoError(t, err)
	assert.True(t, reloaded.IsSaved)
	assert.Equal(t, []string{"Ani"}, assigneeNames(reloaded.Days[0]))

	cleared, err := f.svc.Clear(ctx)
	require.NoError(t, err)
	assert.True(t, cleared.IsSaved)
	assert.Equal(t, int64(2), cleared.Version)
	for _, day := range cleared.Days {
		assert.Empty(t, day.Assignees)
	}
}

func TestRosterService_SaveVersionConflict(t *testing.T) {
	f := setupRoster(t, "Ani")
	ctx := context.Background()

	_, err := f.svc.Save(ctx, roster.SaveRequest{})
	require.NoError(t, err)

	// Someone else saves behind our back.
	_, err = f.repo.Save(ctx, roster.EmptyDays(), nil)
	require.NoError(t, err)

	stale := int64(1)
	_, err = f.svc.Save(ctx, roster.SaveRequest{Version: &stale})
	assert.ErrorIs(t, err, roster.ErrRosterVersionConflict)

	resp, err := f.svc.Reload(ctx)
	require.NoError(t, err)
	current := resp.Version
	_, err = f.svc.Save(ctx, roster.SaveRequest{Version: &current})
	assert.NoError(t, err)
}

func TestRosterService_PublishesEvents(t *testing.T) {
	f := setupRoster(t, "Ani", "Budi")
	ctx := context.Background()

	events, cleanup := f.svc.Subscribe(ctx, "test")
	defer cleanup()

	_, err := f.svc.Generate(ctx, roster.GenerateRequest{HeadcountPerDay: 1})
	require.NoError(t, err)
	_, err = f.svc.Save(ctx, roster.SaveRequest{})
	require.NoError(t, err)

	// Removing someone who is not on the day changes nothing.
	_, err = f.svc.RemoveAssignment(ctx, roster.Monday, "nobody")
	require.NoError(t, err)

	got := make([]string, 0, 2)
	for len(got) < 2 {
		select {
		case ev := <-events:
			got = append(got, ev.Event)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for roster events")
		}
	}
	assert.Equal(t, []string{EventChanged, EventSaved}, got)

	select {
	case ev := <-events:
		t.Fatalf("unexpected event %q", ev.Event)
	default:
	}
}

func TestRosterService_ZeroTimeoutFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	people := memory.NewPersonRepository()
	_, err := people.Create(ctx, person.Person{Username: "ani", DisplayName: "Ani", Role: person.RoleMember})
	require.NoError(t, err)

	svc := NewRosterService(memory.NewRosterRepository(), people, sse.NewHub(), 0, nil)

	_, err = svc.Generate(ctx, roster.GenerateRequest{HeadcountPerDay: 1})
	require.NoError(t, err)
	saved, err := svc.Save(ctx, roster.SaveRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.Version)
}
