package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/besti-sekretariat/besti-backend-go/internal/domain/inventory"
	"github.com/besti-sekretariat/besti-backend-go/internal/domain/person"
	"github.com/besti-sekretariat/besti-backend-go/internal/pkg/clock"
	"github.com/besti-sekretariat/besti-backend-go/internal/pkg/jwt"
	"github.com/besti-sekretariat/besti-backend-go/internal/pkg/sse"
	"github.com/besti-sekretariat/besti-backend-go/internal/pkg/storage"
	"github.com/besti-sekretariat/besti-backend-go/internal/repository/memory"
	attendanceService "github.com/besti-sekretariat/besti-backend-go/internal/service/attendance"
	authService "github.com/besti-sekretariat/besti-backend-go/internal/service/auth"
	"github.com/besti-sekretariat/besti-backend-go/internal/service/file"
	inventoryService "github.com/besti-sekretariat/besti-backend-go/internal/service/inventory"
	personService "github.com/besti-sekretariat/besti-backend-go/internal/service/person"
	rosterService "github.com/besti-sekretariat/besti-backend-go/internal/service/roster"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestSecret   = "test-secret-key-for-jwt"
	handlerTestPassword = "password123"
)

var wib = time.FixedZone("WIB", 7*60*60)

type testApp struct {
	router *chi.Mux
	clock  *clock.Fake
	admin  person.Person
	member person.Person
	items  []inventory.Item
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	ctx := context.Background()

	hash, err := authService.HashPassword(handlerTestPassword)
	require.NoError(t, err)

	people := memory.NewPersonRepository()
	admin, err := people.Create(ctx, person.Person{Username: "koordinator", DisplayName: "Koordinator", Role: person.RoleAdmin, PasswordHash: &hash})
	require.NoError(t, err)
	member, err := people.Create(ctx, person.Person{Username: "ani", DisplayName: "Ani", Role: person.RoleMember, PasswordHash: &hash})
	require.NoError(t, err)

	inv := memory.NewInventoryRepository()
	var items []inventory.Item
	for _, name := range []string{"Printer", "Proyektor"} {
		item, err := inv.Create(ctx, inventory.Item{Name: name, QuantityOnHand: 1, Status: inventory.StatusAvailable})
		require.NoError(t, err)
		items = append(items, item)
	}

	clk := clock.NewFake(time.Date(2025, 1, 6, 8, 0, 0, 0, wib))
	jwtService := jwt.NewJWTService(handlerTestSecret, time.Hour)
	hub := sse.NewHub()

	router := NewRouter(
		RouterOptions{FrontendURL: "http://localhost:3000"},
		jwtService,
		NewAuthHandler(authService.NewAuthService(people, jwtService, nil)),
		NewPersonHandler(personService.NewPersonService(people)),
		NewInventoryHandler(inventoryService.NewInventoryService(inv, nil)),
		NewRosterHandler(rosterService.NewRosterService(memory.NewRosterRepository(), people, hub, time.Second, nil), jwtService),
		NewAttendanceHandler(attendanceService.NewAttendanceService(
			memory.NewAttendanceRepository(), inv, people,
			file.NewFileService(storage.NewMemoryStorage("/uploads")),
			clk,
			attendanceService.Settings{Location: wib, MinDuration: 120 * time.Minute, PersistenceTimeout: time.Second},
			nil,
		)),
	)

	return &testApp{router: router, clock: clk, admin: admin, member: member, items: items}
}

func (a *testApp) login(t *testing.T, username string) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": username, "password": handlerTestPassword})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		AccessToken string `json:"access_token"`
	}
	decodeData(t, rec, &body)
	require.NotEmpty(t, body.AccessToken)
	return body.AccessToken
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) doMultipart(t *testing.T, path, token string, data map[string]float64) *httptest.ResponseRecorder {
	t.Helper()
	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)

	raw, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("data", string(raw)))

	part, err := mw.CreateFormFile("photo", "selfie.png")
	require.NoError(t, err)
	require.NoError(t, png.Encode(part, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	env := decodeEnvelope(t, rec)
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

func TestLoginHandler(t *testing.T) {
	app := newTestApp(t)

	t.Run("success", func(t *testing.T) {
		token := app.login(t, "koordinator")
		assert.NotEmpty(t, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "ani", "password": "wrongpassword"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("validation", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "ani"})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
		assert.Contains(t, env.Error.Details, "password")
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		app.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthMiddleware(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/api/v1/roster", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/v1/roster", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	memberToken := app.login(t, "ani")
	rec = app.do(t, http.MethodPost, "/api/v1/roster/generate", memberToken, map[string]int{"headcount_per_day": 1})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Stream tokens are only good for the event stream.
	tokenRec := app.do(t, http.MethodPost, "/api/v1/roster/events/token", memberToken, nil)
	require.Equal(t, http.StatusOK, tokenRec.Code)
	var streamToken struct {
		Token string `json:"token"`
	}
	decodeData(t, tokenRec, &streamToken)
	rec = app.do(t, http.MethodGet, "/api/v1/roster", streamToken.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRosterHandlers(t *testing.T) {
	app := newTestApp(t)
	adminToken := app.login(t, "koordinator")

	rec := app.do(t, http.MethodPost, "/api/v1/roster/generate", adminToken, map[string]int{"headcount_per_day": 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var roster struct {
		IsSaved bool `json:"is_saved"`
		Version int64
		Days    []struct {
			Day       string `json:"day"`
			Assignees []struct {
				PersonID string `json:"person_id"`
			} `json:"assignees"`
		} `json:"days"`
	}
	decodeData(t, rec, &roster)
	assert.False(t, roster.IsSaved)
	require.Len(t, roster.Days, 5)
	assert.Equal(t, "senin", roster.Days[0].Day)
	assert.Len(t, roster.Days[0].Assignees, 2)

	rec = app.do(t, http.MethodPost, "/api/v1/roster/save", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeData(t, rec, &roster)
	assert.True(t, roster.IsSaved)

	rec = app.do(t, http.MethodPost, "/api/v1/roster/assignments", adminToken, map[string]interface{}{
		"person_id": app.member.ID,
		"days":      []string{"senin", "selasa"},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "ROSTER_CONFLICT", env.Error.Code)
	assert.Equal(t, "senin,selasa", env.Error.Details["days"])

	rec = app.do(t, http.MethodDelete, "/api/v1/roster/days/senin/assignments/"+app.member.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &roster)
	assert.False(t, roster.IsSaved)
	assert.Len(t, roster.Days[0].Assignees, 1)

	rec = app.do(t, http.MethodGet, "/api/v1/roster/available?days=senin", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var available struct {
		People []struct {
			ID string `json:"id"`
		} `json:"people"`
	}
	decodeData(t, rec, &available)
	require.Len(t, available.People, 1)
	assert.Equal(t, app.member.ID, available.People[0].ID)

	rec = app.do(t, http.MethodGet, "/api/v1/roster/available?days=minggu", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	stale := int64(0)
	rec = app.do(t, http.MethodPost, "/api/v1/roster/save", adminToken, map[string]*int64{"version": &stale})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ROSTER_VERSION_CONFLICT", decodeEnvelope(t, rec).Error.Code)

	rec = app.do(t, http.MethodPost, "/api/v1/roster/generate", adminToken, map[string]int{"headcount_per_day": 3})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env = decodeEnvelope(t, rec)
	assert.Equal(t, "INSUFFICIENT_PEOPLE", env.Error.Code)
	assert.Equal(t, "2", env.Error.Details["available"])

	rec = app.do(t, http.MethodDelete, "/api/v1/roster", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &roster)
	assert.True(t, roster.IsSaved)
	for _, day := range roster.Days {
		assert.Empty(t, day.Assignees)
	}
}

func TestInventoryHandlers(t *testing.T) {
	app := newTestApp(t)
	adminToken := app.login(t, "koordinator")
	memberToken := app.login(t, "ani")

	rec := app.do(t, http.MethodPost, "/api/v1/inventory", memberToken, map[string]interface{}{"name": "Stempel"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/v1/inventory", adminToken, map[string]interface{}{"name": "Stempel", "quantity_on_hand": 2})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var item struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decodeData(t, rec, &item)
	assert.Equal(t, "tersedia", item.Status)

	rec = app.do(t, http.MethodPost, "/api/v1/inventory", adminToken, map[string]interface{}{"name": "", "quantity_on_hand": -1})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = app.do(t, http.MethodPut, "/api/v1/inventory/"+item.ID, adminToken, map[string]interface{}{"status": "rusak"})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &item)
	assert.Equal(t, "rusak", item.Status)

	rec = app.do(t, http.MethodGet, "/api/v1/inventory", memberToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []json.RawMessage
	decodeData(t, rec, &items)
	assert.Len(t, items, 3)

	rec = app.do(t, http.MethodDelete, "/api/v1/inventory/"+item.ID, adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = app.do(t, http.MethodDelete, "/api/v1/inventory/"+item.ID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAttendanceHandlers(t *testing.T) {
	app := newTestApp(t)
	memberToken := app.login(t, "ani")
	adminToken := app.login(t, "koordinator")
	location := map[string]float64{"latitude": -6.2, "longitude": 106.8}

	rec := app.doMultipart(t, "/api/v1/attendance/check-in", memberToken, location)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var session struct {
		ID            string `json:"id"`
		State         string `json:"state"`
		DisplayStatus string `json:"display_status"`
		Checklist     []struct {
			InventoryItemID string `json:"inventory_item_id"`
		} `json:"checklist"`
	}
	decodeData(t, rec, &session)
	assert.Equal(t, "checked_in", session.State)
	assert.Equal(t, "sedang", session.DisplayStatus)
	require.Len(t, session.Checklist, 2)

	rec = app.doMultipart(t, "/api/v1/attendance/check-in", memberToken, location)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "DUPLICATE_CHECK_IN", decodeEnvelope(t, rec).Error.Code)

	checkOutPath := "/api/v1/attendance/" + session.ID + "/check-out"
	rec = app.doMultipart(t, checkOutPath, memberToken, location)
	assert.Equal(t, http.StatusConflict, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "NOT_ELIGIBLE", env.Error.Code)
	assert.Equal(t, "checklist_pending", env.Error.Details["reason"])

	checklistPath := "/api/v1/attendance/" + session.ID + "/checklist"
	rec = app.do(t, http.MethodPut, checklistPath, memberToken, map[string]interface{}{
		"entries": []map[string]string{{"inventory_item_id": session.Checklist[0].InventoryItemID, "status": "baik"}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "INCOMPLETE_CHECKLIST", decodeEnvelope(t, rec).Error.Code)

	rec = app.do(t, http.MethodPut, checklistPath, adminToken, map[string]interface{}{"entries": []map[string]string{}})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(t, http.MethodPut, checklistPath, memberToken, map[string]interface{}{
		"entries": []map[string]string{
			{"inventory_item_id": session.Checklist[0].InventoryItemID, "status": "baik"},
			{"inventory_item_id": session.Checklist[1].InventoryItemID, "status": "rusak"},
		},
		"note": "kabel proyektor putus",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	app.clock.Advance(100 * time.Minute)
	rec = app.doMultipart(t, checkOutPath, memberToken, location)
	assert.Equal(t, http.StatusConflict, rec.Code)
	env = decodeEnvelope(t, rec)
	assert.Equal(t, "duration_not_met", env.Error.Details["reason"])
	assert.Equal(t, "20", env.Error.Details["minutes_remaining"])

	app.clock.Advance(20 * time.Minute)
	rec = app.doMultipart(t, checkOutPath, memberToken, location)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeData(t, rec, &session)
	assert.Equal(t, "checked_out", session.State)

	rec = app.do(t, http.MethodGet, "/api/v1/attendance/today", memberToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var today struct {
		DisplayStatus string `json:"display_status"`
	}
	decodeData(t, rec, &today)
	assert.Equal(t, "sudah", today.DisplayStatus)

	rec = app.do(t, http.MethodGet, "/api/v1/attendance?date=2025-01-06", memberToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/v1/attendance?date=2025-01-06", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var report struct {
		Totals map[string]int `json:"totals"`
	}
	decodeData(t, rec, &report)
	assert.Equal(t, 1, report.Totals["sudah"])
	assert.Equal(t, 1, report.Totals["belum"])

	rec = app.do(t, http.MethodGet, "/api/v1/attendance/me", memberToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []json.RawMessage
	decodeData(t, rec, &history)
	assert.Len(t, history, 1)

	rec = app.do(t, http.MethodGet, "/api/v1/attendance/"+session.ID, adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = app.do(t, http.MethodGet, "/api/v1/attendance/missing", memberToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRosterStream(t *testing.T) {
	app := newTestApp(t)
	adminToken := app.login(t, "koordinator")

	server := httptest.NewServer(app.router)
	defer server.Close()

	rec := app.do(t, http.MethodPost, "/api/v1/roster/events/token", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var streamToken struct {
		Token     string `json:"token"`
		ExpiresIn int    `json:"expires_in"`
	}
	decodeData(t, rec, &streamToken)
	assert.Equal(t, 300, streamToken.ExpiresIn)

	resp, err := http.Get(server.URL + "/api/v1/roster/events")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/v1/roster/events?token="+streamToken.Token, nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: connected\n", line)

	saveRec := app.do(t, http.MethodPost, "/api/v1/roster/save", adminToken, nil)
	require.Equal(t, http.StatusOK, saveRec.Code)

	for {
		line, err = reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "event: roster.") {
			break
		}
	}
	assert.Equal(t, "event: roster.saved\n", line)
	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, line, `"is_saved":true`)
}
