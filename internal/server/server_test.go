package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/timegrid/internal/domain"
	"github.com/runoshun/timegrid/internal/testutil"
	"github.com/runoshun/timegrid/internal/usecase"
)

func at(day, hour, minute int) *time.Time {
	t := time.Date(2026, 10, day, hour, minute, 0, 0, time.UTC)
	return &t
}

func newTestServer(t *testing.T, reader domain.TaskReader) http.Handler {
	t.Helper()
	loader := testutil.NewMockConfigLoader()
	loader.Config.Layout.Timezone = "UTC"
	clock := &testutil.MockClock{NowTime: time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)}
	logger := &testutil.MockLogger{}

	return New(Deps{
		Timeline:  usecase.NewShowTimeline(reader, loader, clock, logger),
		Calendar:  usecase.NewShowCalendar(reader, loader, clock, logger),
		ListTasks: usecase.NewListTasks(reader),
		ShowTask:  usecase.NewShowTask(reader),
	}).Handler()
}

func sampleTasks() *testutil.MockTaskReader {
	trip := &domain.Task{ID: "trip", Title: "Trip", Start: at(16, 22, 0), End: at(19, 2, 0)}
	trip.SubTasks = []*domain.Task{{ID: "pack", Title: "Pack", ParentID: "trip"}}
	return &testutil.MockTaskReader{Tasks: []*domain.Task{
		{ID: "review", Title: "Review <b>", Start: at(12, 9, 0), End: at(12, 11, 0)},
		trip,
		{ID: "someday", Title: "Someday"},
	}}
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthz(t *testing.T) {
	rec := get(t, newTestServer(t, sampleTasks()), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
}

func TestTimeline(t *testing.T) {
	rec := get(t, newTestServer(t, sampleTasks()), "/api/timeline?week=2026-10-14&zoom=in")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decode(t, rec)
	assert.Equal(t, "in", body["zoom"])
	blocks := body["blocks"].([]any)
	require.Len(t, blocks, 2)

	ids := map[string]string{}
	for _, b := range blocks {
		block := b.(map[string]any)
		ids[block["taskId"].(string)] = block["key"].(string)
	}
	assert.Equal(t, "review", ids["review"])
	assert.True(t, strings.HasPrefix(ids["trip"], "trip_week_"))
}

func TestTimeline_NextWeekKeepsTaskID(t *testing.T) {
	rec := get(t, newTestServer(t, sampleTasks()), "/api/timeline?week=2026-10-19")

	require.Equal(t, http.StatusOK, rec.Code)
	blocks := decode(t, rec)["blocks"].([]any)
	require.Len(t, blocks, 1)
	block := blocks[0].(map[string]any)
	assert.Equal(t, "trip", block["taskId"])
	assert.Equal(t, true, block["isLastSegment"])
}

func TestBadRequests(t *testing.T) {
	h := newTestServer(t, sampleTasks())
	for _, target := range []string{
		"/api/timeline?week=10/14/2026",
		"/api/timeline?zoom=sideways",
		"/api/calendar/day?date=yesterday",
		"/api/calendar/week?narrow=maybe",
		"/timeline.svg?week=nope",
	} {
		t.Run(target, func(t *testing.T) {
			rec := get(t, h, target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decode(t, rec)["error"])
		})
	}
}

func TestCalendarDay(t *testing.T) {
	reader := &testutil.MockTaskReader{Tasks: []*domain.Task{
		{ID: "a", Title: "A", Start: at(14, 9, 0), End: at(14, 10, 0)},
		{ID: "b", Title: "B", Start: at(14, 9, 30), End: at(14, 11, 0)},
	}}

	rec := get(t, newTestServer(t, reader), "/api/calendar/day?date=2026-10-14&narrow=true")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "day", body["view"])
	assert.Equal(t, 48.0, body["pixelsPerHour"])
	days := body["days"].([]any)
	require.Len(t, days, 1)
	entries := days[0].(map[string]any)["entries"].([]any)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].(map[string]any)["taskId"])
	assert.Equal(t, 2.0, entries[1].(map[string]any)["groupSize"])
}

func TestCalendarMonth(t *testing.T) {
	rec := get(t, newTestServer(t, sampleTasks()), "/api/calendar/month?date=2026-10-01")

	require.Equal(t, http.StatusOK, rec.Code)
	month := decode(t, rec)["month"].(map[string]any)
	assert.Len(t, month["cells"].([]any), 42)
}

func TestCalendarUnknownView(t *testing.T) {
	rec := get(t, newTestServer(t, sampleTasks()), "/api/calendar/year")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTasks(t *testing.T) {
	rec := get(t, newTestServer(t, sampleTasks()), "/api/tasks")

	require.Equal(t, http.StatusOK, rec.Code)
	var tasks []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	require.Len(t, tasks, 3)
	assert.Equal(t, "trip", tasks[1]["id"])
	assert.Equal(t, 1.0, tasks[1]["subtaskCount"])
}

func TestTask(t *testing.T) {
	h := newTestServer(t, sampleTasks())

	rec := get(t, h, "/api/tasks/pack")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "trip", decode(t, rec)["parentId"])

	missing := get(t, h, "/api/tasks/nope")
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Contains(t, decode(t, missing)["error"], "task not found")
}

func TestStoreError(t *testing.T) {
	reader := &testutil.MockTaskReader{ListErr: errors.New("connection refused")}

	rec := get(t, newTestServer(t, reader), "/api/timeline")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "connection refused")
}

func TestTimelineSVG(t *testing.T) {
	rec := get(t, newTestServer(t, sampleTasks()), "/timeline.svg?week=2026-10-12")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, `data-task-id="review"`)
	assert.Contains(t, body, "Review &lt;b&gt;")
}

func TestCalendarDaySVG(t *testing.T) {
	reader := &testutil.MockTaskReader{Tasks: []*domain.Task{
		{ID: "a", Title: "A", Start: at(14, 9, 0), End: at(14, 10, 0)},
	}}

	rec := get(t, newTestServer(t, reader), "/calendar/day.svg?date=2026-10-14")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-task-id="a"`)
	assert.Contains(t, rec.Body.String(), "Wed 2026-10-14")
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(domain.ErrInvalidZoom))
	assert.Equal(t, http.StatusNotFound, statusFor(domain.ErrTaskNotFound))
	assert.Equal(t, http.StatusInternalServerError, statusFor(domain.ErrReadOnlyStore))
}
