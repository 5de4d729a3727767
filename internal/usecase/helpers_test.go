package usecase_test

import (
	"time"

	"github.com/runoshun/timegrid/internal/domain"
	"github.com/runoshun/timegrid/internal/testutil"
)

// now is Wednesday 2026-10-14 12:00 UTC.
var now = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func clock() *testutil.MockClock {
	return &testutil.MockClock{NowTime: now}
}

func utcConfig() *testutil.MockConfigLoader {
	loader := testutil.NewMockConfigLoader()
	loader.Config.Layout.Timezone = "UTC"
	return loader
}

func at(day, hour, minute int) time.Time {
	return time.Date(2026, 10, day, hour, minute, 0, 0, time.UTC)
}

func scheduled(id string, start, end time.Time) *domain.Task {
	return &domain.Task{ID: id, Title: id, Start: &start, End: &end}
}
