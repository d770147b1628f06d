package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_AddJob_InvalidSpec(t *testing.T) {
	t.Parallel()

	s := NewScheduler(time.UTC)

	err := s.AddJob("bad", "not a cron spec", func(ctx context.Context) error { return nil })
	assert.Error(t, err)
	assert.Empty(t, s.Snapshot())
}

func TestScheduler_Snapshot_TracksRegistrationOrder(t *testing.T) {
	t.Parallel()

	s := NewScheduler(time.UTC)
	noop := func(ctx context.Context) error { return nil }

	require.NoError(t, s.AddJob("first", "1 0 * * *", noop))
	require.NoError(t, s.AddJob("second", "59 23 * * *", noop))

	snapshot := s.Snapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, "first", snapshot[0].Name)
	assert.Equal(t, "1 0 * * *", snapshot[0].Spec)
	assert.Equal(t, "second", snapshot[1].Name)
	assert.Nil(t, snapshot[0].LastRunAt)
}

func TestScheduler_RunOnce_RecordsNothingButExecutesAll(t *testing.T) {
	t.Parallel()

	s := NewScheduler(time.UTC)

	var ran []string
	require.NoError(t, s.AddJob("ok", "1 0 * * *", func(ctx context.Context) error {
		ran = append(ran, "ok")
		return nil
	}))
	require.NoError(t, s.AddJob("fails", "1 0 * * *", func(ctx context.Context) error {
		ran = append(ran, "fails")
		return errors.New("boom")
	}))
	require.NoError(t, s.AddJob("after", "1 0 * * *", func(ctx context.Context) error {
		ran = append(ran, "after")
		return nil
	}))

	// A failing job never stops the ones after it.
	s.RunOnce(context.Background())
	assert.Equal(t, []string{"ok", "fails", "after"}, ran)
}

func TestScheduler_NextRunInLocation(t *testing.T) {
	t.Parallel()

	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	s := NewScheduler(jakarta)
	require.NoError(t, s.AddJob("end_of_day", "59 23 * * *", func(ctx context.Context) error { return nil }))

	s.Start()
	defer s.Stop()

	snapshot := s.Snapshot()
	require.Len(t, snapshot, 1)
	require.NotNil(t, snapshot[0].NextRunAt)

	next := snapshot[0].NextRunAt.In(jakarta)
	assert.Equal(t, 23, next.Hour())
	assert.Equal(t, 59, next.Minute())
}
