package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mamadbah2/birdo/internal/config"
)

type fakeSender struct {
	calls int
	end   time.Time
	err   error
}

func (f *fakeSender) SendWeeklyDigests(_ context.Context, end time.Time) error {
	f.calls++
	f.end = end
	return f.err
}

func TestNewSchedulerRejectsUnknownTimezone(t *testing.T) {
	_, err := NewScheduler(config.ReportingConfig{CronSchedule: "0 20 * * 5", Timezone: "Mars/Olympus"}, &fakeSender{}, nil)
	assert.Error(t, err)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s, err := NewScheduler(config.ReportingConfig{CronSchedule: "every friday", Timezone: "UTC"}, &fakeSender{}, nil)
	require.NoError(t, err)
	assert.Error(t, s.Start())
}

func TestStartRegistersDigestJob(t *testing.T) {
	s, err := NewScheduler(config.ReportingConfig{CronSchedule: "0 20 * * 5", Timezone: "America/Sao_Paulo"}, &fakeSender{}, nil)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	defer s.Stop()

	entries := s.cron.Entries()
	require.Len(t, entries, 1)
	next := entries[0].Next
	assert.Equal(t, time.Friday, next.Weekday())
	assert.Equal(t, 20, next.Hour())
	assert.Equal(t, "America/Sao_Paulo", next.Location().String())
}

func TestSendWeeklyDigests(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sender := &fakeSender{}
	s, err := NewScheduler(config.ReportingConfig{CronSchedule: "0 20 * * 5", Timezone: "UTC"}, sender, zap.New(core))
	require.NoError(t, err)
	fixed := time.Date(2024, 5, 10, 20, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	s.sendWeeklyDigests()
	assert.Equal(t, 1, sender.calls)
	assert.Equal(t, fixed, sender.end)
	assert.Equal(t, 1, logs.FilterMessage("weekly digests sent").Len())

	sender.err = errors.New("whatsapp down")
	s.sendWeeklyDigests()
	assert.Equal(t, 1, logs.FilterMessage("weekly digest run finished with errors").Len())
}
