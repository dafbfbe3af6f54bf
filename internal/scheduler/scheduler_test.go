package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/cacao/internal/config"
	"github.com/mamadbah2/cacao/internal/domain/models"
)

type fakeRefresher struct {
	calls int
	err   error
}

func (f *fakeRefresher) Refresh(context.Context) (*models.Dataset, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &models.Dataset{}, nil
}

type fakeDigest struct{ text string }

func (f fakeDigest) SeasonDigest(context.Context, string) (string, error) { return f.text, nil }

type fakeSender struct {
	sent []models.OutboundMessageRequest
}

func (f *fakeSender) Send(_ context.Context, req models.OutboundMessageRequest) (string, error) {
	f.sent = append(f.sent, req)
	return "wamid.1", nil
}

func baseConfig() config.Config {
	return config.Config{
		Reporting: config.ReportingConfig{
			RefreshSchedule: "0 * * * *",
			DigestSchedule:  "0 20 * * 5",
			Timezone:        "Africa/Abidjan",
		},
		WhatsApp: config.WhatsAppConfig{AccessToken: "t", PhoneNumberID: "p", DigestRecipient: "225"},
	}
}

func TestRegisterJobs(t *testing.T) {
	s, err := NewScheduler(baseConfig(), &fakeRefresher{}, fakeDigest{}, &fakeSender{}, nil)
	require.NoError(t, err)
	require.NoError(t, s.Register())
	assert.Equal(t, 2, s.Entries())

	cfg := baseConfig()
	cfg.WhatsApp.AccessToken = ""
	cfg.Reporting.RefreshSchedule = ""
	s, err = NewScheduler(cfg, &fakeRefresher{}, fakeDigest{}, &fakeSender{}, nil)
	require.NoError(t, err)
	require.NoError(t, s.Register())
	assert.Equal(t, 0, s.Entries())
}

func TestRegisterRejectsBadSchedule(t *testing.T) {
	cfg := baseConfig()
	cfg.Reporting.RefreshSchedule = "every now and then"
	s, err := NewScheduler(cfg, &fakeRefresher{}, fakeDigest{}, nil, nil)
	require.NoError(t, err)
	require.Error(t, s.Register())
}

func TestNewSchedulerBadTimezone(t *testing.T) {
	cfg := baseConfig()
	cfg.Reporting.Timezone = "Mars/Olympus"
	_, err := NewScheduler(cfg, nil, nil, nil, nil)
	require.Error(t, err)
}

func TestJobs(t *testing.T) {
	refresher := &fakeRefresher{}
	sender := &fakeSender{}
	s, err := NewScheduler(baseConfig(), refresher, fakeDigest{text: "season 2020-2021"}, sender, nil)
	require.NoError(t, err)

	s.refreshDataset()
	assert.Equal(t, 1, refresher.calls)

	refresher.err = errors.New("boom")
	s.refreshDataset()
	assert.Equal(t, 2, refresher.calls)

	s.sendSeasonDigest()
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "225", sender.sent[0].To)
	assert.Equal(t, "season 2020-2021", sender.sent[0].Message)
}
