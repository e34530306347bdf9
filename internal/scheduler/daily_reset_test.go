package scheduler

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResetter struct {
	calls int
	err   error
}

func (f *fakeResetter) ResetAll(ctx context.Context) (int64, error) {
	f.calls++
	return 3, f.err
}

func TestNewDailyResetValidSpec(t *testing.T) {
	d, err := NewDailyReset("0 0 * * *", &fakeResetter{}, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, d)

	d.Start()
	d.Stop()
}

func TestNewDailyResetInvalidSpec(t *testing.T) {
	_, err := NewDailyReset("not a cron spec", &fakeResetter{}, zerolog.Nop())
	assert.Error(t, err)
}
