package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/focusnav/internal/platform"
	"github.com/roach88/focusnav/internal/supports"
)

const (
	chrome60UA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/60.0.3112.90 Safari/537.36"
	chrome60b  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/60.0.3112.113 Safari/537.36"
	firefoxUA  = "Mozilla/5.0 (X11; Linux x86_64; rv:52.0) Gecko/20100101 Firefox/52.0"
)

func TestSaveRunAndLoadCapabilities(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	d := platform.Parse(chrome60UA)

	run, err := s.SaveRun(ctx, d, "browser:chromium", supports.Set{
		supports.ShadowRoot: true,
		supports.FocusSvg:   false,
	})
	require.NoError(t, err)
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, int64(1), run.Seq)
	assert.Equal(t, d.Key(), run.EnvKey)

	set, ok, err := s.LoadCapabilities(ctx, d.Key())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, supports.Set{supports.ShadowRoot: true, supports.FocusSvg: false}, set)
}

func TestLoadCapabilitiesUnknownEnvironment(t *testing.T) {
	s := createTestStore(t)

	set, ok, err := s.LoadCapabilities(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, set)
}

func TestSaveRunOverlaysPreviousValues(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	// patch releases share the environment key
	first := platform.Parse(chrome60UA)
	second := platform.Parse(chrome60b)
	require.Equal(t, first.Key(), second.Key())

	_, err := s.SaveRun(ctx, first, "browser:chromium", supports.Set{supports.FocusSvg: true, supports.FocusTable: true})
	require.NoError(t, err)
	run, err := s.SaveRun(ctx, second, "browser:chromium", supports.Set{supports.FocusSvg: false})
	require.NoError(t, err)
	assert.Equal(t, int64(2), run.Seq)

	set, _, err := s.LoadCapabilities(ctx, first.Key())
	require.NoError(t, err)
	assert.False(t, set.Has(supports.FocusSvg), "latest run wins")
	assert.True(t, set.Has(supports.FocusTable), "untouched capability kept")

	var runID string
	err = s.db.QueryRow(`SELECT run_id FROM capabilities WHERE name = 'focusSvg'`).Scan(&runID)
	require.NoError(t, err)
	assert.Equal(t, "run-2", runID)
}

func TestRuns(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	empty, err := s.Runs(ctx, "")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	chrome := platform.Parse(chrome60UA)
	firefox := platform.Parse(firefoxUA)
	_, err = s.SaveRun(ctx, chrome, "profile:chrome60", supports.Set{})
	require.NoError(t, err)
	_, err = s.SaveRun(ctx, firefox, "browser:firefox", supports.Set{supports.FocusSvg: true})
	require.NoError(t, err)

	all, err := s.Runs(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, []int64{1, 2}, []int64{all[0].Seq, all[1].Seq})
	assert.Equal(t, platform.Gecko, all[1].Descriptor.Engine)
	assert.Equal(t, platform.Linux, all[1].Descriptor.OS)
	assert.Equal(t, 52, all[1].Descriptor.Major)
	assert.Equal(t, firefoxUA, all[1].Descriptor.UserAgent)

	only, err := s.Runs(ctx, firefox.Key())
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, "run-2", only[0].ID)
	assert.Equal(t, "browser:firefox", only[0].Source)
}

func TestHostAnswersFromRecordedTable(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	d := platform.Parse(firefoxUA)

	_, err := s.SaveRun(ctx, d, "browser:firefox", supports.Set{supports.FocusSvg: true})
	require.NoError(t, err)

	host, err := s.Host(ctx, d.Key())
	require.NoError(t, err)
	cache := supports.NewCache(host)
	assert.True(t, cache.Get(ctx, supports.FocusSvg))
	assert.False(t, cache.Get(ctx, supports.FocusTable))
}

func TestDefaultRunIDsAreUUIDv7(t *testing.T) {
	s, err := Open(t.TempDir() + "/uuid.db")
	require.NoError(t, err)
	defer s.Close()

	run, err := s.SaveRun(context.Background(), platform.Parse(firefoxUA), "test", supports.Set{})
	require.NoError(t, err)

	id, err := uuid.Parse(run.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestSequentialRunIDs(t *testing.T) {
	s, err := Open(":memory:", WithIDGenerator(&SequentialIDGenerator{}))
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	first, err := s.SaveRun(ctx, platform.Parse(firefoxUA), "test", supports.Set{})
	require.NoError(t, err)
	second, err := s.SaveRun(ctx, platform.Parse(chrome60UA), "test", supports.Set{})
	require.NoError(t, err)

	assert.Equal(t, "run-1", first.ID)
	assert.Equal(t, "run-2", second.ID)
}
