package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAged(t *testing.T, fsys afero.Fs, path string, size int, age time.Duration, now time.Time) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fsys, path, make([]byte, size), 0o644))
	mt := now.Add(-age)
	require.NoError(t, fsys.Chtimes(path, mt, mt))
}

func TestSweep_RemovesStaleFiles(t *testing.T) {
	s, fsys := newMemStore(t)
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	staleUpload := filepath.Join(s.UploadsDir(), "old.docx")
	staleStaging := filepath.Join(s.UploadsDir(), stagingPrefix+"abandoned")
	freshUpload := filepath.Join(s.UploadsDir(), "new.docx")
	oldResult := filepath.Join(s.ResultsDir(), "old.pdf")

	writeAged(t, fsys, staleUpload, 10, 48*time.Hour, now)
	writeAged(t, fsys, staleStaging, 5, 25*time.Hour, now)
	writeAged(t, fsys, freshUpload, 7, time.Hour, now)
	writeAged(t, fsys, oldResult, 3, 72*time.Hour, now)

	rep, err := s.Sweep(SweepPolicy{UploadTTL: 24 * time.Hour})
	require.NoError(t, err)

	assert.Equal(t, 2, rep.Removed)
	assert.Equal(t, int64(15), rep.Freed)

	for path, want := range map[string]bool{
		staleUpload:  false,
		staleStaging: false,
		freshUpload:  true,
		oldResult:    true, // ResultTTL == 0: результаты не трогаем
	} {
		ok, err := afero.Exists(fsys, path)
		require.NoError(t, err)
		assert.Equal(t, want, ok, path)
	}

	rep, err = s.Sweep(SweepPolicy{UploadTTL: 24 * time.Hour, ResultTTL: 48 * time.Hour})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Removed)
}

func TestStartJanitor_DisabledIsNoop(t *testing.T) {
	s, _ := newMemStore(t)

	stop := s.StartJanitor(SweepPolicy{UploadTTL: time.Hour}, 0, zerolog.Nop())
	stop()
	stop = s.StartJanitor(SweepPolicy{}, time.Minute, zerolog.Nop())
	stop()
}

func TestStartJanitor_Sweeps(t *testing.T) {
	s, fsys := newMemStore(t)
	now := time.Now()
	stale := filepath.Join(s.UploadsDir(), "stale.docx")
	writeAged(t, fsys, stale, 1, 2*time.Hour, now)

	stop := s.StartJanitor(SweepPolicy{UploadTTL: time.Hour}, 10*time.Millisecond, zerolog.Nop())
	defer stop()

	require.Eventually(t, func() bool {
		ok, _ := afero.Exists(fsys, stale)
		return !ok
	}, 2*time.Second, 10*time.Millisecond)

	// повторный stop безопасен
	stop()
}

func TestUsage(t *testing.T) {
	s, fsys := newMemStore(t)
	require.NoError(t, afero.WriteFile(fsys, filepath.Join(s.UploadsDir(), "a.docx"), make([]byte, 100), 0o644))
	require.NoError(t, afero.WriteFile(fsys, filepath.Join(s.UploadsDir(), stagingPrefix+"x"), make([]byte, 5), 0o644))
	require.NoError(t, afero.WriteFile(fsys, filepath.Join(s.ResultsDir(), "a.pdf"), make([]byte, 40), 0o644))

	u, err := s.Usage()
	require.NoError(t, err)

	assert.Equal(t, ZoneUsage{Files: 1, Bytes: 105, Staging: 1}, u.Uploads)
	assert.Equal(t, ZoneUsage{Files: 1, Bytes: 40}, u.Results)
	assert.Equal(t, int64(145), u.TotalBytes())
}
