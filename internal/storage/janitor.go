package storage

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// SweepPolicy задаёт возраст, после которого файл зоны считается мусором. При нуле зона не чистится.
type SweepPolicy struct {
	UploadTTL time.Duration
	ResultTTL time.Duration
}

// SweepReport: итог одного прохода.
type SweepReport struct {
	Removed int
	Freed   int64
}

// Sweep удаляет из зон файлы старше TTL. Недописанные .staging-* тоже попадают под UploadTTL.
func (s *Store) Sweep(policy SweepPolicy) (SweepReport, error) {
	var rep SweepReport

	if err := s.sweepDir(s.uploadsDir, policy.UploadTTL, &rep); err != nil {
		return rep, err
	}
	if err := s.sweepDir(s.resultsDir, policy.ResultTTL, &rep); err != nil {
		return rep, err
	}

	return rep, nil
}

func (s *Store) sweepDir(dir string, ttl time.Duration, rep *SweepReport) error {
	if ttl <= 0 {
		return nil
	}

	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return err
	}

	now := s.now()
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if now.Sub(e.ModTime()) < ttl {
			continue
		}

		// файл мог исчезнуть между ReadDir и Remove (например, шлюз удалил исходник сам)
		if err := s.fs.Remove(filepath.Join(dir, e.Name())); err != nil {
			continue
		}
		rep.Removed++
		rep.Freed += e.Size()
	}

	return nil
}

// StartJanitor стартует периодическую очистку зон и возвращает функцию остановки.
func (s *Store) StartJanitor(policy SweepPolicy, every time.Duration, log zerolog.Logger) func() {
	if every <= 0 || (policy.UploadTTL <= 0 && policy.ResultTTL <= 0) {
		return func() {}
	}

	ticker := time.NewTicker(every)
	stop := make(chan struct{})
	var once sync.Once
	go func() {
		for {
			select {
			case <-ticker.C:
				s.sweepAndLog(policy, log)
			case <-stop:
				ticker.Stop()
				return
			}
		}
	}()

	return func() {
		once.Do(func() {
			close(stop)
		})
	}
}

func (s *Store) sweepAndLog(policy SweepPolicy, log zerolog.Logger) {
	rep, err := s.Sweep(policy)
	if err != nil {
		log.Warn().Err(err).Msg("janitor sweep failed")
		return
	}
	if rep.Removed > 0 {
		log.Info().
			Int("removed", rep.Removed).
			Str("freed", humanize.IBytes(uint64(rep.Freed))).
			Msg("janitor sweep")
	}
}
