package storage

import (
	"os"

	"github.com/spf13/afero"
)

// ZoneUsage: количество и суммарный размер файлов в зоне.
type ZoneUsage struct {
	Files int
	Bytes int64
	// Staging: недописанные загрузки, считаются отдельно от Files.
	Staging int
}

// Usage агрегирует статистику по uploads/ и results/.
type Usage struct {
	Uploads ZoneUsage
	Results ZoneUsage
}

// TotalBytes: сумма по обеим зонам.
func (u Usage) TotalBytes() int64 {
	return u.Uploads.Bytes + u.Results.Bytes
}

// Usage проходит по зонам и суммирует размеры файлов для простого capacity-метрика.
func (s *Store) Usage() (Usage, error) {
	var (
		u   Usage
		err error
	)

	if u.Uploads, err = s.zoneUsage(s.uploadsDir); err != nil {
		return Usage{}, err
	}
	if u.Results, err = s.zoneUsage(s.resultsDir); err != nil {
		return Usage{}, err
	}

	return u, nil
}

func (s *Store) zoneUsage(dir string) (ZoneUsage, error) {
	var z ZoneUsage
	err := afero.Walk(s.fs, dir, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		z.Bytes += info.Size()
		if isStaging(info.Name()) {
			z.Staging++
			return nil
		}
		z.Files++
		return nil
	})

	return z, err
}
