package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/sir_venger/docgate/internal/models"
)

const stagingPrefix = ".staging-"

// isStaging отличает недописанную загрузку от готового исходника.
func isStaging(name string) bool {
	return strings.HasPrefix(name, stagingPrefix)
}

// Stage пишет поток в uploads/ под сгенерированным именем и возвращает StagedUpload.
// Файл виден под окончательным именем <uuid><ext> только после rename, недописанный
// файл остаётся скрытым .staging-<uuid> и удаляется при ошибке.
func (s *Store) Stage(ctx context.Context, r io.Reader, originalName string) (models.StagedUpload, error) {
	if err := ctx.Err(); err != nil {
		return models.StagedUpload{}, err
	}

	id := uuid.NewString()
	tmp := filepath.Join(s.uploadsDir, stagingPrefix+id)

	size, err := s.writeTemp(tmp, r)
	if err != nil {
		_ = s.fs.Remove(tmp)
		return models.StagedUpload{}, err
	}

	ext, contentType, err := s.resolveExt(tmp, originalName)
	if err != nil {
		_ = s.fs.Remove(tmp)
		return models.StagedUpload{}, err
	}

	staged := models.StagedUpload{
		ID:           id,
		OriginalName: strings.TrimSpace(originalName),
		Ext:          ext,
		Size:         size,
		ContentType:  contentType,
		CreatedAt:    s.now(),
	}
	staged.Path = filepath.Join(s.uploadsDir, staged.FileName())

	if err := s.fs.Rename(tmp, staged.Path); err != nil {
		_ = s.fs.Remove(tmp)
		return models.StagedUpload{}, fmt.Errorf("rename staged upload: %w", err)
	}

	return staged, nil
}

func (s *Store) writeTemp(tmp string, r io.Reader) (int64, error) {
	f, err := s.fs.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create staged upload: %w", err)
	}

	n, err := io.Copy(f, r)
	if err != nil {
		_ = f.Close()
		return 0, fmt.Errorf("write staged upload: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close staged upload: %w", err)
	}

	return n, nil
}

// resolveExt берёт расширение из заявленного клиентом имени; если его нет, определяет
// формат по содержимому. Конвертер выбирает стратегию по суффиксу, без него файл бесполезен.
func (s *Store) resolveExt(tmp, originalName string) (string, string, error) {
	f, err := s.fs.Open(tmp)
	if err != nil {
		return "", "", fmt.Errorf("open staged upload: %w", err)
	}
	defer f.Close()

	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return "", "", fmt.Errorf("detect content type: %w", err)
	}

	ext := ExtFromName(originalName)
	if ext == "" {
		ext = mt.Extension()
	}

	return ext, mt.String(), nil
}
