package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/sir_venger/docgate/internal/models"
)

// Имена зон внутри корня хранилища.
const (
	UploadsZone = "uploads"
	ResultsZone = "results"
)

// Store: shared storage поверх afero.Fs.
type Store struct {
	fs         afero.Fs
	root       string
	uploadsDir string
	resultsDir string
	now        func() time.Time
}

// New создаёт обе зоны, если их нет, и возвращает хранилище.
func New(fsys afero.Fs, root string) (*Store, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("storage root is empty")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}

	s := &Store{
		fs:         fsys,
		root:       abs,
		uploadsDir: filepath.Join(abs, UploadsZone),
		resultsDir: filepath.Join(abs, ResultsZone),
		now:        time.Now,
	}

	for _, dir := range []string{s.uploadsDir, s.resultsDir} {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	return s, nil
}

func (s *Store) Root() string       { return s.root }
func (s *Store) UploadsDir() string { return s.uploadsDir }
func (s *Store) ResultsDir() string { return s.resultsDir }

// RemoveUpload удаляет исходник из uploads/. Уже удалённый файл ошибкой не считается.
func (s *Store) RemoveUpload(u models.StagedUpload) error {
	p := filepath.Join(s.uploadsDir, u.FileName())
	if filepath.Clean(u.Path) != p {
		return fmt.Errorf("staged upload %s is outside uploads zone", u.ID)
	}

	if err := s.fs.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// ResultPath проверяет locator и возвращает путь к файлу строго внутри results/.
func (s *Store) ResultPath(name string) (string, error) {
	if err := ValidateLocator(name); err != nil {
		return "", err
	}

	p := filepath.Join(s.resultsDir, name)
	if filepath.Dir(p) != s.resultsDir {
		return "", models.ErrInvalidName
	}
	return p, nil
}

// ResultExists проверяет, что результат существует и это обычный файл.
func (s *Store) ResultExists(name string) (bool, error) {
	p, err := s.ResultPath(name)
	if err != nil {
		return false, err
	}

	info, err := s.fs.Stat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// OpenResult открывает результат на чтение. Вызывающий закрывает файл.
func (s *Store) OpenResult(name string) (afero.File, os.FileInfo, error) {
	p, err := s.ResultPath(name)
	if err != nil {
		return nil, nil, err
	}

	f, err := s.fs.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, models.ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	if !info.Mode().IsRegular() {
		_ = f.Close()
		return nil, nil, models.ErrNotFound
	}

	return f, info, nil
}
