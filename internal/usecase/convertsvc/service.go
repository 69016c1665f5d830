package convertsvc

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"golang.org/x/sync/semaphore"

	"github.com/sir_venger/docgate/internal/models"
	"github.com/sir_venger/docgate/pkg/converterclient"
)

type (
	// SharedStorage зоны uploads/ и results/
	SharedStorage interface {
		Stage(ctx context.Context, r io.Reader, originalName string) (models.StagedUpload, error)
		RemoveUpload(u models.StagedUpload) error
		ResultExists(name string) (bool, error)
		OpenResult(name string) (afero.File, os.FileInfo, error)
	}

	// Service объединяет загрузку с конвертацией и выдачу результатов.
	Service interface {
		UploadConvert(ctx context.Context, r io.Reader, originalName string) (models.Conversion, error)
		OpenResult(ctx context.Context, name string) (afero.File, os.FileInfo, error)
	}
)

type Deps struct {
	Storage   SharedStorage
	Converter converterclient.Client
	Log       zerolog.Logger
	// TargetExt: расширение результата, по умолчанию .pdf.
	TargetExt string
	// Timeout ограничивает вызов конвертера; при 0 действует только контекст запроса.
	Timeout time.Duration
	// MaxInFlight ограничивает число одновременных конвертаций; 0 значит без ограничения.
	MaxInFlight int64
	// KeepSources оставляет исходник в uploads/ после успешной конвертации (его уберёт janitor).
	KeepSources bool
}

type Files struct {
	Deps
	inflight *semaphore.Weighted
}

// New конструирует сервис конвертации с заданными зависимостями.
func New(deps Deps) *Files {
	if deps.TargetExt == "" {
		deps.TargetExt = ".pdf"
	}

	s := &Files{Deps: deps}
	if deps.MaxInFlight > 0 {
		s.inflight = semaphore.NewWeighted(deps.MaxInFlight)
	}
	return s
}

var _ Service = (*Files)(nil)

// acquire ждёт свободный слот конвертера, пока жив контекст запроса.
func (s *Files) acquire(ctx context.Context) (func(), error) {
	if s.inflight == nil {
		return func() {}, nil
	}
	if err := s.inflight.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { s.inflight.Release(1) }, nil
}
