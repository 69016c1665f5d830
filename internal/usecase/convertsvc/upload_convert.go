package convertsvc

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/sir_venger/docgate/internal/models"
	"github.com/sir_venger/docgate/internal/storage"
	"github.com/sir_venger/docgate/pkg/converterproto"
)

// UploadConvert кладёт поток в uploads/, синхронно вызывает конвертер и возвращает locator
// результата. При любой ошибке после staging исходник удаляется.
func (s *Files) UploadConvert(ctx context.Context, r io.Reader, originalName string) (models.Conversion, error) {
	staged, err := s.Storage.Stage(ctx, r, originalName)
	if err != nil {
		return models.Conversion{}, fmt.Errorf("stage upload: %w", err)
	}

	log := s.Log.With().
		Str("upload_id", staged.ID).
		Str("original_name", staged.OriginalName).
		Logger()

	outputName := storage.OutputName(originalName, s.TargetExt, staged.ID)

	release, err := s.acquire(ctx)
	if err != nil {
		s.discard(log, staged)
		return models.Conversion{}, fmt.Errorf("%w: %w", models.ErrConverterBusy, err)
	}
	defer release()

	locator, err := s.convert(ctx, staged, outputName)
	if err != nil {
		log.Warn().Err(err).Str("output_name", outputName).Msg("conversion failed")
		s.discard(log, staged)
		return models.Conversion{}, fmt.Errorf("%w: %w", models.ErrConversionFailed, err)
	}

	if !s.KeepSources {
		s.discard(log, staged)
	}

	log.Info().
		Str("output_name", outputName).
		Str("locator", locator).
		Int64("size", staged.Size).
		Msg("conversion done")

	return models.Conversion{
		Upload:     staged,
		OutputName: outputName,
		Locator:    locator,
	}, nil
}

// convert содержит единственную точку ожидания: вызов конвертера и проверка его результата.
func (s *Files) convert(ctx context.Context, staged models.StagedUpload, outputName string) (string, error) {
	callCtx, cancel := ctx, context.CancelFunc(func() {})
	if s.Timeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, s.Timeout)
	}
	defer cancel()

	res, err := s.Converter.Convert(callCtx, converterproto.ConvertRequest{
		FilePath:       staged.Path,
		OutputFileName: outputName,
	})
	if err != nil {
		return "", err
	}

	// Конвертеру доверяем только basename: сам файл обязан лежать в results/.
	locator := storage.BaseName(res.ResultPath)
	if err := storage.ValidateLocator(locator); err != nil {
		return "", fmt.Errorf("result path %q: %w", res.ResultPath, err)
	}

	ok, err := s.Storage.ResultExists(locator)
	if err != nil {
		return "", fmt.Errorf("check result: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("result %q is missing in results zone", locator)
	}

	return locator, nil
}

// discard удаляет исходник; ошибка удаления только логируется и не меняет исход запроса.
func (s *Files) discard(log zerolog.Logger, staged models.StagedUpload) {
	if err := s.Storage.RemoveUpload(staged); err != nil {
		log.Warn().Err(err).Msg("remove staged upload")
	}
}
