package convertsvc

import (
	"context"
	"os"

	"github.com/spf13/afero"
)

// OpenResult открывает результат конвертации по locator. Только чтение.
func (s *Files) OpenResult(ctx context.Context, name string) (afero.File, os.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return s.Storage.OpenResult(name)
}
