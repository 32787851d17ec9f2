package assets

import (
	"embed"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/milk9111/engine3d/resources"
)

//go:embed *.wav *.mat
var assetsFS embed.FS

// FS is the built-in asset tree.
var FS fs.FS = assetsFS

// Open indexes dir on disk, or the built-in assets when dir is empty.
func Open(dir string, log *zap.Logger) (*resources.Dir, error) {
	if dir == "" {
		return resources.NewDir(FS, log)
	}
	return resources.NewDir(os.DirFS(dir), log)
}
