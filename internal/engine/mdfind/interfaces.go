package mdfind

import (
	"context"
	"io"
	"os"

	"github.com/Cyclone1070/mdq/internal/service/executor"
)

// commandExecutor defines the interface for running mdfind and mdls.
type commandExecutor interface {
	Run(ctx context.Context, cmd []string, dir string, env []string) (*executor.Result, error)
	Start(ctx context.Context, cmd []string, opts executor.ProcessOptions) (executor.Process, io.Reader, io.Reader, error)
}

// fileStater defines the filesystem operations needed to classify results.
type fileStater interface {
	Stat(path string) (os.FileInfo, error)
}

// OSFileStater implements fileStater using the real filesystem.
type OSFileStater struct{}

func (OSFileStater) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}
