package pack

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"imgpack/internal/docker"
	"imgpack/internal/image"
)

// Controls a single packaging run.
type Options struct {
	Ref     image.Ref // Image to package.
	Arch    string    // Target architecture (e.g. "amd64", "arm/v7").
	Mirror  string    // Mirror endpoint to pull through, empty for a direct pull.
	Staging string    // Directory that receives the finished archive.
	WorkDir string    // Directory for intermediate files. Defaults to the current directory.
	Quiet   bool      // Suppresses the compression progress bar.
}

// Returned after a successful packaging run.
type Result struct {
	Archive  string // Final path of the staged zip archive.
	TarName  string // Name of the tar entry inside the zip, as docker load will see it.
	Pulled   bool   // Whether a pull happened, false when the local image was already current.
	TarBytes int64  // Size of the intermediate tar.
	ZipBytes int64  // Size of the finished zip.
	Deferred string // at job number when image removal was deferred, empty otherwise.
}

// The container CLI operations the pipeline needs.
type Runtime interface {
	InspectImage(ctx context.Context, ref string) (*docker.LocalImage, error)
	InspectManifest(ctx context.Context, ref string) ([]docker.RemoteDescriptor, error)
	Pull(ctx context.Context, ref, platform string) error
	Tag(ctx context.Context, source, target string) error
	RemoveImage(ctx context.Context, ref string) error
	Save(ctx context.Context, ref, path string) error
	ContainersUsing(ctx context.Context, ref string) ([]string, error)
	RemovalCommand(ref string) string
}

// Schedules a command for deferred execution.
type Deferrer interface {
	Defer(ctx context.Context, command string) (string, error)
}

// Executes the packaging pipeline end-to-end.
//
// The image is pulled for the requested architecture unless the local copy
// is already current, saved as a tar, wrapped in a zip, and moved into the
// staging directory. The local image is then removed, immediately when
// nothing uses it and via a deferred job otherwise. Intermediate files are
// cleaned up on every exit path.
func Run(ctx context.Context, rt Runtime, def Deferrer, opts Options) (*Result, error) {
	if opts.WorkDir == "" {
		opts.WorkDir = "."
	}
	if !image.Supported(opts.Arch) {
		return nil, fmt.Errorf("%w: unsupported architecture %q", ErrPack, opts.Arch)
	}
	if strings.TrimSpace(opts.Staging) == "" {
		return nil, fmt.Errorf("%w: no staging directory configured", ErrPack)
	}

	log.Infof("packaging %s for %s", opts.Ref, opts.Arch)

	return newSession(rt, def, opts).run(ctx)
}
