package pack

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/containerd/platforms"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"imgpack/internal/archive"
	"imgpack/internal/docker"
	"imgpack/internal/image"
)

// Holds shared state while packaging a single image.
type session struct {
	rt   Runtime
	def  Deferrer
	opts Options
	now  func() time.Time

	platform  string // Full platform passed to pull (e.g. "linux/arm/v7").
	canonical string // The image's own name:tag.
	pullRef   string // Reference handed to pull, mirror-prefixed when a mirror is used.
	localRef  string // Name the image is known by locally at the current step.
	tarPath   string // Intermediate tar in the working directory.
	zipPath   string // Intermediate zip in the working directory.

	result Result
}

// Creates a new [session] from the given options.
func newSession(rt Runtime, def Deferrer, opts Options) *session {
	return &session{
		rt:   rt,
		def:  def,
		opts: opts,
		now:  time.Now,
	}
}

// Runs the pipeline steps in order.
//
// Intermediate files are removed on every exit path; an interrupt or a
// failed step never leaves tars behind in the working directory.
func (s *session) run(ctx context.Context) (*Result, error) {
	if err := s.resolve(); err != nil {
		return nil, err
	}
	defer s.cleanupTemp()

	if s.needsPull(ctx) {
		if err := s.pull(ctx); err != nil {
			return nil, err
		}
		if err := s.restoreName(ctx); err != nil {
			return nil, err
		}
	} else {
		log.Infof("local image %s is current, skipping pull", s.canonical)
		s.localRef = s.canonical
	}

	if err := s.save(ctx); err != nil {
		return nil, err
	}
	if err := s.compress(); err != nil {
		return nil, err
	}
	if err := s.deposit(); err != nil {
		return nil, err
	}

	s.cleanImage(ctx)

	return &s.result, nil
}

// Derives references, the pull platform, and the archive file names.
//
// The assembled pull reference is validated against the distribution grammar
// here, before any external command runs.
func (s *session) resolve() error {
	s.canonical = s.opts.Ref.String()
	s.pullRef = s.opts.Ref.PullRef(s.opts.Mirror)

	if err := image.Validate(s.pullRef); err != nil {
		return fmt.Errorf("%w: %w", ErrPack, err)
	}

	s.platform = image.Platform(s.opts.Arch)

	base := s.opts.Ref.FileBase(s.opts.Arch, s.now())
	s.tarPath = filepath.Join(s.opts.WorkDir, base+".tar")
	s.zipPath = filepath.Join(s.opts.WorkDir, base+".zip")
	s.result.TarName = base + ".tar"

	if s.pullRef != s.canonical {
		log.Infof("mirror selected, pull reference is %s", s.pullRef)
	}
	return nil
}

// Decides whether the image must be pulled.
//
// The local side comes from inspect (recorded repo digests plus platform),
// the remote side from manifest inspect. The pull is skipped only when the
// local image was built for the requested platform and one of its repo
// digests matches a remote manifest digest for that platform. Failures along
// the way degrade to pulling, never to aborting.
func (s *session) needsPull(ctx context.Context) bool {
	local, err := s.rt.InspectImage(ctx, s.canonical)
	if err != nil {
		log.Warnf("local inspect failed: %v", err)
		return true
	}
	if !local.Exists {
		log.Debugf("%s not present locally", s.canonical)
		return true
	}

	want, err := platforms.Parse(s.platform)
	if err != nil {
		log.Warnf("unparseable platform %q: %v", s.platform, err)
		return true
	}

	// Strict matching: a local arm/v7 image may run on an arm64 host, but it
	// is not the arm64 package the user asked for.
	matcher := platforms.OnlyStrict(want)

	if !matcher.Match(localPlatform(local)) {
		log.Infof("local %s is %s, re-pulling for %s", s.canonical, platforms.Format(localPlatform(local)), s.platform)
		return true
	}

	remote, err := s.rt.InspectManifest(ctx, s.canonical)
	if err != nil {
		log.Warnf("manifest inspect failed, pulling to be safe: %v", err)
		return true
	}

	current := lo.SomeBy(remote, func(d docker.RemoteDescriptor) bool {
		if d.Platform != nil && !matcher.Match(*d.Platform) {
			return false
		}
		return lo.Contains(local.RepoDigests, d.Digest)
	})
	if !current {
		log.Infof("%s differs from the registry, pulling", s.canonical)
	}
	return !current
}

// Builds an OCI platform from inspect's fields, assuming linux when the
// daemon reports no OS.
func localPlatform(img *docker.LocalImage) ocispec.Platform {
	p := ocispec.Platform{
		OS:           img.OS,
		Architecture: img.Architecture,
		Variant:      img.Variant,
	}
	if p.OS == "" {
		p.OS = "linux"
	}
	return p
}

// Pulls the image for the target platform.
func (s *session) pull(ctx context.Context) error {
	if err := s.rt.Pull(ctx, s.pullRef, s.platform); err != nil {
		return fmt.Errorf("%w: %w", ErrPack, err)
	}
	s.localRef = s.pullRef
	s.result.Pulled = true
	return nil
}

// Re-tags a mirror pull under the image's canonical name and removes the
// mirror-prefixed alias, so the saved archive and later runs always see the
// canonical reference. A direct pull already carries the right name.
func (s *session) restoreName(ctx context.Context) error {
	if s.localRef == s.canonical {
		return nil
	}

	if err := s.rt.Tag(ctx, s.localRef, s.canonical); err != nil {
		return fmt.Errorf("%w: %w", ErrPack, err)
	}
	if err := s.rt.RemoveImage(ctx, s.localRef); err != nil {
		return fmt.Errorf("%w: removing mirror alias: %w", ErrPack, err)
	}

	s.localRef = s.canonical
	return nil
}

// Writes the image to the intermediate tar.
func (s *session) save(ctx context.Context) error {
	log.Infof("saving %s", s.localRef)

	if err := s.rt.Save(ctx, s.localRef, s.tarPath); err != nil {
		return fmt.Errorf("%w: %w", ErrPack, err)
	}

	info, err := os.Stat(s.tarPath)
	if err != nil {
		return fmt.Errorf("%w: saved archive: %w", ErrPack, err)
	}
	s.result.TarBytes = info.Size()

	log.Infof("saved %s (%.1f MB)", filepath.Base(s.tarPath), mb(info.Size()))
	return nil
}

// Wraps the tar in the zip archive.
func (s *session) compress() error {
	var progress io.Writer
	if !s.opts.Quiet {
		progress = os.Stderr
	}

	size, err := archive.ZipTar(s.tarPath, s.zipPath, archive.Options{Progress: progress})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPack, err)
	}
	s.result.ZipBytes = size

	log.Infof("compressed to %s (%.1f MB)", filepath.Base(s.zipPath), mb(size))
	return nil
}

// Moves the finished zip into the staging directory.
func (s *session) deposit() error {
	dest, err := archive.Deposit(s.zipPath, s.opts.Staging)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPack, err)
	}
	s.result.Archive = dest

	log.Infof("archive staged at %s", dest)
	return nil
}

// Removes the packaged image from the local daemon.
//
// An image still referenced by containers, or one the daemon refuses to
// remove, is handed to the scheduler for deferred removal instead. Nothing
// here is fatal: the archive is already staged, so a failure only means the
// local copy lingers.
func (s *session) cleanImage(ctx context.Context) {
	ids, err := s.rt.ContainersUsing(ctx, s.localRef)
	if err != nil {
		log.Warnf("could not check container usage: %v", err)
		s.deferRemoval(ctx)
		return
	}

	if len(ids) > 0 {
		log.Infof("%s is used by %d container(s), deferring removal", s.localRef, len(ids))
		s.deferRemoval(ctx)
		return
	}

	if err := s.rt.RemoveImage(ctx, s.localRef); err != nil {
		log.Warnf("immediate removal failed: %v", err)
		s.deferRemoval(ctx)
		return
	}
	log.Infof("removed local image %s", s.localRef)
}

// Queues the image removal through the deferrer, reporting but not failing
// on errors.
func (s *session) deferRemoval(ctx context.Context) {
	command := s.rt.RemovalCommand(s.localRef)

	job, err := s.def.Defer(ctx, command)
	if err != nil {
		log.Warnf("deferred removal failed: %v", err)
		log.Warnf("remove the image manually with: %s", command)
		return
	}

	if job != "" {
		s.result.Deferred = job
		log.Infof("removal scheduled as at job %s", job)
		return
	}
	log.Info("removal scheduled")
}

// Removes intermediate files from the working directory. On the success path
// the zip has already been moved away, leaving only the tar.
func (s *session) cleanupTemp() {
	archive.RemoveTemp(s.tarPath, s.zipPath)
}

// Converts a byte count to megabytes for log messages.
func mb(n int64) float64 {
	return float64(n) / (1 << 20)
}
