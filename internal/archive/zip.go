package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"
)

// Options controlling archive creation.
type Options struct {

	// Receives a live progress bar while compressing. Nil disables progress
	// reporting entirely, which also keeps test output clean.
	Progress io.Writer
}

// Wraps the tar archive at tarPath in a zip archive at zipPath.
//
// The zip contains a single deflate-compressed entry named after the tar's
// base name, so unzipping on the target machine reproduces exactly the file
// that docker load expects. Returns the size of the finished zip in bytes.
func ZipTar(tarPath, zipPath string, opts Options) (int64, error) {
	src, err := os.Open(tarPath)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrArchive, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrArchive, err)
	}

	dst, err := os.Create(zipPath)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrArchive, err)
	}
	defer dst.Close()

	zw := zip.NewWriter(dst)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	entry, err := zw.CreateHeader(&zip.FileHeader{
		Name:     filepath.Base(tarPath),
		Method:   zip.Deflate,
		Modified: info.ModTime(),
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrArchive, err)
	}

	if err := copyWithProgress(entry, src, info.Size(), opts.Progress); err != nil {
		return 0, fmt.Errorf("%w: compressing %s: %w", ErrArchive, tarPath, err)
	}

	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrArchive, err)
	}
	if err := dst.Close(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrArchive, err)
	}

	zipInfo, err := os.Stat(zipPath)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrArchive, err)
	}
	return zipInfo.Size(), nil
}

// Copies src to dst, rendering a progress bar on the progress writer when
// one is provided and the total size is known.
func copyWithProgress(dst io.Writer, src io.Reader, total int64, progress io.Writer) error {
	if progress == nil || total <= 0 {
		_, err := io.Copy(dst, src)
		return err
	}

	p := mpb.New(mpb.WithOutput(progress), mpb.WithWidth(24))
	bar := p.AddBar(total,
		mpb.PrependDecorators(
			decor.Name("compressing"),
			decor.OnComplete(decor.Percentage(decor.WCSyncSpace), "done"),
		),
		mpb.AppendDecorators(
			decor.Counters(decor.UnitKiB, "% .1f / % .1f"),
		),
	)

	reader := bar.ProxyReader(src)
	defer reader.Close()

	_, err := io.Copy(dst, reader)
	if err != nil {
		bar.Abort(true)
	}
	p.Wait()

	return err
}
