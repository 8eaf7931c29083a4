package photodedup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// DefaultMaxPhotos caps how many photos LoadDir collects. The engine keeps
// the whole collection in memory, so hosts raise it deliberately.
const DefaultMaxPhotos = 1000

// LoadOpts configures LoadDir.
// Zero values mean "use defaults".
type LoadOpts struct {
	MaxPhotos int // default: DefaultMaxPhotos
}

// LoadDir walks root recursively in lexical order and returns a Photo for
// every supported image file, up to opts.MaxPhotos. Unreadable entries and
// files that are not images are skipped. Ids are random UUIDs; CreatedAt is
// the EXIF capture time when present, else the file modification time.
func LoadDir(ctx context.Context, root string, opts LoadOpts) ([]Photo, error) {
	if opts.MaxPhotos <= 0 {
		opts.MaxPhotos = DefaultMaxPhotos
	}

	var photos []Photo
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			slog.Warn("photodedup: skip unreadable entry", "path", path, "error", err.Error())
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if len(photos) >= opts.MaxPhotos {
			slog.Info("photodedup: photo limit reached", "max", opts.MaxPhotos, "root", root)
			return fs.SkipAll
		}

		p, err := loadPhoto(path, d)
		if err != nil {
			slog.Debug("photodedup: skip file", "path", path, "error", err.Error())
			return nil
		}
		photos = append(photos, p)
		return nil
	})
	if err != nil {
		return photos, fmt.Errorf("load %s: %w", root, err)
	}
	return photos, nil
}

var errNotImage = errors.New("not a supported image")

func loadPhoto(path string, d fs.DirEntry) (Photo, error) {
	info, err := d.Info()
	if err != nil {
		return Photo{}, err
	}
	if !info.Mode().IsRegular() {
		return Photo{}, errNotImage
	}

	f, err := os.Open(path)
	if err != nil {
		return Photo{}, err
	}
	defer f.Close()

	head, err := io.ReadAll(io.LimitReader(f, sniffLimit))
	if err != nil {
		return Photo{}, err
	}
	mimeType, ok := SniffPhoto(bytes.NewReader(head))
	if !ok {
		return Photo{}, errNotImage
	}

	created, ok := CaptureTime(head, mimeType)
	if !ok {
		created = info.ModTime()
	}

	return Photo{
		ID:        uuid.NewString(),
		Name:      d.Name(),
		SizeBytes: info.Size(),
		MIMEType:  mimeType,
		CreatedAt: created,
		Source:    FileSource(path),
	}, nil
}
