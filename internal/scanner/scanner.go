package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kpauljoseph/deckforge/pkg/logger"
	"github.com/kpauljoseph/deckforge/pkg/utils"
)

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

type ImageFile struct {
	AbsolutePath string
	RelativePath string
	// Key is the slug of the file name without extension.
	Key string
}

type DirectoryScanner struct {
	logger *logger.Logger
}

func New(logger *logger.Logger) *DirectoryScanner {
	return &DirectoryScanner{
		logger: logger,
	}
}

func IsImage(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// FindImages walks dir and returns every image file in lexical order.
func (s *DirectoryScanner) FindImages(ctx context.Context, dir string) ([]ImageFile, error) {
	var images []ImageFile

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			return fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if info.IsDir() {
			s.logger.Trace("Scanning directory: %s", path)
			return nil
		}

		if !IsImage(path) {
			return nil
		}

		absPath, err := filepath.Abs(path)
		if err != nil {
			absPath = path
		}
		relPath, err := filepath.Rel(dir, path)
		if err != nil {
			relPath = path
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

		images = append(images, ImageFile{
			AbsolutePath: absPath,
			RelativePath: relPath,
			Key:          utils.Slug(name),
		})
		return nil
	})

	if err != nil {
		return nil, err
	}

	if len(images) == 0 {
		return nil, fmt.Errorf("no image files found in %s or its subdirectories", dir)
	}

	s.logger.Debug("Found %d images in %s", len(images), dir)
	return images, nil
}

// Index maps image keys to files. When two files share a key the first one
// in walk order wins.
func (s *DirectoryScanner) Index(ctx context.Context, dir string) (map[string]ImageFile, error) {
	images, err := s.FindImages(ctx, dir)
	if err != nil {
		return nil, err
	}

	index := make(map[string]ImageFile, len(images))
	for _, img := range images {
		if img.Key == "" {
			continue
		}
		if prev, ok := index[img.Key]; ok {
			s.logger.Debug("Ignoring %s, key %q already taken by %s", img.RelativePath, img.Key, prev.RelativePath)
			continue
		}
		index[img.Key] = img
	}
	return index, nil
}
