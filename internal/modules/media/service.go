package media

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"photogallery/internal/domain"
	"photogallery/internal/storage"
)

type Service struct {
	layout    *storage.Layout
	generator *Generator
}

func NewService(layout *storage.Layout, generator *Generator) *Service {
	return &Service{layout: layout, generator: generator}
}

// IngestResult reports what one upload produced. TierErrors carries per-tier
// write failures for items that only partially persisted.
type IngestResult struct {
	Filename   string                 `json:"filename"`
	Kind       domain.MediaKind       `json:"kind"`
	Stored     []StoredFile           `json:"stored"`
	TierErrors map[domain.Tier]string `json:"tier_errors,omitempty"`
}

// Ingest runs one uploaded file through the pipeline: classify, persist the
// source copy, then either generate image derivatives or pass the video
// through to the largest tier.
//
// Validation failures (bad name, unsupported extension) reject the file
// before anything is written. A decode failure leaves the already written
// source copy in place and produces no derivatives.
func (s *Service) Ingest(category, filename string, r io.Reader) (*IngestResult, error) {
	filename, err := storage.SanitizeName(filename)
	if err != nil {
		return nil, err
	}

	kind := domain.ClassifyFilename(filename)
	if kind == domain.KindUnsupported {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, filename)
	}

	category, err = s.layout.EnsureCategory(category)
	if err != nil {
		return nil, err
	}

	// The source copy is written first, streamed rather than buffered so
	// multi-GiB videos never sit in memory.
	sourcePath, err := s.layout.WriteFile(category, domain.TierSource, filename, r)
	if err != nil {
		return nil, err
	}

	result := &IngestResult{
		Filename: filename,
		Kind:     kind,
		Stored: []StoredFile{{
			Tier: domain.TierSource,
			Path: path.Join(category, string(domain.TierSource), filename),
		}},
	}

	if kind == domain.KindVideo {
		if _, err := s.layout.CopyFile(sourcePath, category, domain.TierLargest, filename); err != nil {
			result.TierErrors = map[domain.Tier]string{domain.TierLargest: err.Error()}
			return result, nil
		}
		result.Stored = append(result.Stored, StoredFile{
			Tier: domain.TierLargest,
			Path: path.Join(category, string(domain.TierLargest), filename),
		})
		return result, nil
	}

	src, err := os.ReadFile(sourcePath)
	if err != nil {
		return result, err
	}

	normalized, err := Normalize(src, domain.Extension(filename))
	if err != nil {
		// Source copy stays; derivatives for a failed decode do not exist.
		return result, err
	}

	baseName := strings.TrimSuffix(filename, filepath.Ext(filename))
	stored, failed := s.generator.Generate(category, baseName, normalized)
	result.Stored = append(result.Stored, stored...)
	if len(failed) > 0 {
		result.TierErrors = failed
	}
	return result, nil
}

// BuildArchive packs every file of one category/tier pair into a deflate ZIP,
// entries named by bare filename. The whole archive is buffered before it is
// returned; memory cost scales with the tier size and that is accepted.
func (s *Service) BuildArchive(category string, tier domain.Tier) (string, []byte, error) {
	category, err := storage.SanitizeName(category)
	if err != nil {
		return "", nil, err
	}

	items, err := s.layout.ListItems(category, tier)
	if err != nil {
		return "", nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range items {
		filePath, err := s.layout.ResolvePath(category, tier, name)
		if err != nil {
			continue
		}
		info, err := os.Stat(filePath)
		modified := time.Now()
		if err == nil {
			modified = info.ModTime()
		}
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			zw.Close()
			return "", nil, err
		}
		f, err := os.Open(filePath)
		if err != nil {
			continue
		}
		_, err = io.Copy(w, f)
		f.Close()
		if err != nil {
			zw.Close()
			return "", nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return "", nil, err
	}

	archiveName := fmt.Sprintf("%s_%s_files.zip", category, tier)
	return archiveName, buf.Bytes(), nil
}

// Delete removes one item across all tiers, matching derivatives by base name.
func (s *Service) Delete(category, filename string) (storage.DeleteItemResult, error) {
	return s.layout.DeleteItem(category, filename)
}

// Resolve returns the absolute path of one stored file.
func (s *Service) Resolve(category string, tier domain.Tier, filename string) (string, error) {
	return s.layout.ResolvePath(category, tier, filename)
}
