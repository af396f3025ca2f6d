package media

import (
	"archive/zip"
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photogallery/internal/domain"
	"photogallery/internal/storage"
)

func newTestService(t *testing.T) (*Service, *storage.Layout) {
	t.Helper()
	layout := storage.NewLayout(t.TempDir())
	return NewService(layout, NewGenerator(layout, 100, 85)), layout
}

func countFiles(t *testing.T, root string) int {
	t.Helper()
	count := 0
	err := filepath.Walk(root, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			count++
		}
		return nil
	})
	require.NoError(t, err)
	return count
}

func TestIngestImageAllFourTiers(t *testing.T) {
	svc, layout := newTestService(t)
	src := opaquePNG(t, 800, 600, color.NRGBA{R: 50, G: 60, B: 70})

	result, err := svc.Ingest("trip", "photo.png", bytes.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, domain.KindImage, result.Kind)
	assert.Empty(t, result.TierErrors)
	require.Len(t, result.Stored, 4)

	for _, want := range []struct {
		tier domain.Tier
		name string
	}{
		{domain.TierSource, "photo.png"},
		{domain.TierLargest, "photo.png"},
		{domain.TierMedium, "photo.jpeg"},
		{domain.TierThumbnail, "photo.jpeg"},
	} {
		_, err := layout.ResolvePath("trip", want.tier, want.name)
		assert.NoError(t, err, "tier %s", want.tier)
	}

	// The source copy is byte-identical to the upload.
	sourcePath, err := layout.ResolvePath("trip", domain.TierSource, "photo.png")
	require.NoError(t, err)
	data, err := os.ReadFile(sourcePath)
	require.NoError(t, err)
	assert.Equal(t, src, data)
}

func TestIngestVideoPassthrough(t *testing.T) {
	svc, layout := newTestService(t)
	payload := []byte("fake-video-bytes-not-inspected")

	result, err := svc.Ingest("trip", "clip.mp4", bytes.NewReader(payload))
	require.NoError(t, err)

	assert.Equal(t, domain.KindVideo, result.Kind)
	require.Len(t, result.Stored, 2)

	sourcePath, err := layout.ResolvePath("trip", domain.TierSource, "clip.mp4")
	require.NoError(t, err)
	largestPath, err := layout.ResolvePath("trip", domain.TierLargest, "clip.mp4")
	require.NoError(t, err)

	a, err := os.ReadFile(sourcePath)
	require.NoError(t, err)
	b, err := os.ReadFile(largestPath)
	require.NoError(t, err)
	assert.Equal(t, payload, a)
	assert.Equal(t, a, b)

	// No derivatives for video.
	_, err = layout.ResolvePath("trip", domain.TierMedium, "clip.mp4")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = layout.ResolvePath("trip", domain.TierThumbnail, "clip.mp4")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIngestUnsupportedExtensionWritesNothing(t *testing.T) {
	svc, layout := newTestService(t)

	_, err := svc.Ingest("trip", "notes.txt", bytes.NewReader([]byte("text")))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	assert.Equal(t, 0, countFiles(t, layout.Root()))
}

func TestIngestDecodeFailureKeepsSourceOnly(t *testing.T) {
	svc, layout := newTestService(t)

	result, err := svc.Ingest("trip", "broken.png", bytes.NewReader([]byte("corrupt bytes")))
	assert.ErrorIs(t, err, ErrDecode)
	require.NotNil(t, result)

	// The source copy is retained, derivatives do not exist.
	_, err = layout.ResolvePath("trip", domain.TierSource, "broken.png")
	assert.NoError(t, err)
	assert.Equal(t, 1, countFiles(t, layout.Root()))
}

func TestIngestReuploadOverwritesAllTiers(t *testing.T) {
	svc, layout := newTestService(t)

	first := opaquePNG(t, 1000, 500, color.NRGBA{R: 1})
	_, err := svc.Ingest("trip", "photo.png", bytes.NewReader(first))
	require.NoError(t, err)

	second := opaquePNG(t, 500, 1000, color.NRGBA{R: 2})
	_, err = svc.Ingest("trip", "photo.png", bytes.NewReader(second))
	require.NoError(t, err)

	largest := openStored(t, layout, "trip", domain.TierLargest, "photo.png")
	assert.Equal(t, 500, largest.Bounds().Dx())
	assert.Equal(t, 1000, largest.Bounds().Dy())

	thumb := openStored(t, layout, "trip", domain.TierThumbnail, "photo.jpeg")
	assert.Equal(t, 200, thumb.Bounds().Dx())
	assert.Equal(t, 400, thumb.Bounds().Dy())

	sourcePath, err := layout.ResolvePath("trip", domain.TierSource, "photo.png")
	require.NoError(t, err)
	data, err := os.ReadFile(sourcePath)
	require.NoError(t, err)
	assert.Equal(t, second, data)
}

func TestBuildArchive(t *testing.T) {
	svc, layout := newTestService(t)

	_, err := svc.Ingest("trip", "one.png", bytes.NewReader(opaquePNG(t, 100, 100, color.NRGBA{R: 1})))
	require.NoError(t, err)
	_, err = svc.Ingest("trip", "two.png", bytes.NewReader(opaquePNG(t, 100, 100, color.NRGBA{R: 2})))
	require.NoError(t, err)

	name, data, err := svc.BuildArchive("trip", domain.TierMedium)
	require.NoError(t, err)
	assert.Equal(t, "trip_medium_files.zip", name)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	var entries []string
	for _, f := range zr.File {
		entries = append(entries, f.Name)

		rc, err := f.Open()
		require.NoError(t, err)
		var got bytes.Buffer
		_, err = got.ReadFrom(rc)
		rc.Close()
		require.NoError(t, err)

		path, err := layout.ResolvePath("trip", domain.TierMedium, f.Name)
		require.NoError(t, err)
		want, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, want, got.Bytes(), "entry %s", f.Name)
	}
	assert.ElementsMatch(t, []string{"one.jpeg", "two.jpeg"}, entries)
}

func TestBuildArchiveEmptyTier(t *testing.T) {
	svc, layout := newTestService(t)
	_, err := layout.EnsureCategory("empty")
	require.NoError(t, err)

	_, data, err := svc.BuildArchive("empty", domain.TierThumbnail)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Empty(t, zr.File)
}

func TestDeleteRemovesDerivativesByBaseName(t *testing.T) {
	svc, layout := newTestService(t)

	_, err := svc.Ingest("trip", "photo.png", bytes.NewReader(opaquePNG(t, 100, 100, color.NRGBA{R: 1})))
	require.NoError(t, err)

	result, err := svc.Delete("trip", "photo.png")
	require.NoError(t, err)
	assert.True(t, result.Found())
	assert.Empty(t, result.Failed)
	assert.ElementsMatch(t, []domain.Tier{
		domain.TierSource, domain.TierLargest, domain.TierMedium, domain.TierThumbnail,
	}, result.Removed)

	assert.Equal(t, 0, countFiles(t, layout.Root()))
}
