package media

import (
	"bytes"
	"fmt"
	"path"

	"github.com/disintegration/imaging"

	"photogallery/internal/domain"
	"photogallery/internal/storage"
)

// Resolution caps per derivative tier (bounding-box fit, never upscaling).
const (
	largestMaxWidth  = 2880
	largestMaxHeight = 1620
	mediumMaxWidth   = 1920
	mediumMaxHeight  = 1080
	thumbMaxWidth    = 400
	thumbMaxHeight   = 400
)

// Generator renders the three derivative tiers of a normalized image and
// persists them through the storage layout.
type Generator struct {
	layout           *storage.Layout
	imageQuality     int
	thumbnailQuality int
}

func NewGenerator(layout *storage.Layout, imageQuality, thumbnailQuality int) *Generator {
	return &Generator{
		layout:           layout,
		imageQuality:     imageQuality,
		thumbnailQuality: thumbnailQuality,
	}
}

// StoredFile is one persisted tier of a media item.
type StoredFile struct {
	Tier domain.Tier `json:"tier"`
	Path string      `json:"path"`
}

// Generate writes the largest, medium and thumbnail tiers for baseName.
// Tiers are written independently: a failure at one tier is recorded and the
// remaining tiers are still attempted. Existing files at the target paths
// are overwritten.
func (g *Generator) Generate(category, baseName string, n *Normalized) ([]StoredFile, map[domain.Tier]string) {
	var stored []StoredFile
	failed := map[domain.Tier]string{}

	type tierPlan struct {
		tier       domain.Tier
		maxW, maxH int
		format     imaging.Format
		ext        string
		quality    int
	}

	plans := []tierPlan{
		{domain.TierLargest, largestMaxWidth, largestMaxHeight, n.Format, n.CanonicalExt, g.imageQuality},
		{domain.TierMedium, mediumMaxWidth, mediumMaxHeight, imaging.JPEG, ".jpeg", g.imageQuality},
		{domain.TierThumbnail, thumbMaxWidth, thumbMaxHeight, imaging.JPEG, ".jpeg", g.thumbnailQuality},
	}

	for _, plan := range plans {
		resized := imaging.Fit(n.Image, plan.maxW, plan.maxH, imaging.Lanczos)

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, resized, plan.format, imaging.JPEGQuality(plan.quality)); err != nil {
			failed[plan.tier] = fmt.Sprintf("encode: %v", err)
			continue
		}

		filename := baseName + plan.ext
		if _, err := g.layout.WriteFile(category, plan.tier, filename, &buf); err != nil {
			failed[plan.tier] = err.Error()
			continue
		}
		stored = append(stored, StoredFile{
			Tier: plan.tier,
			Path: path.Join(category, string(plan.tier), filename),
		})
	}
	return stored, failed
}
