package domain

import (
	"fmt"
	"strings"
)

// MediaKind is decided once per upload from the filename extension and
// passed through the pipeline; nothing downstream re-inspects the extension.
// The extension is the sole signal: a file whose content does not match its
// extension is mis-processed, not rejected.
type MediaKind string

const (
	KindImage       MediaKind = "image"
	KindVideo       MediaKind = "video"
	KindUnsupported MediaKind = "unsupported"
)

type Tier string

const (
	TierSource    Tier = "source"
	TierLargest   Tier = "largest"
	TierMedium    Tier = "medium"
	TierThumbnail Tier = "thumbnail"
)

var imageExtensions = map[string]bool{
	"heic": true,
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"bmp":  true,
}

var videoExtensions = map[string]bool{
	"mp4": true,
	"mov": true,
	"avi": true,
	"mkv": true,
}

// ClassifyFilename maps a filename to its media kind by the extension after
// the final dot, case-insensitive. No extension means unsupported.
func ClassifyFilename(filename string) MediaKind {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return KindUnsupported
	}
	ext := strings.ToLower(filename[idx+1:])
	switch {
	case imageExtensions[ext]:
		return KindImage
	case videoExtensions[ext]:
		return KindVideo
	default:
		return KindUnsupported
	}
}

// Extension returns the lower-cased extension without the dot, or "".
func Extension(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(filename[idx+1:])
}

func ValidTiers() []Tier {
	return []Tier{TierSource, TierLargest, TierMedium, TierThumbnail}
}

func ParseTier(s string) (Tier, error) {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case TierSource:
		return TierSource, nil
	case TierLargest:
		return TierLargest, nil
	case TierMedium:
		return TierMedium, nil
	case TierThumbnail:
		return TierThumbnail, nil
	}
	return "", fmt.Errorf("invalid tier %q", s)
}
