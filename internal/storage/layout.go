package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"photogallery/internal/domain"
)

var (
	ErrInvalidName = errors.New("invalid name")
	ErrNotFound    = errors.New("file not found")
)

// invalidNameChars matches anything unsafe as a single path component:
// separators, traversal punctuation, control bytes, shell-hostile characters.
var invalidNameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F]`)

// Layout owns the on-disk tree {root}/{category}/{tier}/{filename}.
// The filesystem is the system of record; there is no metadata store.
type Layout struct {
	root string
}

func NewLayout(root string) *Layout {
	return &Layout{root: root}
}

func (l *Layout) Root() string {
	return l.root
}

// SanitizeName reduces a user-supplied category or file name to a safe
// single path component. Names containing traversal sequences or that
// reduce to nothing are rejected outright.
func SanitizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}
	// Keep only the final path component of anything that looks like a path.
	name = filepath.Base(filepath.ToSlash(name))
	if name == "." || name == ".." || strings.Contains(name, "..") {
		return "", ErrInvalidName
	}
	name = invalidNameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, ". ")
	if name == "" {
		return "", ErrInvalidName
	}
	if len(name) > 255 {
		return "", ErrInvalidName
	}
	return name, nil
}

func (l *Layout) categoryPath(category string) string {
	return filepath.Join(l.root, category)
}

func (l *Layout) tierPath(category string, tier domain.Tier) string {
	return filepath.Join(l.root, category, string(tier))
}

// EnsureCategory creates the category directory (and the upload root)
// if absent. Idempotent. Returns the sanitized category name.
func (l *Layout) EnsureCategory(name string) (string, error) {
	category, err := SanitizeName(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(l.categoryPath(category), 0o755); err != nil {
		return "", fmt.Errorf("create category %s: %w", category, err)
	}
	return category, nil
}

// CategoryExists reports whether the category directory is present.
func (l *Layout) CategoryExists(name string) bool {
	category, err := SanitizeName(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(l.categoryPath(category))
	return err == nil && info.IsDir()
}

// DeleteCategory removes the category subtree with every tier and item.
// Removing an absent category is a no-op.
func (l *Layout) DeleteCategory(name string) error {
	category, err := SanitizeName(name)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(l.categoryPath(category)); err != nil {
		return fmt.Errorf("delete category %s: %w", category, err)
	}
	return nil
}

// ListCategories enumerates the immediate subdirectories of the upload root.
// A missing upload root lists as empty.
func (l *Layout) ListCategories() ([]string, error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	categories := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			categories = append(categories, e.Name())
		}
	}
	sort.Strings(categories)
	return categories, nil
}

// ListItems enumerates the files in one tier directory. An absent tier
// directory is an empty listing, not an error.
func (l *Layout) ListItems(category string, tier domain.Tier) ([]string, error) {
	category, err := SanitizeName(category)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(l.tierPath(category, tier))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	items := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			items = append(items, e.Name())
		}
	}
	sort.Strings(items)
	return items, nil
}

// DeleteItemResult aggregates a per-tier delete. Absence at a tier is
// success; only real removal failures are recorded.
type DeleteItemResult struct {
	Removed []domain.Tier
	Failed  map[domain.Tier]string
}

func (r DeleteItemResult) Found() bool {
	return len(r.Removed) > 0 || len(r.Failed) > 0
}

// DeleteItem removes every file matching the item's base name under every
// tier. Derivative tiers may carry a different extension than the original
// (flattened uploads become .jpeg), so each tier is matched by base name.
// A failure at one tier does not stop the others.
func (l *Layout) DeleteItem(category, filename string) (DeleteItemResult, error) {
	result := DeleteItemResult{Failed: map[domain.Tier]string{}}

	category, err := SanitizeName(category)
	if err != nil {
		return result, err
	}
	filename, err = SanitizeName(filename)
	if err != nil {
		return result, err
	}
	base := strings.TrimSuffix(filename, filepath.Ext(filename))

	for _, tier := range domain.ValidTiers() {
		names, err := l.ListItems(category, tier)
		if err != nil {
			result.Failed[tier] = err.Error()
			continue
		}
		removed := false
		var tierErr error
		for _, name := range names {
			if strings.TrimSuffix(name, filepath.Ext(name)) != base {
				continue
			}
			if err := os.Remove(filepath.Join(l.tierPath(category, tier), name)); err != nil && !os.IsNotExist(err) {
				tierErr = err
				continue
			}
			removed = true
		}
		switch {
		case tierErr != nil:
			result.Failed[tier] = tierErr.Error()
		case removed:
			result.Removed = append(result.Removed, tier)
		}
	}
	return result, nil
}

// ResolvePath validates the category/tier/filename triple and returns the
// absolute path of an existing stored file, or ErrNotFound.
func (l *Layout) ResolvePath(category string, tier domain.Tier, filename string) (string, error) {
	category, err := SanitizeName(category)
	if err != nil {
		return "", err
	}
	filename, err = SanitizeName(filename)
	if err != nil {
		return "", err
	}
	if _, err := domain.ParseTier(string(tier)); err != nil {
		return "", ErrInvalidName
	}
	path := filepath.Join(l.tierPath(category, tier), filename)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", err
	}
	if info.IsDir() {
		return "", ErrNotFound
	}
	return path, nil
}

// WriteFile streams r into {root}/{category}/{tier}/{filename}, creating the
// tier directory if needed. The write goes to a temp file in the destination
// directory and is renamed into place so readers never observe a partial
// file. Re-writing an existing name overwrites it.
func (l *Layout) WriteFile(category string, tier domain.Tier, filename string, r io.Reader) (string, error) {
	dir := l.tierPath(category, tier)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create tier dir %s/%s: %w", category, tier, err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("write %s/%s/%s: %w", category, tier, filename, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close %s/%s/%s: %w", category, tier, filename, err)
	}

	dst := filepath.Join(dir, filename)
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("rename into %s/%s/%s: %w", category, tier, filename, err)
	}
	return dst, nil
}

// CopyFile copies an already stored file into another tier byte for byte,
// with the same temp-then-rename guarantee.
func (l *Layout) CopyFile(srcPath, category string, tier domain.Tier, filename string) (string, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", srcPath, err)
	}
	defer src.Close()
	return l.WriteFile(category, tier, filename, src)
}
