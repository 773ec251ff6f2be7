// Package catalog discovers and classifies input documents under the data
// root. Classification never opens a file: it uses the parent directory
// name first, then filename keywords.
package catalog

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jonathan/sales-assistant/internal/document"
	"github.com/jonathan/sales-assistant/internal/extract"
)

// File is an immutable snapshot of one discovered document at scan time.
type File struct {
	Path       string
	Category   document.Category
	ModifiedAt time.Time
	SizeBytes  int64
}

// typeKeywords maps a category to the filename substrings that imply it.
// The sets are bilingual because source documents arrive named in either
// Chinese or English.
var typeKeywords = map[document.Category][]string{
	document.CategoryProduct:    {"产品", "product", "方案", "plan", "险种"},
	document.CategoryCompetitor: {"竞品", "competitor", "竞争", "competition", "对手"},
	document.CategoryCustomer:   {"客户", "customer", "用户", "user", "画像", "profile"},
	document.CategoryCatalog:    {"目录", "catalog", "列表", "list", "清单"},
}

// Classify assigns a category from file metadata alone. The immediate
// parent directory name wins when it matches a category folder; otherwise
// the filename is scanned for category keywords; otherwise unknown.
func Classify(path string) document.Category {
	parent := strings.ToLower(filepath.Base(filepath.Dir(path)))
	for _, cat := range document.Categories() {
		if parent == string(cat) {
			return cat
		}
	}

	name := filepath.Base(path)
	stem := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
	for _, cat := range document.Categories() {
		for _, keyword := range typeKeywords[cat] {
			if strings.Contains(stem, keyword) {
				return cat
			}
		}
	}
	return document.CategoryUnknown
}

// Index performs discovery scans over a data root. It holds no cache: every
// lookup reflects the filesystem at call time.
type Index struct {
	root string
}

// NewIndex returns an Index over root.
func NewIndex(root string) *Index {
	return &Index{root: root}
}

// Scan walks the data root and snapshots every supported document.
func (ix *Index) Scan() ([]File, error) {
	var files []File
	err := filepath.WalkDir(ix.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !extract.Supported(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, File{
			Path:       path,
			Category:   Classify(path),
			ModifiedAt: info.ModTime(),
			SizeBytes:  info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", ix.root, err)
	}
	sortByRecency(files)
	return files, nil
}

// Latest returns the most recently modified file of the category, or nil
// when none exists. Equal modification times break by path order so the
// result is deterministic.
func (ix *Index) Latest(category document.Category) (*File, error) {
	files, err := ix.Scan()
	if err != nil {
		return nil, err
	}
	for i := range files {
		if files[i].Category == category {
			return &files[i], nil
		}
	}
	return nil, nil
}

// Find returns the category's files whose name (without extension) contains
// pattern, case-insensitively, most recent first.
func (ix *Index) Find(category document.Category, pattern string) ([]File, error) {
	files, err := ix.Scan()
	if err != nil {
		return nil, err
	}
	pattern = strings.ToLower(pattern)

	var matched []File
	for _, f := range files {
		if f.Category != category {
			continue
		}
		name := filepath.Base(f.Path)
		stem := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
		if strings.Contains(stem, pattern) {
			matched = append(matched, f)
		}
	}
	return matched, nil
}

// ByCategory groups a scan by category, preserving recency order.
func (ix *Index) ByCategory() (map[document.Category][]File, error) {
	files, err := ix.Scan()
	if err != nil {
		return nil, err
	}
	grouped := make(map[document.Category][]File)
	for _, f := range files {
		grouped[f.Category] = append(grouped[f.Category], f)
	}
	return grouped, nil
}

func sortByRecency(files []File) {
	sort.Slice(files, func(i, j int) bool {
		if !files[i].ModifiedAt.Equal(files[j].ModifiedAt) {
			return files[i].ModifiedAt.After(files[j].ModifiedAt)
		}
		return files[i].Path < files[j].Path
	})
}

// OrganizeSummary reports what Organize did (or would do, in dry-run mode).
type OrganizeSummary struct {
	Moved            []string
	AlreadyOrganized []string
	Unclassified     []string
}

// Organize moves classified files into their category folder under the
// root. Name collisions get an incrementing suffix. With dryRun the summary
// is computed without touching the filesystem.
func (ix *Index) Organize(dryRun bool) (*OrganizeSummary, error) {
	files, err := ix.Scan()
	if err != nil {
		return nil, err
	}

	summary := &OrganizeSummary{}
	for _, f := range files {
		if f.Category == document.CategoryUnknown {
			summary.Unclassified = append(summary.Unclassified, f.Path)
			continue
		}

		targetDir := filepath.Join(ix.root, string(f.Category))
		if filepath.Dir(f.Path) == targetDir {
			summary.AlreadyOrganized = append(summary.AlreadyOrganized, f.Path)
			continue
		}

		target := filepath.Join(targetDir, filepath.Base(f.Path))
		target = dodgeCollision(target)
		summary.Moved = append(summary.Moved, fmt.Sprintf("%s -> %s", f.Path, target))

		if dryRun {
			continue
		}
		if err := os.MkdirAll(targetDir, 0o755); err != nil {
			return nil, fmt.Errorf("organizing %s: %w", f.Path, err)
		}
		if err := os.Rename(f.Path, target); err != nil {
			return nil, fmt.Errorf("organizing %s: %w", f.Path, err)
		}
	}
	return summary, nil
}

func dodgeCollision(target string) string {
	if _, err := os.Stat(target); os.IsNotExist(err) {
		return target
	}
	ext := filepath.Ext(target)
	stem := strings.TrimSuffix(target, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}
