// internal/analyzer/language.go
package analyzer

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/boyter/scc/v3/processor"
	"github.com/go-enry/go-enry/v2"
)

var initOnce sync.Once

// maxFileBytes skips generated blobs and fixtures that would skew counts.
const maxFileBytes = 1 << 20

// LanguageCount is the amount of code scc attributes to one language.
type LanguageCount struct {
	Name  string
	Files int64
	Code  int64
}

// Languages wraps scc's processor package to measure a checkout.
type Languages struct{}

// NewLanguages ensures scc's ProcessConstants is called exactly once, even
// when several goroutines create detectors concurrently.
func NewLanguages() *Languages {
	initOnce.Do(func() {
		processor.ProcessConstants()
	})
	return &Languages{}
}

// Count walks dir and returns code line counts per language, largest first.
// Vendored, generated-looking, documentation and dot files are skipped.
func (l *Languages) Count(ctx context.Context, dir string) ([]LanguageCount, error) {
	byLang := map[string]*LanguageCount{}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if d.Name() == ".git" || enry.IsVendor(rel+"/") || enry.IsDotFile(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if enry.IsVendor(rel) || enry.IsDotFile(rel) || enry.IsDocumentation(rel) || enry.IsConfiguration(rel) {
			return nil
		}

		info, err := d.Info()
		if err != nil || info.Size() == 0 || info.Size() > maxFileBytes {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil
		}

		possible, _ := processor.DetectLanguage(d.Name())
		if len(possible) == 0 {
			return nil
		}
		job := &processor.FileJob{
			Filename:          d.Name(),
			Content:           content,
			Bytes:             int64(len(content)),
			PossibleLanguages: possible,
		}
		job.Language = processor.DetermineLanguage(job.Filename, job.Language, job.PossibleLanguages, job.Content)
		if job.Language == "" {
			return nil
		}
		processor.CountStats(job)
		if job.Binary || job.Code == 0 {
			return nil
		}

		lc, ok := byLang[job.Language]
		if !ok {
			lc = &LanguageCount{Name: job.Language}
			byLang[job.Language] = lc
		}
		lc.Files++
		lc.Code += job.Code
		return nil
	})
	if err != nil {
		return nil, err
	}

	counts := make([]LanguageCount, 0, len(byLang))
	for _, lc := range byLang {
		counts = append(counts, *lc)
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Code != counts[j].Code {
			return counts[i].Code > counts[j].Code
		}
		return counts[i].Name < counts[j].Name
	})
	return counts, nil
}

// Primary returns the language with the most code in dir, or "".
func (l *Languages) Primary(ctx context.Context, dir string) (string, error) {
	counts, err := l.Count(ctx, dir)
	if err != nil || len(counts) == 0 {
		return "", err
	}
	return counts[0].Name, nil
}
