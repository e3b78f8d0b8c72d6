package metrics

import (
	"fmt"
	"path"
	"strings"

	"github.com/dsablic/repomaint/internal/model"
)

// docFile is one canonical documentation file and the base names that count for it.
type docFile struct {
	label string
	names []string
}

var docFiles = []docFile{
	{label: "README", names: []string{"readme"}},
	{label: "CONTRIBUTING", names: []string{"contributing"}},
	{label: "LICENSE", names: []string{"license", "licence", "copying"}},
	{label: "CODE_OF_CONDUCT", names: []string{"code_of_conduct", "code-of-conduct"}},
	{label: "CHANGELOG", names: []string{"changelog", "history", "changes"}},
}

var docExtensions = map[string]bool{
	"":          true,
	".md":       true,
	".markdown": true,
	".txt":      true,
	".rst":      true,
	".adoc":     true,
	".org":      true,
}

// Documentation scores the presence of canonical project documents.
type Documentation struct{}

func (Documentation) Name() model.MetricName { return model.MetricDocumentation }

func (Documentation) Description() string {
	return "Presence of README, CONTRIBUTING, LICENSE, CODE_OF_CONDUCT and CHANGELOG files"
}

func (d Documentation) Calculate(s *model.Snapshot) model.MetricResult {
	if s == nil {
		return noData(d)
	}

	present := map[string]bool{}
	for _, f := range s.Files {
		if label, ok := matchDocFile(f); ok {
			present[label] = true
		}
	}

	var found, missing []string
	for _, df := range docFiles {
		if !present[df.label] {
			missing = append(missing, df.label)
			continue
		}
		if df.label == "LICENSE" && s.License != "" {
			found = append(found, fmt.Sprintf("LICENSE (%s)", s.License))
			continue
		}
		found = append(found, df.label)
	}

	score := float64(len(found)) / float64(len(docFiles)) * 100
	return model.NewMetricResult(d.Name(), score, d.Description(), docDetails(found, missing))
}

// matchDocFile reports which canonical document p is, if any.
func matchDocFile(p string) (string, bool) {
	base := strings.ToLower(path.Base(p))
	ext := path.Ext(base)
	if !docExtensions[ext] {
		return "", false
	}
	stem := strings.TrimSuffix(base, ext)
	for _, df := range docFiles {
		for _, n := range df.names {
			if stem == n {
				return df.label, true
			}
		}
	}
	return "", false
}

func docDetails(found, missing []string) string {
	join := func(items []string) string {
		if len(items) == 0 {
			return "none"
		}
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("found: %s; missing: %s", join(found), join(missing))
}
