// Package license identifies the SPDX license of a checkout.
package license

import (
	"strings"

	"github.com/go-enry/go-license-detector/v4/licensedb"
	"github.com/go-enry/go-license-detector/v4/licensedb/api"
	"github.com/go-enry/go-license-detector/v4/licensedb/filer"
)

const confidenceThreshold = 0.85

// Detect scans the directory for license files and returns the SPDX
// identifier of the most confident match, or empty string if none found.
func Detect(dir string) string {
	f, err := filer.FromDirectory(dir)
	if err != nil {
		return ""
	}
	results, err := licensedb.Detect(f)
	if err != nil {
		return ""
	}
	return best(results)
}

func best(results map[string]api.Match) string {
	var bestID string
	var bestConf float32
	for id, match := range results {
		if match.Confidence < confidenceThreshold {
			continue
		}
		// ties resolve alphabetically so the result is stable
		if match.Confidence > bestConf || (match.Confidence == bestConf && id < bestID) {
			bestConf = match.Confidence
			bestID = id
		}
	}
	return bestID
}

// Normalize cleans an SPDX identifier reported by a hosting API. GitHub
// reports unrecognized licenses as NOASSERTION, which means unknown.
func Normalize(spdx string) string {
	spdx = strings.TrimSpace(spdx)
	if strings.EqualFold(spdx, "NOASSERTION") || strings.EqualFold(spdx, "other") {
		return ""
	}
	return spdx
}
