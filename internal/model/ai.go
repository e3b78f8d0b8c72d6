package model

// Impact ranks how much an AI recommendation is expected to help.
type Impact string

const (
	ImpactHigh   Impact = "HIGH"
	ImpactMedium Impact = "MEDIUM"
	ImpactLow    Impact = "LOW"
)

// ReadmeAnalysis is the AI assessment of the README.
type ReadmeAnalysis struct {
	Clarity      float64  `json:"clarity" yaml:"clarity"`
	Completeness float64  `json:"completeness" yaml:"completeness"`
	Structure    float64  `json:"structure" yaml:"structure"`
	Strengths    []string `json:"strengths" yaml:"strengths"`
	Weaknesses   []string `json:"weaknesses" yaml:"weaknesses"`
	Suggestions  []string `json:"suggestions" yaml:"suggestions"`
}

// CommitAnalysis is the AI assessment of recent commit messages.
type CommitAnalysis struct {
	Clarity         float64  `json:"clarity" yaml:"clarity"`
	Consistency     float64  `json:"consistency" yaml:"consistency"`
	Informativeness float64  `json:"informativeness" yaml:"informativeness"`
	Strengths       []string `json:"strengths" yaml:"strengths"`
	Weaknesses      []string `json:"weaknesses" yaml:"weaknesses"`
	Suggestions     []string `json:"suggestions" yaml:"suggestions"`
}

// CommunityAnalysis is the AI assessment of community tone and health.
type CommunityAnalysis struct {
	Tone            float64  `json:"tone" yaml:"tone"`
	Inclusiveness   float64  `json:"inclusiveness" yaml:"inclusiveness"`
	Responsiveness  float64  `json:"responsiveness" yaml:"responsiveness"`
	PositiveSignals []string `json:"positiveSignals" yaml:"positiveSignals"`
	Concerns        []string `json:"concerns" yaml:"concerns"`
	Suggestions     []string `json:"suggestions" yaml:"suggestions"`
}

// AIRecommendation is one cross-cutting improvement suggested by the AI backend.
type AIRecommendation struct {
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description" yaml:"description"`
	Impact      Impact  `json:"impact" yaml:"impact"`
	Confidence  float64 `json:"confidence" yaml:"confidence"`
	Category    string  `json:"category" yaml:"category"`
}

// AIAnalysis holds whatever AI sub-analyses succeeded. Absent sub-analyses
// are nil; Recommendations is never nil.
type AIAnalysis struct {
	Backend         string             `json:"backend,omitempty" yaml:"backend,omitempty"`
	Readme          *ReadmeAnalysis    `json:"readme,omitempty" yaml:"readme,omitempty"`
	CommitQuality   *CommitAnalysis    `json:"commitQuality,omitempty" yaml:"commitQuality,omitempty"`
	CommunityHealth *CommunityAnalysis `json:"communityHealth,omitempty" yaml:"communityHealth,omitempty"`
	Recommendations []AIRecommendation `json:"recommendations" yaml:"recommendations"`
	TokensUsed      int                `json:"tokensUsed" yaml:"tokensUsed"`
}

// Empty reports whether no sub-analysis is present.
func (a *AIAnalysis) Empty() bool {
	return a == nil || (a.Readme == nil && a.CommitQuality == nil && a.CommunityHealth == nil && len(a.Recommendations) == 0)
}
