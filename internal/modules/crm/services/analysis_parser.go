package services

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/core/llm"
)

// parsedAnalysis is a model answer that passed validation
type parsedAnalysis struct {
	Analysis       string `json:"analysis"`
	Recommendation string `json:"recommendation"`
}

func (p parsedAnalysis) valid() bool {
	return validField(p.Analysis) && validField(p.Recommendation)
}

func validField(s string) bool {
	return s != "" && utf8.RuneCountInString(s) <= llm.MaxAnalysisFieldLength
}

// parseStructured reads a JSON object with "analysis" and "recommendation".
// Markdown code fences around the object are tolerated.
func parseStructured(raw string) (parsedAnalysis, bool) {
	text := stripCodeFence(strings.TrimSpace(raw))
	if text == "" {
		return parsedAnalysis{}, false
	}

	var out parsedAnalysis
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return parsedAnalysis{}, false
	}
	out.Analysis = strings.TrimSpace(out.Analysis)
	out.Recommendation = strings.TrimSpace(out.Recommendation)

	if !out.valid() {
		return parsedAnalysis{}, false
	}
	return out, true
}

var (
	analysisLabels       = []string{"ANALYSIS:", "ANALYSIS -", "ANÁLISIS:", "ANALISIS:"}
	recommendationLabels = []string{"RECOMMENDATION:", "RECOMMENDATION -", "RECOMENDACIÓN:", "RECOMENDACION:"}
)

// parseLabeled reads "ANALYSIS:" / "RECOMMENDATION:" lines. Without labels
// it takes the first two non-empty lines.
func parseLabeled(raw string) (parsedAnalysis, bool) {
	var out parsedAnalysis
	var plain []string

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(strings.Trim(strings.TrimSpace(line), "*#"))
		if line == "" {
			continue
		}
		if v, ok := cutLabel(line, analysisLabels); ok {
			if out.Analysis == "" {
				out.Analysis = v
			}
			continue
		}
		if v, ok := cutLabel(line, recommendationLabels); ok {
			if out.Recommendation == "" {
				out.Recommendation = v
			}
			continue
		}
		plain = append(plain, line)
	}

	if out.Analysis == "" && out.Recommendation == "" && len(plain) >= 2 {
		out.Analysis, out.Recommendation = plain[0], plain[1]
	}

	if !out.valid() {
		return parsedAnalysis{}, false
	}
	return out, true
}

func cutLabel(line string, labels []string) (string, bool) {
	upper := strings.ToUpper(line)
	for _, label := range labels {
		if strings.HasPrefix(upper, label) {
			return strings.TrimSpace(strings.Trim(strings.TrimSpace(line[len(label):]), "*")), true
		}
	}
	return "", false
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:] // drop the language tag line
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
