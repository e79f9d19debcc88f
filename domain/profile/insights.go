package profile

import "sort"

// Insight kinds
const (
	InsightWarning = "warning"
	InsightInfo    = "info"
	InsightInsight = "insight"
)

// Insight severities
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// Insight is a rule-derived qualitative annotation on a report
type Insight struct {
	Type     string `json:"type"`
	Category string `json:"category"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

var severityRank = map[string]int{
	SeverityHigh:   0,
	SeverityMedium: 1,
	SeverityLow:    2,
}

// SortBySeverity orders insights high, medium, low, preserving emission
// order within a severity
func SortBySeverity(insights []Insight) {
	sort.SliceStable(insights, func(i, j int) bool {
		return severityRank[insights[i].Severity] < severityRank[insights[j].Severity]
	})
}
