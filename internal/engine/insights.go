package engine

import (
	"fmt"

	"goprofile/domain/profile"
)

// Insight thresholds
const (
	highMissingPercent     = 30
	highCardinalityPercent = 90
	highCardinalityUnique  = 100
	avgMissingPercentLimit = 15
)

// deriveInsights applies the per-column and global insight rules.
// columnOrder fixes the emission order so reports are deterministic.
func deriveInsights(columnOrder []string, columns map[string]*profile.ColumnStats, correlations profile.CorrelationSet) []profile.Insight {
	insights := make([]profile.Insight, 0)

	for _, name := range columnOrder {
		cs, ok := columns[name]
		if !ok {
			continue
		}
		insights = append(insights, columnInsights(name, cs)...)
	}

	if len(correlations.Strong) >= 1 {
		insights = append(insights, profile.Insight{
			Type:     profile.InsightInsight,
			Category: "Multicollinearity",
			Message:  fmt.Sprintf("%d strongly correlated column pair(s) detected; consider removing redundant features", len(correlations.Strong)),
			Severity: profile.SeverityMedium,
		})
	}

	if avg, ok := averageNumericMissing(columnOrder, columns); ok && avg > avgMissingPercentLimit {
		insights = append(insights, profile.Insight{
			Type:     profile.InsightWarning,
			Category: "Data Quality",
			Message:  fmt.Sprintf("numeric columns average %.1f%% missing values", avg),
			Severity: profile.SeverityHigh,
		})
	}

	profile.SortBySeverity(insights)
	return insights
}

func columnInsights(name string, cs *profile.ColumnStats) []profile.Insight {
	var out []profile.Insight

	if cs.MissingPercent > highMissingPercent {
		out = append(out, profile.Insight{
			Type:     profile.InsightWarning,
			Category: "Data Quality",
			Message:  fmt.Sprintf("column %q has %.1f%% missing values", name, cs.MissingPercent),
			Severity: profile.SeverityHigh,
		})
	}

	switch cs.Type {
	case profile.TypeNumeric:
		if cs.Outliers != nil && *cs.Outliers > 0 {
			out = append(out, profile.Insight{
				Type:     profile.InsightInfo,
				Category: "Outliers",
				Message:  fmt.Sprintf("column %q contains %d outlier(s) outside the IQR bounds", name, *cs.Outliers),
				Severity: profile.SeverityMedium,
			})
		}
		if cs.StdDev != nil && *cs.StdDev == 0 {
			out = append(out, profile.Insight{
				Type:     profile.InsightWarning,
				Category: "Data Quality",
				Message:  fmt.Sprintf("column %q has zero variance", name),
				Severity: profile.SeverityHigh,
			})
		}
	case profile.TypeCategorical:
		if cs.Unique == 1 {
			out = append(out, profile.Insight{
				Type:     profile.InsightWarning,
				Category: "Feature Engineering",
				Message:  fmt.Sprintf("column %q is constant", name),
				Severity: profile.SeverityHigh,
			})
		}
		if cs.ValidCount > 0 && cs.Unique == cs.ValidCount {
			out = append(out, profile.Insight{
				Type:     profile.InsightInfo,
				Category: "Feature Engineering",
				Message:  fmt.Sprintf("column %q is likely an identifier (every value unique)", name),
				Severity: profile.SeverityLow,
			})
		}
		if cs.UniquePercent > highCardinalityPercent && cs.Unique > highCardinalityUnique {
			out = append(out, profile.Insight{
				Type:     profile.InsightInfo,
				Category: "Feature Engineering",
				Message:  fmt.Sprintf("column %q has high cardinality (%d distinct values)", name, cs.Unique),
				Severity: profile.SeverityMedium,
			})
		}
	}

	return out
}

func averageNumericMissing(columnOrder []string, columns map[string]*profile.ColumnStats) (float64, bool) {
	sum := 0.0
	count := 0
	for _, name := range columnOrder {
		cs, ok := columns[name]
		if !ok || cs.Type != profile.TypeNumeric {
			continue
		}
		sum += cs.MissingPercent
		count++
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}
