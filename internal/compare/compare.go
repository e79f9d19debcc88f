// Package compare diffs two profile reports into a structured change
// document with its own derived insights.
package compare

import (
	"fmt"
	"sort"

	"goprofile/domain/profile"
)

// Change-significance thresholds
const (
	topValueSignificantPercent   = 20
	correlationSignificantDiff   = 0.2
	rowChangeHighPercent         = 50
	rowChangeMediumPercent       = 20
	missingIncreaseMediumPercent = 5
	meanChangeMediumPercent      = 20
)

// Reports diffs first against second
func Reports(first, second *profile.Report) *profile.ComparisonReport {
	result := &profile.ComparisonReport{
		RowCount:      rowCountChange(first, second),
		Columns:       partitionColumns(first, second),
		ColumnChanges: make(map[string]profile.ColumnChange),
		Correlations:  correlationChanges(first, second),
	}

	for _, name := range result.Columns.Common {
		result.ColumnChanges[name] = columnChange(first.Columns[name], second.Columns[name])
	}

	result.Insights = deriveInsights(result, first, second)
	return result
}

func rowCountChange(first, second *profile.Report) profile.RowCountChange {
	a, b := first.Summary.TotalRows, second.Summary.TotalRows
	change := profile.RowCountChange{First: a, Second: b, Diff: b - a}
	if a != 0 {
		change.PercentChange = float64(b-a) / float64(a) * 100
	}
	return change
}

func partitionColumns(first, second *profile.Report) profile.ColumnsPartition {
	p := profile.ColumnsPartition{
		Common:       []string{},
		OnlyInFirst:  []string{},
		OnlyInSecond: []string{},
	}
	for name := range first.Columns {
		if _, ok := second.Columns[name]; ok {
			p.Common = append(p.Common, name)
		} else {
			p.OnlyInFirst = append(p.OnlyInFirst, name)
		}
	}
	for name := range second.Columns {
		if _, ok := first.Columns[name]; !ok {
			p.OnlyInSecond = append(p.OnlyInSecond, name)
		}
	}
	sort.Strings(p.Common)
	sort.Strings(p.OnlyInFirst)
	sort.Strings(p.OnlyInSecond)
	return p
}

func columnChange(a, b *profile.ColumnStats) profile.ColumnChange {
	change := profile.ColumnChange{
		MissingCount: profile.NewDelta(float64(a.MissingCount), float64(b.MissingCount)),
		Unique:       profile.NewDelta(float64(a.Unique), float64(b.Unique)),
	}
	if a.Type != b.Type {
		change.TypeChanged = true
		change.TypeChange = fmt.Sprintf("%s→%s", a.Type, b.Type)
	}

	if a.Type == profile.TypeNumeric && b.Type == profile.TypeNumeric {
		change.Mean = deltaPtr(a.Mean, b.Mean)
		change.StdDev = deltaPtr(a.StdDev, b.StdDev)
		change.Min = deltaPtr(a.Min, b.Min)
		change.Max = deltaPtr(a.Max, b.Max)
		if a.Min != nil && a.Max != nil && b.Min != nil && b.Max != nil {
			d := profile.NewDelta(*a.Max-*a.Min, *b.Max-*b.Min)
			change.Range = &d
		}
		change.Outliers = intDeltaPtr(a.Outliers, b.Outliers)
	}

	if a.Type == profile.TypeCategorical && b.Type == profile.TypeCategorical {
		change.Entropy = deltaPtr(a.Entropy, b.Entropy)
		change.TopValues = topValueChanges(a.TopValues, b.TopValues)
	}

	return change
}

// topValueChanges pairs every value seen in either top set
func topValueChanges(first, second []profile.TopValue) []profile.TopValueChange {
	counts1 := make(map[string]int, len(first))
	counts2 := make(map[string]int, len(second))
	order := make([]string, 0, len(first)+len(second))
	seen := make(map[string]bool)

	for _, tv := range first {
		counts1[tv.Value] = tv.Count
		if !seen[tv.Value] {
			seen[tv.Value] = true
			order = append(order, tv.Value)
		}
	}
	for _, tv := range second {
		counts2[tv.Value] = tv.Count
		if !seen[tv.Value] {
			seen[tv.Value] = true
			order = append(order, tv.Value)
		}
	}

	changes := make([]profile.TopValueChange, 0, len(order))
	for _, value := range order {
		c1, c2 := counts1[value], counts2[value]
		change := profile.TopValueChange{
			Value:  value,
			Count1: c1,
			Count2: c2,
			Diff:   c2 - c1,
		}
		if c1 != 0 {
			change.PercentChange = float64(c2-c1) / float64(c1) * 100
		} else if c2 != 0 {
			change.PercentChange = 100
		}
		change.Significant = abs(change.PercentChange) > topValueSignificantPercent
		changes = append(changes, change)
	}
	return changes
}

// correlationChanges categorizes each pair as added, removed, or changed
func correlationChanges(first, second *profile.Report) profile.CorrelationChanges {
	byKey1 := make(map[string]profile.CorrelationPair)
	for _, p := range first.Correlations.All {
		byKey1[p.Key()] = p
	}
	byKey2 := make(map[string]profile.CorrelationPair)
	for _, p := range second.Correlations.All {
		byKey2[p.Key()] = p
	}

	changes := profile.CorrelationChanges{
		Added:   []profile.CorrelationPair{},
		Removed: []profile.CorrelationPair{},
		Changed: []profile.CorrelationChange{},
	}

	for _, p1 := range first.Correlations.All {
		p2, ok := byKey2[p1.Key()]
		if !ok {
			changes.Removed = append(changes.Removed, p1)
			continue
		}
		diff := p2.R - p1.R
		changes.Changed = append(changes.Changed, profile.CorrelationChange{
			Column1:     p1.Column1,
			Column2:     p1.Column2,
			R1:          p1.R,
			R2:          p2.R,
			Diff:        diff,
			Significant: abs(diff) > correlationSignificantDiff,
			SignChange:  (p1.R > 0) != (p2.R > 0),
		})
	}
	for _, p2 := range second.Correlations.All {
		if _, ok := byKey1[p2.Key()]; !ok {
			changes.Added = append(changes.Added, p2)
		}
	}

	return changes
}

func deriveInsights(result *profile.ComparisonReport, first, second *profile.Report) []profile.Insight {
	insights := make([]profile.Insight, 0)

	rowPct := abs(result.RowCount.PercentChange)
	if rowPct > rowChangeHighPercent {
		insights = append(insights, profile.Insight{
			Type:     profile.InsightWarning,
			Category: "Volume",
			Message:  fmt.Sprintf("row count changed by %.1f%%", result.RowCount.PercentChange),
			Severity: profile.SeverityHigh,
		})
	} else if rowPct > rowChangeMediumPercent {
		insights = append(insights, profile.Insight{
			Type:     profile.InsightInfo,
			Category: "Volume",
			Message:  fmt.Sprintf("row count changed by %.1f%%", result.RowCount.PercentChange),
			Severity: profile.SeverityMedium,
		})
	}

	if len(result.Columns.OnlyInFirst) > 0 || len(result.Columns.OnlyInSecond) > 0 {
		insights = append(insights, profile.Insight{
			Type:     profile.InsightWarning,
			Category: "Schema",
			Message: fmt.Sprintf("column set changed: %d removed, %d added",
				len(result.Columns.OnlyInFirst), len(result.Columns.OnlyInSecond)),
			Severity: profile.SeverityHigh,
		})
	}

	typeChanges := 0
	missingIncreases := 0
	meanShifts := 0
	for _, name := range result.Columns.Common {
		change := result.ColumnChanges[name]
		if change.TypeChanged {
			typeChanges++
		}
		// Missing percent is compared in points, not relative change
		if second.Columns[name].MissingPercent-first.Columns[name].MissingPercent > missingIncreaseMediumPercent {
			missingIncreases++
		}
		if change.Mean != nil && abs(change.Mean.PercentChange) > meanChangeMediumPercent {
			meanShifts++
		}
	}

	if typeChanges > 0 {
		insights = append(insights, profile.Insight{
			Type:     profile.InsightWarning,
			Category: "Schema",
			Message:  fmt.Sprintf("%d column(s) changed type", typeChanges),
			Severity: profile.SeverityHigh,
		})
	}
	if missingIncreases > 0 {
		insights = append(insights, profile.Insight{
			Type:     profile.InsightWarning,
			Category: "Data Quality",
			Message:  fmt.Sprintf("%d column(s) show a notable increase in missing values", missingIncreases),
			Severity: profile.SeverityMedium,
		})
	}
	if meanShifts > 0 {
		insights = append(insights, profile.Insight{
			Type:     profile.InsightInfo,
			Category: "Drift",
			Message:  fmt.Sprintf("%d numeric column(s) shifted mean by more than %d%%", meanShifts, meanChangeMediumPercent),
			Severity: profile.SeverityMedium,
		})
	}

	significant := 0
	signFlips := 0
	for _, change := range result.Correlations.Changed {
		if change.Significant {
			significant++
		}
		if change.SignChange {
			signFlips++
		}
	}
	if significant > 0 {
		insights = append(insights, profile.Insight{
			Type:     profile.InsightInfo,
			Category: "Relationships",
			Message:  fmt.Sprintf("%d correlation(s) changed significantly", significant),
			Severity: profile.SeverityMedium,
		})
	}
	if signFlips > 0 {
		insights = append(insights, profile.Insight{
			Type:     profile.InsightWarning,
			Category: "Relationships",
			Message:  fmt.Sprintf("%d correlation(s) flipped sign", signFlips),
			Severity: profile.SeverityHigh,
		})
	}

	profile.SortBySeverity(insights)
	return insights
}

func deltaPtr(a, b *float64) *profile.Delta {
	if a == nil || b == nil {
		return nil
	}
	d := profile.NewDelta(*a, *b)
	return &d
}

func intDeltaPtr(a, b *int) *profile.Delta {
	if a == nil || b == nil {
		return nil
	}
	d := profile.NewDelta(float64(*a), float64(*b))
	return &d
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
