package report

import (
	"math"
	"time"
)

// StatusCount is one row of a status breakdown.
type StatusCount struct {
	Status string
	Count  int
}

// Breakdown is a status count over a fixed vocabulary. Statuses declared in
// the vocabulary always appear, with zero counts when absent from the
// input; statuses outside the vocabulary are appended in first-seen order.
type Breakdown struct {
	Total  int
	Counts []StatusCount
}

func StatusBreakdown(statuses []string, vocabulary []string) Breakdown {
	index := make(map[string]int, len(vocabulary))
	counts := make([]StatusCount, 0, len(vocabulary))
	for _, status := range vocabulary {
		index[status] = len(counts)
		counts = append(counts, StatusCount{Status: status})
	}

	for _, status := range statuses {
		i, ok := index[status]
		if !ok {
			i = len(counts)
			index[status] = i
			counts = append(counts, StatusCount{Status: status})
		}
		counts[i].Count++
	}

	return Breakdown{Total: len(statuses), Counts: counts}
}

// KeyCount is one row of an arbitrary-key grouping.
type KeyCount struct {
	Key   string
	Count int
}

// CountBy groups by an arbitrary key; output order is first-seen order.
func CountBy(keys []string) []KeyCount {
	index := make(map[string]int, len(keys))
	var counts []KeyCount
	for _, key := range keys {
		i, ok := index[key]
		if !ok {
			i = len(counts)
			index[key] = i
			counts = append(counts, KeyCount{Key: key})
		}
		counts[i].Count++
	}
	return counts
}

// PercentageRow pairs a status count with its share of the total.
type PercentageRow struct {
	Status  string
	Count   int
	Percent float64
}

// PercentageResult is a breakdown with percentages. HasData is false for an
// empty input; callers render "no data" instead of numbers in that case.
type PercentageResult struct {
	HasData bool
	Total   int
	Rows    []PercentageRow
}

// Percentages computes each status's share to one decimal place. A zero
// total never divides; it yields an explicit no-data result.
func Percentages(b Breakdown) PercentageResult {
	if b.Total == 0 {
		return PercentageResult{}
	}

	rows := make([]PercentageRow, len(b.Counts))
	for i, sc := range b.Counts {
		percent := float64(sc.Count) / float64(b.Total) * 100
		rows[i] = PercentageRow{
			Status:  sc.Status,
			Count:   sc.Count,
			Percent: math.Round(percent*10) / 10,
		}
	}
	return PercentageResult{HasData: true, Total: b.Total, Rows: rows}
}

// DatePair is a start/end pair; either side may be missing.
type DatePair struct {
	Start *time.Time
	End   *time.Time
}

func (p DatePair) Complete() bool {
	return p.Start != nil && p.End != nil
}

// DurationSummary reports the mean elapsed days over the measurable pairs.
// Records missing either date stay in Total but never skew the mean.
type DurationSummary struct {
	Total       int
	Measured    int
	AverageDays float64
}

func (d DurationSummary) HasData() bool {
	return d.Measured > 0
}

func AverageDays(pairs []DatePair) DurationSummary {
	summary := DurationSummary{Total: len(pairs)}

	var sum float64
	for _, pair := range pairs {
		if !pair.Complete() {
			continue
		}
		summary.Measured++
		sum += pair.End.Sub(*pair.Start).Hours() / 24
	}

	if summary.Measured > 0 {
		summary.AverageDays = math.Round(sum/float64(summary.Measured)*10) / 10
	}
	return summary
}
