package store

import (
	"sort"

	"bazical/internal/domain"
)

// Analyze summarizes a signature's entry history: total logs, the dominant
// tag, the full frequency table and the three most recent entries. Returns
// nil for an empty history. Tag frequency ties break toward the tag
// encountered first in insertion order, so the summary is stable across
// re-reads.
func Analyze(entries []domain.SignatureEntry) *domain.Analysis {
	if len(entries) == 0 {
		return nil
	}

	counts := make(map[string]int)
	var order []string
	for _, e := range entries {
		if counts[e.Tag] == 0 {
			order = append(order, e.Tag)
		}
		counts[e.Tag]++
	}

	tagCounts := make([]domain.TagCount, len(order))
	for i, tag := range order {
		tagCounts[i] = domain.TagCount{Tag: tag, Count: counts[tag]}
	}
	sort.SliceStable(tagCounts, func(i, j int) bool {
		return tagCounts[i].Count > tagCounts[j].Count
	})

	recent := append([]domain.SignatureEntry(nil), entries...)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt > recent[j].CreatedAt
	})
	if len(recent) > 3 {
		recent = recent[:3]
	}

	return &domain.Analysis{
		TotalLogs: len(entries),
		TopTag:    tagCounts[0].Tag,
		TagCounts: tagCounts,
		LastThree: recent,
	}
}
