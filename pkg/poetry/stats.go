package poetry

import "sort"

// WordCount pairs a word with how often it occurred as a predecessor.
type WordCount struct {
	Word  string
	Count int
}

// TableStats holds aggregated statistics for a built TransitionTable.
type TableStats struct {
	UniqueWords      int         // occupied slots
	TotalTransitions int         // sum of all follow-list lengths
	Capacity         int         // backing array length
	LoadFactor       float64     // UniqueWords / Capacity
	LongestFollow    int         // longest single follow list
	TopWords         []WordCount // most frequent predecessors, descending
}

// CollectStats returns a snapshot of statistics for table, including the
// topN most frequent predecessor words (ties broken alphabetically).
func CollectStats(table *TransitionTable, topN int) TableStats {
	stats := TableStats{
		UniqueWords: table.Size(),
		Capacity:    table.Capacity(),
	}
	if stats.Capacity > 0 {
		stats.LoadFactor = float64(stats.UniqueWords) / float64(stats.Capacity)
	}

	var counts []WordCount
	table.Walk(func(key string, info *WordFreqInfo) bool {
		n := info.OccurCount()
		stats.TotalTransitions += n
		if n > stats.LongestFollow {
			stats.LongestFollow = n
		}
		counts = append(counts, WordCount{Word: key, Count: n})
		return true
	})

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Word < counts[j].Word
	})
	if topN > 0 && topN < len(counts) {
		counts = counts[:topN]
	}
	stats.TopWords = counts
	return stats
}
