package domain

import (
	"encoding/json"
	"sort"
	"time"
)

const (
	DefaultUserName = "Irmão(ã)"
	DateLayout      = "2006-01-02"
)

type HistoryEntry struct {
	Date     string `json:"date"`
	Chapters int    `json:"chapters"`
}

type UserStats struct {
	UserName       string         `json:"userName"`
	Streak         int            `json:"streak"`
	ChaptersRead   int            `json:"chaptersRead"`
	BooksCompleted int            `json:"booksCompleted"`
	TotalMinutes   int            `json:"totalMinutes"`
	History        []HistoryEntry `json:"history"`
}

func DefaultStats() UserStats {
	return UserStats{
		UserName: DefaultUserName,
		History:  []HistoryEntry{},
	}
}

func (s UserStats) Clone() UserStats {
	history := make([]HistoryEntry, len(s.History))
	copy(history, s.History)
	s.History = history
	return s
}

// MergeStatsDefaults decodes a stored record over current, so fields the
// stored record lacks keep their current values. Counters are clamped to
// zero and history entries without chapters are dropped.
func MergeStatsDefaults(stored []byte, current UserStats) (UserStats, error) {
	merged := current.Clone()
	if err := json.Unmarshal(stored, &merged); err != nil {
		return current, err
	}

	merged.Streak = max(0, merged.Streak)
	merged.ChaptersRead = max(0, merged.ChaptersRead)
	merged.BooksCompleted = max(0, merged.BooksCompleted)
	merged.TotalMinutes = max(0, merged.TotalMinutes)

	history := make([]HistoryEntry, 0, len(merged.History))
	for _, h := range merged.History {
		if h.Chapters < 1 || h.Date == "" {
			continue
		}
		history = append(history, h)
	}
	merged.History = history

	return merged, nil
}

// AggregateHistory sums same-day entries, ordered by date ascending.
func AggregateHistory(history []HistoryEntry) []HistoryEntry {
	totals := make(map[string]int)
	for _, h := range history {
		totals[h.Date] += h.Chapters
	}

	out := make([]HistoryEntry, 0, len(totals))
	for date, chapters := range totals {
		out = append(out, HistoryEntry{Date: date, Chapters: chapters})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out
}

// CalculateStreak counts consecutive reading days ending today or
// yesterday. Dates that fail to parse are ignored.
func CalculateStreak(history []HistoryEntry, now time.Time) int {
	uniqueDays := make(map[string]bool)
	var sortedDates []time.Time

	for _, h := range history {
		if uniqueDays[h.Date] {
			continue
		}
		t, err := time.Parse(DateLayout, h.Date)
		if err != nil {
			continue
		}
		uniqueDays[h.Date] = true
		sortedDates = append(sortedDates, t)
	}

	if len(sortedDates) == 0 {
		return 0
	}

	sort.Slice(sortedDates, func(i, j int) bool {
		return sortedDates[i].After(sortedDates[j])
	})

	today, _ := time.Parse(DateLayout, now.Format(DateLayout))
	diff := today.Sub(sortedDates[0]).Hours() / 24
	if diff < 0 || diff > 1 {
		return 0
	}

	streak := 1
	for i := 0; i < len(sortedDates)-1; i++ {
		if sortedDates[i].Sub(sortedDates[i+1]).Hours() != 24 {
			break
		}
		streak++
	}
	return streak
}
