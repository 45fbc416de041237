package models

import "sort"

// MaxHighScores is the number of entries kept on the leaderboard
const MaxHighScores = 10

// HighScoreEntry is one line of the leaderboard.
// The label is serialized as "module" to stay readable by existing saved lists.
type HighScoreEntry struct {
	Label string `json:"module"`
	Score int    `json:"score"`
}

// RankHighScores sorts entries by score descending, drops non-positive
// scores and keeps at most MaxHighScores. Ties keep their insertion order.
func RankHighScores(entries []HighScoreEntry) []HighScoreEntry {
	ranked := make([]HighScoreEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Score > 0 {
			ranked = append(ranked, entry)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > MaxHighScores {
		ranked = ranked[:MaxHighScores]
	}
	return ranked
}
