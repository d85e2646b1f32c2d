package models

import "sort"

type LeaderboardEntry struct {
	UserID    UserID         `json:"userId"`
	Total     int64          `json:"total"`
	Breakdown map[string]int `json:"breakdown"`
	Batteries int            `json:"batteries"`
}

// Acts is the number of recorded work actions across all categories.
func (e LeaderboardEntry) Acts() int {
	n := 0
	for _, c := range e.Breakdown {
		n += c
	}
	return n
}

// BuildLeaderboard ranks every user seen in any ledger by realized profit.
// Totals are taken from the profit ledger as-is. Equal totals are ordered by
// user id.
func BuildLeaderboard(work WorkLedger, profit ProfitLedger, batteries CountLedger) []LeaderboardEntry {
	users := make(map[UserID]struct{})
	for _, counts := range work {
		for user := range counts {
			users[user] = struct{}{}
		}
	}
	for user := range profit {
		users[user] = struct{}{}
	}
	for user := range batteries {
		users[user] = struct{}{}
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for user := range users {
		breakdown := make(map[string]int, len(work))
		for category, counts := range work {
			breakdown[category] = counts[user]
		}
		entries = append(entries, LeaderboardEntry{
			UserID:    user,
			Total:     profit[user],
			Breakdown: breakdown,
			Batteries: batteries[user],
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Total != entries[j].Total {
			return entries[i].Total > entries[j].Total
		}
		return entries[i].UserID < entries[j].UserID
	})
	return entries
}

// RankByActs reorders a leaderboard by work performed instead of profit.
func RankByActs(entries []LeaderboardEntry) []LeaderboardEntry {
	out := append([]LeaderboardEntry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Acts() > out[j].Acts()
	})
	return out
}
