package domain

import "sort"

// TallyEntry is the number of ballots a candidate received for one position.
type TallyEntry struct {
	Candidate  string   `json:"candidate"`
	Position   Position `json:"position"`
	TotalVotes int64    `json:"total_votes"`
}

// SortTally orders entries by TotalVotes descending. Ties are broken by
// candidate, then position, both ascending.
func SortTally(entries []TallyEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.TotalVotes != b.TotalVotes {
			return a.TotalVotes > b.TotalVotes
		}
		if a.Candidate != b.Candidate {
			return a.Candidate < b.Candidate
		}
		return a.Position < b.Position
	})
}
