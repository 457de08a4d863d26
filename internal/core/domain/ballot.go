package domain

import (
	"strings"
	"time"
)

// Position is the election seat a ballot is cast for.
type Position string

const (
	PositionMLA Position = "MLA"
	PositionMP  Position = "MP"
)

// Positions lists every seat a voter may cast a ballot for, in display order.
var Positions = []Position{PositionMLA, PositionMP}

// ParsePosition trims s and reports whether it names a known position.
// Matching is exact: "mla" is not a valid position.
func ParsePosition(s string) (Position, bool) {
	p := Position(strings.TrimSpace(s))
	for _, known := range Positions {
		if p == known {
			return p, true
		}
	}
	return "", false
}

// Ballot is a single recorded vote. At most one ballot exists per
// (VoterID, Position) pair.
type Ballot struct {
	ID        string    `json:"id"`
	VoterID   string    `json:"voter_id"`
	Candidate string    `json:"candidate"`
	Position  Position  `json:"position"`
	CastAt    time.Time `json:"cast_at"`
}

// BallotKey identifies the uniqueness slot a ballot occupies.
type BallotKey struct {
	VoterID  string
	Position Position
}

// Key returns the (voter, position) slot of b.
func (b Ballot) Key() BallotKey {
	return BallotKey{VoterID: b.VoterID, Position: b.Position}
}
