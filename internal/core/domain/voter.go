package domain

import (
	"strings"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleVoter = "voter"
)

// Voter is a registered identity allowed to cast ballots.
type Voter struct {
	VoterID        string    `json:"voter_id"`
	Username       string    `json:"username"`
	CredentialHash string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// CanonicalUsername is applied to every username before it is stored or looked up.
func CanonicalUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// CanonicalVoterID strips surrounding whitespace from a voter identifier.
func CanonicalVoterID(voterID string) string {
	return strings.TrimSpace(voterID)
}
