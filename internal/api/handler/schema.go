package handler

import "time"

// --- Requests ---

type registerRequest struct {
	VoterID  string `json:"voterID"  validate:"required,max=64"`
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=72"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type castVoteRequest struct {
	VoterID   string `json:"voterID"   validate:"required,max=64"`
	Candidate string `json:"candidate" validate:"required,max=128"`
	Position  string `json:"position"  validate:"required,oneof=MLA MP"`
}

// --- Responses ---

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	VoterID string `json:"voterID"`
	Token   string `json:"token"`
}

type ballotResponse struct {
	ID        string    `json:"_id"`
	VoterID   string    `json:"voterID"`
	Candidate string    `json:"candidate"`
	Position  string    `json:"position"`
	Timestamp time.Time `json:"timestamp"`
}

type checkVoteResponse struct {
	Success bool             `json:"success"`
	Votes   []ballotResponse `json:"votes"`
}

type resultKey struct {
	Candidate string `json:"candidate"`
	Position  string `json:"position"`
}

type resultResponse struct {
	ID         resultKey `json:"_id"`
	TotalVotes int64     `json:"totalVotes"`
}

type resultsResponse struct {
	Success bool             `json:"success"`
	Results []resultResponse `json:"results"`
}

type clearVotesResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	DeletedCount int64  `json:"deletedCount"`
}
