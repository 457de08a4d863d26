package handler

import "github.com/JathurSrishanth/e-voting-backend/internal/core/domain"

func toBallotResponses(ballots []domain.Ballot) []ballotResponse {
	out := make([]ballotResponse, 0, len(ballots))
	for _, b := range ballots {
		out = append(out, ballotResponse{
			ID:        b.ID,
			VoterID:   b.VoterID,
			Candidate: b.Candidate,
			Position:  string(b.Position),
			Timestamp: b.CastAt,
		})
	}
	return out
}

func toResultResponses(entries []domain.TallyEntry) []resultResponse {
	out := make([]resultResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, resultResponse{
			ID:         resultKey{Candidate: e.Candidate, Position: string(e.Position)},
			TotalVotes: e.TotalVotes,
		})
	}
	return out
}
