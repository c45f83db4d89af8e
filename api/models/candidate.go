package models

import (
	"github.com/alex-pricope/campaign-voting/allocation"
	"github.com/alex-pricope/campaign-voting/storage"
)

type CandidateCreateRequest struct {
	ID             string `json:"candidateId"`
	Name           string `json:"name" binding:"required"`
	Nationality    string `json:"nationality"`
	ProfilePicture string `json:"profilePicture"`
}

type CandidateUpdateRequest struct {
	Name           string `json:"name" binding:"required"`
	Nationality    string `json:"nationality"`
	ProfilePicture string `json:"profilePicture"`
}

// CandidateResponse has the same shape the allocation controls read.
type CandidateResponse = allocation.Candidate

func TransformCandidateFromStorage(c *storage.Candidate) CandidateResponse {
	return CandidateResponse{
		CandidateID: c.ID,
		Candidate: allocation.Profile{
			Name:           c.Name,
			Nationality:    c.Nationality,
			ProfilePicture: c.ProfilePicture,
		},
	}
}
