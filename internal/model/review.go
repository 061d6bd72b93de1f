package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// CommunityAdvisor identifies a reviewer across proposals.
type CommunityAdvisor = string

// ProposalID identifies a proposal within a funding round.
type ProposalID = string

// ReviewScore is the quality tier a reviewer assigned to a proposal.
type ReviewScore int

const (
	ScoreGood ReviewScore = iota + 1
	ScoreExcellent
)

// String returns the tier name as it appears in review workbooks.
func (s ReviewScore) String() string {
	switch s {
	case ScoreExcellent:
		return "Excellent"
	case ScoreGood:
		return "Good"
	default:
		return "Unknown"
	}
}

// ParseReviewScore accepts a tier name in any letter case.
func ParseReviewScore(s string) (ReviewScore, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "excellent":
		return ScoreExcellent, nil
	case "good":
		return ScoreGood, nil
	default:
		return 0, eris.Errorf("model: unknown review score %q", s)
	}
}

// AdvisorReviewRow is a single review submitted by an advisor for a proposal.
type AdvisorReviewRow struct {
	ProposalID ProposalID       `json:"proposal_id"`
	Assessor   CommunityAdvisor `json:"assessor"`
	Score      ReviewScore      `json:"score"`
}

// ProposalsReviews groups reviews by the proposal they were written for.
// Row order within a proposal is the order they were read in.
type ProposalsReviews map[ProposalID][]AdvisorReviewRow

// Add appends a review to its proposal's list.
func (p ProposalsReviews) Add(row AdvisorReviewRow) {
	p[row.ProposalID] = append(p[row.ProposalID], row)
}

// Count returns the total number of reviews across all proposals.
func (p ProposalsReviews) Count() int {
	n := 0
	for _, rows := range p {
		n += len(rows)
	}
	return n
}

// ApprovedProposals is the set of proposals eligible for the approval bonus.
type ApprovedProposals map[ProposalID]struct{}

// NewApprovedProposals builds a set from the given ids.
func NewApprovedProposals(ids ...ProposalID) ApprovedProposals {
	set := make(ApprovedProposals, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Contains reports whether id is in the set.
func (a ApprovedProposals) Contains(id ProposalID) bool {
	_, ok := a[id]
	return ok
}
