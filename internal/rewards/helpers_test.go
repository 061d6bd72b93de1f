package rewards

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/danielSanchezQ/catalyst-toolbox/internal/model"
)

// testSlots matches the worked example: excellent=3, good=2, target=10.
func testSlots() ProposalRewardSlots {
	return ProposalRewardSlots{ExcellentSlots: 3, GoodSlots: 2, FilledSlots: 10}
}

func assertFunds(t *testing.T, want string, got Funds) {
	t.Helper()
	w := decimal.RequireFromString(want)
	assert.Truef(t, w.Equal(got), "want %s, got %s", w, got)
}

func excellent(proposal, ca string) model.AdvisorReviewRow {
	return model.AdvisorReviewRow{ProposalID: proposal, Assessor: ca, Score: model.ScoreExcellent}
}

func good(proposal, ca string) model.AdvisorReviewRow {
	return model.AdvisorReviewRow{ProposalID: proposal, Assessor: ca, Score: model.ScoreGood}
}

// exactReviews fills testSlots exactly: 2 excellent by a, 2 good by b.
func exactReviews(proposal, a, b string) []model.AdvisorReviewRow {
	return []model.AdvisorReviewRow{
		excellent(proposal, a),
		excellent(proposal, a),
		good(proposal, b),
		good(proposal, b),
	}
}
