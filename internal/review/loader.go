// Package review turns review and approval exports into the inputs of the
// rewards engine.
package review

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/danielSanchezQ/catalyst-toolbox/internal/fetcher"
	"github.com/danielSanchezQ/catalyst-toolbox/internal/model"
)

// ErrInvalidScore is returned for a row that marks both or neither of the
// excellent and good columns.
var ErrInvalidScore = eris.New("review: row must mark exactly one of excellent or good")

// Column aliases accepted in review exports.
var (
	proposalIDColumns  = []string{"proposal_id", "proposal id", "idea id"}
	assessorColumns    = []string{"assessor", "ca", "community advisor"}
	excellentColumns   = []string{"excellent"}
	goodColumns        = []string{"good"}
	filteredOutColumns = []string{"filtered_out", "filtered out"}
	scoreColumns       = []string{"score", "rating"}
)

// ParseTable converts a review table into rows. Scores come from either an
// excellent/good marker pair or a single score column. Filtered-out and blank
// rows are skipped.
func ParseTable(tbl *fetcher.Table) ([]model.AdvisorReviewRow, error) {
	pid := tbl.Column(proposalIDColumns...)
	ca := tbl.Column(assessorColumns...)
	if pid < 0 || ca < 0 {
		return nil, eris.Errorf("review: %s: proposal id and assessor columns are required", tbl.Name)
	}
	exc := tbl.Column(excellentColumns...)
	gd := tbl.Column(goodColumns...)
	sc := tbl.Column(scoreColumns...)
	if (exc < 0 || gd < 0) && sc < 0 {
		return nil, eris.Errorf("review: %s: need excellent and good columns or a score column", tbl.Name)
	}
	filtered := tbl.Column(filteredOutColumns...)

	rows := make([]model.AdvisorReviewRow, 0, len(tbl.Rows))
	for i, raw := range tbl.Rows {
		line := i + 2 // 1-based, after the header
		if fetcher.IsBlank(raw) || truthy(fetcher.Cell(raw, filtered)) {
			continue
		}

		var score model.ReviewScore
		if exc >= 0 && gd >= 0 {
			isExc, isGood := truthy(fetcher.Cell(raw, exc)), truthy(fetcher.Cell(raw, gd))
			switch {
			case isExc && !isGood:
				score = model.ScoreExcellent
			case isGood && !isExc:
				score = model.ScoreGood
			default:
				return nil, eris.Wrapf(ErrInvalidScore, "%s row %d", tbl.Name, line)
			}
		} else {
			s, err := model.ParseReviewScore(fetcher.Cell(raw, sc))
			if err != nil {
				return nil, eris.Wrapf(ErrInvalidScore, "%s row %d: %v", tbl.Name, line, err)
			}
			score = s
		}

		row := model.AdvisorReviewRow{
			ProposalID: CleanID(fetcher.Cell(raw, pid)),
			Assessor:   CleanID(fetcher.Cell(raw, ca)),
			Score:      score,
		}
		if row.ProposalID == "" || row.Assessor == "" {
			return nil, eris.Errorf("review: %s row %d: missing proposal id or assessor", tbl.Name, line)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Group collects rows by proposal, keeping their order.
func Group(rows []model.AdvisorReviewRow) model.ProposalsReviews {
	out := make(model.ProposalsReviews)
	for _, r := range rows {
		out.Add(r)
	}
	return out
}

// LoadReviews reads reviews from an XLSX workbook (every sheet in sheets) or
// a CSV file read with opts, depending on the extension of path.
func LoadReviews(ctx context.Context, path string, sheets []string, opts fetcher.CSVOptions) (model.ProposalsReviews, error) {
	log := zap.L().With(zap.String("path", path))

	var tables []*fetcher.Table
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		wb, err := fetcher.ReadWorkbook(path, sheets)
		if err != nil {
			return nil, eris.Wrap(err, "review: read workbook")
		}
		for _, name := range sheets {
			tables = append(tables, wb[name])
		}
	case ".csv":
		tbl, err := fetcher.ReadCSVFile(ctx, path, opts)
		if err != nil {
			return nil, eris.Wrap(err, "review: read csv")
		}
		tables = append(tables, tbl)
	default:
		return nil, eris.Errorf("review: unsupported reviews file %q (want .xlsx or .csv)", path)
	}

	out := make(model.ProposalsReviews)
	for _, tbl := range tables {
		rows, err := ParseTable(tbl)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			out.Add(r)
		}
		log.Debug("parsed review table", zap.String("table", tbl.Name), zap.Int("rows", len(rows)))
	}

	log.Info("loaded reviews",
		zap.Int("proposals", len(out)),
		zap.Int("reviews", out.Count()),
	)
	return out, nil
}

// LoadApproved reads the approved proposal ids from column of a CSV file.
func LoadApproved(ctx context.Context, path, column string, opts fetcher.CSVOptions) (model.ApprovedProposals, error) {
	tbl, err := fetcher.ReadCSVFile(ctx, path, opts)
	if err != nil {
		return nil, eris.Wrap(err, "review: read approved proposals")
	}
	col := tbl.Column(column)
	if col < 0 {
		return nil, eris.Errorf("review: %s has no %q column", path, column)
	}

	approved := make(model.ApprovedProposals, len(tbl.Rows))
	for _, raw := range tbl.Rows {
		if id := CleanID(fetcher.Cell(raw, col)); id != "" {
			approved[id] = struct{}{}
		}
	}

	zap.L().Info("loaded approved proposals", zap.String("path", path), zap.Int("approved", len(approved)))
	return approved, nil
}

// CleanID trims an identifier and puts it in Unicode NFC form, so the same
// advisor typed on different systems aggregates under one key.
func CleanID(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x", "true", "yes", "y", "1":
		return true
	default:
		return false
	}
}
