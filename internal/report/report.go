// Package report writes computed advisor rewards for people and for payment tooling.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/rotisserie/eris"

	"github.com/danielSanchezQ/catalyst-toolbox/internal/model"
	"github.com/danielSanchezQ/catalyst-toolbox/internal/rewards"
)

// Decimals is the number of places rewards are rendered with (lovelace precision).
const Decimals int32 = 6

// csvColumns is the header of the rewards CSV.
var csvColumns = []string{"id", "rewards"}

// Row is one advisor's line in a report.
type Row struct {
	Advisor model.CommunityAdvisor
	Rewards rewards.Rewards
}

// Rows returns the rewards sorted by advisor.
func Rows(r rewards.CaRewards) []Row {
	out := make([]Row, 0, len(r))
	for ca, amount := range r {
		out = append(out, Row{Advisor: ca, Rewards: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Advisor < out[j].Advisor })
	return out
}

// WriteCSV writes an id,rewards CSV sorted by advisor.
func WriteCSV(w io.Writer, r rewards.CaRewards) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvColumns); err != nil {
		return eris.Wrap(err, "report: write CSV header")
	}
	for _, row := range Rows(r) {
		if err := cw.Write([]string{row.Advisor, row.Rewards.StringFixed(Decimals)}); err != nil {
			return eris.Wrap(err, "report: write CSV row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "report: flush CSV")
}

// WriteTable writes a right-aligned table for a terminal, with a total line.
func WriteTable(w io.Writer, r rewards.CaRewards) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	_, _ = fmt.Fprintln(tw, "ADVISOR\tREWARDS\t")
	_, _ = fmt.Fprintln(tw, "-------\t-------\t")

	for _, row := range Rows(r) {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t\n", row.Advisor, row.Rewards.StringFixed(Decimals))
	}
	_, _ = fmt.Fprintf(tw, "TOTAL\t%s\t\n", r.Total().StringFixed(Decimals))

	return eris.Wrap(tw.Flush(), "report: write table")
}

// Write renders r in the named format: "csv" or "table".
func Write(w io.Writer, format string, r rewards.CaRewards) error {
	switch format {
	case "csv":
		return WriteCSV(w, r)
	case "table":
		return WriteTable(w, r)
	default:
		return eris.Errorf("report: unsupported format %q", format)
	}
}
