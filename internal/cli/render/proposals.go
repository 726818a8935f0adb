package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/trebuchet-org/govindex/internal/domain/models"
	"github.com/trebuchet-org/govindex/internal/usecase"
)

// ProposalsRenderer renders proposals and their votes
type ProposalsRenderer struct {
	out io.Writer
}

// NewProposalsRenderer creates a new proposals renderer
func NewProposalsRenderer(out io.Writer) *ProposalsRenderer {
	return &ProposalsRenderer{out: out}
}

// RenderList renders a proposal table followed by a per-state summary
func (r *ProposalsRenderer) RenderList(result *usecase.ProposalListResult) error {
	if len(result.Proposals) == 0 {
		fmt.Fprintln(r.out, "No proposals found")
		return nil
	}

	t := newTable(table.Row{"ID", "Title", "State", "For", "Against", "Abstain", "Block"})
	for _, p := range result.Proposals {
		title := p.Title
		if p.IsShell() {
			title = labelStyle.Sprint("(not created)")
		}
		t.AppendRow(table.Row{
			formatProposalID(p),
			truncate(title, 48),
			formatState(p.State),
			forStyle.Sprint(formatAmount(p.ForVotes)),
			againstStyle.Sprint(formatAmount(p.AgainstVotes)),
			abstainStyle.Sprint(formatAmount(p.AbstainVotes)),
			p.CreatedAtBlock,
		})
	}
	fmt.Fprintln(r.out, t.Render())
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, summaryLine(result.Summary))
	return nil
}

// summaryLine prints "Total: 4 (Active: 1, Executed: 3)"
func summaryLine(s usecase.ProposalSummary) string {
	states := lo.Keys(s.ByState)
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })
	parts := lo.Map(states, func(state models.ProposalState, _ int) string {
		name := string(state)
		if name == "" {
			name = "unknown"
		}
		return fmt.Sprintf("%s: %d", name, s.ByState[state])
	})
	return fmt.Sprintf("Total: %d (%s)", s.Total, strings.Join(parts, ", "))
}

// RenderDetail renders a single proposal with its actions and votes
func (r *ProposalsRenderer) RenderDetail(detail *usecase.ProposalDetail) error {
	p := detail.Proposal
	var sb strings.Builder

	sb.WriteString(sectionHeaderStyle.Sprintf("Proposal %s\n", p.Number()))
	writeField(&sb, "ID", p.ID.Hex())
	if p.IsShell() {
		writeField(&sb, "Title", labelStyle.Sprint("(creation event not indexed)"))
	} else {
		writeField(&sb, "Title", p.Title)
	}
	writeField(&sb, "State", formatState(p.State))
	writeField(&sb, "Proposer", formatAddress(p.Proposer))
	writeField(&sb, "Proposer role", p.IsProposerRole)
	if p.ClockMode != "" {
		writeField(&sb, "Clock", titleCaser.String(string(p.ClockMode)))
	}
	writeField(&sb, "Vote start", formatAmount(p.VoteStart))
	writeField(&sb, "Vote end", formatAmount(p.VoteEnd))
	if p.OriginalVoteEnd != nil && p.VoteEnd != nil && p.OriginalVoteEnd.Cmp(p.VoteEnd) != 0 {
		writeField(&sb, "Original vote end", formatAmount(p.OriginalVoteEnd))
	}
	if p.CreatedAtBlock > 0 {
		writeField(&sb, "Created", fmt.Sprintf("block %d, %s", p.CreatedAtBlock, formatUnix(p.CreatedAtTimestamp)))
	}
	if p.ETA != nil {
		writeField(&sb, "ETA", p.ETA)
	}
	if p.QueuedAtBlock > 0 {
		writeField(&sb, "Queued", fmt.Sprintf("block %d, %s", p.QueuedAtBlock, formatUnix(p.QueuedAtTimestamp)))
	}
	if p.ExecutedAtBlock > 0 {
		writeField(&sb, "Executed", fmt.Sprintf("block %d, %s", p.ExecutedAtBlock, formatUnix(p.ExecutedAtTimestamp)))
	}
	if p.Canceler != nil {
		writeField(&sb, "Canceled by", fmt.Sprintf("%s (role: %t)", formatAddress(*p.Canceler), p.IsCancelerRole))
		writeField(&sb, "Canceled", fmt.Sprintf("block %d, %s", p.CanceledAtBlock, formatUnix(p.CanceledAtTimestamp)))
	}

	sb.WriteString("\n")
	sb.WriteString(sectionHeaderStyle.Sprint("Tally\n"))
	writeField(&sb, "For", forStyle.Sprint(formatAmount(p.ForVotes)))
	writeField(&sb, "Against", againstStyle.Sprint(formatAmount(p.AgainstVotes)))
	writeField(&sb, "Abstain", abstainStyle.Sprint(formatAmount(p.AbstainVotes)))
	writeField(&sb, "Total", p.TotalVotes())

	if len(p.Targets) > 0 {
		sb.WriteString("\n")
		sb.WriteString(sectionHeaderStyle.Sprint("Actions\n"))
		if !p.HasConsistentActions() {
			sb.WriteString("  " + FormatWarning("action arrays differ in length") + "\n")
		}
		t := newTable(table.Row{"#", "Target", "Value", "Signature", "Calldata"})
		for i, target := range p.Targets {
			row := table.Row{i, formatAddress(target), "", "", ""}
			if i < len(p.Values) {
				row[2] = formatAmount(p.Values[i])
			}
			if i < len(p.Signatures) {
				row[3] = p.Signatures[i]
			}
			if i < len(p.Calldatas) {
				row[4] = truncate(p.Calldatas[i].String(), 42)
			}
			t.AppendRow(row)
		}
		sb.WriteString(t.Render())
		sb.WriteString("\n")
	}

	fmt.Fprint(r.out, sb.String())

	if len(detail.Votes) > 0 {
		fmt.Fprintln(r.out)
		return r.RenderVotes(detail.Votes)
	}
	return nil
}

// RenderVotes renders a vote table
func (r *ProposalsRenderer) RenderVotes(votes []*models.ProposalVote) error {
	if len(votes) == 0 {
		fmt.Fprintln(r.out, "No votes found")
		return nil
	}

	fmt.Fprint(r.out, sectionHeaderStyle.Sprintf("Votes (%d)\n", len(votes)))
	t := newTable(table.Row{"Voter", "Support", "Weight", "Block", "Reason"})
	for _, v := range votes {
		t.AppendRow(table.Row{
			formatAddress(v.Voter),
			supportLabel(v.Support),
			formatAmount(v.Weight),
			v.BlockNumber,
			truncate(v.Reason, 40),
		})
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}
