package render

import (
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/govindex/internal/domain/models"
	"github.com/trebuchet-org/govindex/internal/usecase"
)

// GovernanceRenderer renders protocol-wide state
type GovernanceRenderer struct {
	out io.Writer
}

// NewGovernanceRenderer creates a new governance renderer
func NewGovernanceRenderer(out io.Writer) *GovernanceRenderer {
	return &GovernanceRenderer{out: out}
}

// Render implements Renderer
func (r *GovernanceRenderer) Render(overview *usecase.GovernanceOverview) error {
	g := overview.Data
	var sb strings.Builder

	sb.WriteString(sectionHeaderStyle.Sprint("Governance\n"))
	writeField(&sb, "Proposals", formatAmount(g.ProposalCount))
	writeField(&sb, "Total supply", formatAmount(g.TotalSupply))
	writeField(&sb, "Max supply", formatAmount(g.MaxSupply))
	writeField(&sb, "Founded", g.IsFounded)

	sb.WriteString("\n")
	sb.WriteString(sectionHeaderStyle.Sprint("Governor\n"))
	if g.Executor != nil {
		writeField(&sb, "Executor", formatAddress(*g.Executor))
	}
	if g.Token != nil {
		writeField(&sb, "Token", formatAddress(*g.Token))
	}
	writeField(&sb, "Can begin at", formatAmount(g.GovernanceCanBeginAt))
	writeField(&sb, "Governance threshold", bps(g.GovernanceThresholdBps))
	writeField(&sb, "Proposal threshold", bps(g.ProposalThresholdBps))
	writeField(&sb, "Quorum", bps(g.QuorumBps))
	writeField(&sb, "Majority", formatAmount(g.PercentMajority)+"%")
	writeField(&sb, "Voting delay", formatAmount(g.VotingDelay))
	writeField(&sb, "Voting period", formatAmount(g.VotingPeriod))
	writeField(&sb, "Grace period", formatAmount(g.ProposalGracePeriod))
	writeField(&sb, "Max extension", formatAmount(g.MaxDeadlineExtension))
	writeField(&sb, "Base extension", formatAmount(g.BaseDeadlineExtension))
	writeField(&sb, "Extension decay", fmt.Sprintf("%s%% every %s", formatAmount(g.ExtensionPercentDecay), formatAmount(g.ExtensionDecayPeriod)))

	sb.WriteString("\n")
	sb.WriteString(sectionHeaderStyle.Sprint("Executor\n"))
	writeField(&sb, "Min delay", formatAmount(g.ExecutorMinDelay))
	writeField(&sb, "Shares manager", formatAddress(g.BalanceSharesManager))
	writeField(&sb, "Shares onboarder", formatAddress(g.SharesOnboarder))
	writeField(&sb, "Distributor", formatAddress(g.Distributor))
	writeField(&sb, "Guard", formatAddress(g.Guard))

	sb.WriteString("\n")
	sb.WriteString(sectionHeaderStyle.Sprint("Index\n"))
	if c := overview.Checkpoint; c != nil {
		writeField(&sb, "Checkpoint", fmt.Sprintf("block %d, log %d", c.BlockNumber, c.LogIndex))
		writeField(&sb, "Events processed", c.EventsProcessed)
		writeField(&sb, "Updated", c.UpdatedAt.Format("2006-01-02 15:04:05 UTC"))
	} else {
		sb.WriteString("  " + labelStyle.Sprint("nothing indexed yet") + "\n")
	}
	fmt.Fprint(r.out, sb.String())

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, entityCountTable(overview.Counts))
	return nil
}

func bps(n *big.Int) string {
	return formatAmount(n) + " bps"
}

// entityCountTable lists entity counts in store order
func entityCountTable(counts map[models.EntityKind]int) string {
	t := newTable(table.Row{"Entity", "Count"})
	for _, kind := range models.AllEntityKinds {
		t.AppendRow(table.Row{string(kind), counts[kind]})
	}
	return t.Render()
}
