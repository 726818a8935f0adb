package render

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/trebuchet-org/govindex/internal/domain/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	labelStyle         = color.New(color.Faint)
	sectionHeaderStyle = color.New(color.Bold, color.FgHiWhite)
	idStyle            = color.New(color.FgBlue)
	addressStyle       = color.New(color.FgWhite)
	forStyle           = color.New(color.FgGreen)
	againstStyle       = color.New(color.FgRed)
	abstainStyle       = color.New(color.FgYellow)

	titleCaser = cases.Title(language.English)
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	// Keep only the last part of an error chain
	parts := strings.Split(message, ": ")
	msg := parts[len(parts)-1]

	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}

	return color.New(color.FgRed).Sprintf("❌ %s", msg)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// stateStyle colors a proposal state
func stateStyle(state models.ProposalState) *color.Color {
	switch state {
	case models.ProposalStatePending:
		return color.New(color.FgYellow)
	case models.ProposalStateActive:
		return color.New(color.FgCyan, color.Bold)
	case models.ProposalStateQueued:
		return color.New(color.FgMagenta)
	case models.ProposalStateExecuted:
		return color.New(color.FgGreen)
	case models.ProposalStateCanceled:
		return color.New(color.FgRed)
	default:
		return color.New(color.Faint)
	}
}

func formatState(state models.ProposalState) string {
	if state == "" {
		return labelStyle.Sprint("unknown")
	}
	return stateStyle(state).Sprint(string(state))
}

// supportLabel names a vote support code
func supportLabel(support uint8) string {
	switch support {
	case models.SupportAgainst:
		return againstStyle.Sprint(titleCaser.String("against"))
	case models.SupportFor:
		return forStyle.Sprint(titleCaser.String("for"))
	case models.SupportAbstain:
		return abstainStyle.Sprint(titleCaser.String("abstain"))
	default:
		return labelStyle.Sprintf("unknown (%d)", support)
	}
}

// formatAmount prints a possibly missing integer
func formatAmount(n *big.Int) string {
	if n == nil {
		return "0"
	}
	return n.String()
}

// formatProposalID prints a proposal id as its decimal number, shortened
// when long.
func formatProposalID(p *models.Proposal) string {
	s := p.Number().String()
	if len(s) > 14 {
		s = s[:6] + "…" + s[len(s)-6:]
	}
	return idStyle.Sprint(s)
}

// formatAddress prints an address, or a dash for the zero address
func formatAddress(addr common.Address) string {
	if addr == (common.Address{}) {
		return labelStyle.Sprint("-")
	}
	return addressStyle.Sprint(addr.Hex())
}

// formatUnix prints a unix timestamp in UTC, or a dash when unset
func formatUnix(ts uint64) string {
	if ts == 0 {
		return labelStyle.Sprint("-")
	}
	return time.Unix(int64(ts), 0).UTC().Format("2006-01-02 15:04:05 UTC")
}

// truncate shortens s to max runes
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// writeField prints an aligned "label: value" line
func writeField(sb *strings.Builder, label string, value any) {
	fmt.Fprintf(sb, "  %s %v\n", labelStyle.Sprintf("%-22s", label+":"), value)
}

// newTable creates a borderless table in the list style
func newTable(header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateHeader = true
	t.Style().Options.SeparateColumns = false
	t.Style().Box.PaddingRight = "  "
	t.Style().Format.Header = text.FormatDefault
	t.AppendHeader(header)
	return t
}
