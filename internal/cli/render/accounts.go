package render

import (
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/trebuchet-org/govindex/internal/domain"
	"github.com/trebuchet-org/govindex/internal/domain/models"
	"github.com/trebuchet-org/govindex/internal/usecase"
)

// Expiries past year 9999 are printed as raw numbers
const maxDisplayTime = 253402300799

// DelegateRenderer renders an account's delegate and member records
type DelegateRenderer struct {
	out io.Writer
}

// NewDelegateRenderer creates a new delegate renderer
func NewDelegateRenderer(out io.Writer) *DelegateRenderer {
	return &DelegateRenderer{out: out}
}

// Render implements Renderer
func (r *DelegateRenderer) Render(detail *usecase.DelegateDetail) error {
	var sb strings.Builder

	sb.WriteString(sectionHeaderStyle.Sprintf("Account %s\n", detail.Address.Hex()))

	sb.WriteString("\n")
	sb.WriteString(sectionHeaderStyle.Sprint("Delegate\n"))
	writeField(&sb, "Delegated votes", formatAmount(detail.Delegate.DelegatedVotesBalance))
	writeField(&sb, "Proposer role", roleStatus(detail.ProposerActive, detail.Delegate.RoleExpiresAt(domain.RoleProposer)))
	writeField(&sb, "Canceler role", roleStatus(detail.CancelerActive, detail.Delegate.RoleExpiresAt(domain.RoleCanceler)))
	writeField(&sb, "Evaluated at", detail.At.UTC().Format("2006-01-02 15:04:05 UTC"))

	sb.WriteString("\n")
	sb.WriteString(sectionHeaderStyle.Sprint("Member\n"))
	if detail.Member == nil {
		sb.WriteString("  " + labelStyle.Sprint("not a token holder") + "\n")
	} else {
		writeField(&sb, "Token balance", formatAmount(detail.Member.TokenBalance))
		writeField(&sb, "Delegates to", delegateTarget(detail.Member))
	}

	fmt.Fprint(r.out, sb.String())
	return nil
}

func roleStatus(active bool, expiresAt *big.Int) string {
	until := expiresAt.String()
	if expiresAt.IsUint64() && expiresAt.Uint64() <= maxDisplayTime {
		until = formatUnix(expiresAt.Uint64())
	}
	switch {
	case expiresAt.Sign() == 0:
		return labelStyle.Sprint("never granted")
	case active:
		return forStyle.Sprintf("active until %s", until)
	default:
		return againstStyle.Sprintf("expired at %s", until)
	}
}

func delegateTarget(m *models.Member) string {
	if m.Delegate == nil {
		return labelStyle.Sprint("nobody")
	}
	if *m.Delegate == m.ID {
		return addressStyle.Sprint("self")
	}
	return formatAddress(*m.Delegate)
}
