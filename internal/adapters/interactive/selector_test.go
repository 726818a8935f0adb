package interactive

import (
	"context"
	"math/big"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/govindex/internal/config"
	"github.com/trebuchet-org/govindex/internal/domain"
	"github.com/trebuchet-org/govindex/internal/domain/models"
)

func proposal(n int64, title string) *models.Proposal {
	p := models.NewProposal(domain.EncodeID(big.NewInt(n)))
	p.Title = title
	p.State = models.ProposalStateActive
	return p
}

func TestSelectorAdapter_NonInteractive(t *testing.T) {
	s := NewSelectorAdapter(&config.RuntimeConfig{NonInteractive: true})

	_, err := s.SelectProposal(context.Background(), []*models.Proposal{proposal(1, "a"), proposal(2, "b")}, "pick")
	assert.ErrorIs(t, err, ErrNonInteractive)

	_, err = s.Confirm(context.Background(), "sure?")
	assert.ErrorIs(t, err, ErrNonInteractive)
}

func TestSelectorAdapter_SingleChoice(t *testing.T) {
	s := NewSelectorAdapter(&config.RuntimeConfig{})
	only := proposal(7, "Only one")

	got, err := s.SelectProposal(context.Background(), []*models.Proposal{only}, "pick")
	require.NoError(t, err)
	assert.Same(t, only, got)

	_, err = s.SelectProposal(context.Background(), nil, "pick")
	assert.Error(t, err)
}

func TestFormatProposalOptions(t *testing.T) {
	color.NoColor = true
	options := formatProposalOptions([]*models.Proposal{proposal(12, "Fund grants program")})
	assert.Equal(t, []string{"Fund grants program [Active] #12"}, options)
}

func TestFuzzySearch(t *testing.T) {
	items := []string{"Fund grants program [Active] #1", "Upgrade executor [Queued] #2"}
	search := createFuzzySearchFunc(items)

	assert.True(t, search("", 1))
	assert.True(t, search("GRANTS", 0))
	assert.False(t, search("grants", 1))
	assert.True(t, search("upgexec", 1))
}
