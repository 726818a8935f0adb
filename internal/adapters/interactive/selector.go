package interactive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/govindex/internal/config"
	"github.com/trebuchet-org/govindex/internal/domain/models"
	"github.com/trebuchet-org/govindex/internal/usecase"
)

// ErrNonInteractive is returned when a prompt is needed in non-interactive mode
var ErrNonInteractive = errors.New("interactive prompt not available in non-interactive mode")

// SelectorAdapter handles interactive selection
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectProposal selects a proposal from a list
func (s *SelectorAdapter) SelectProposal(ctx context.Context, proposals []*models.Proposal, prompt string) (*models.Proposal, error) {
	if s.config.NonInteractive {
		return nil, ErrNonInteractive
	}

	if len(proposals) == 0 {
		return nil, fmt.Errorf("no proposals provided for selection")
	}

	// If only one match, return it directly
	if len(proposals) == 1 {
		return proposals[0], nil
	}

	options := formatProposalOptions(proposals)

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             prompt,
		Items:             options,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(options),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}

	return proposals[index], nil
}

// Confirm asks a yes/no question. It returns false when the user declines.
func (s *SelectorAdapter) Confirm(ctx context.Context, prompt string) (bool, error) {
	if s.config.NonInteractive {
		return false, ErrNonInteractive
	}

	confirm := promptui.Prompt{
		Label:     prompt,
		IsConfirm: true,
	}
	if _, err := confirm.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// formatProposalOptions creates display strings like "Title [Active] #12"
func formatProposalOptions(proposals []*models.Proposal) []string {
	options := make([]string, len(proposals))
	for i, p := range proposals {
		title := color.New(color.FgWhite, color.Bold).Sprint(p.Title)
		state := color.New(color.FgYellow).Sprintf("[%s]", p.State)
		id := color.New(color.FgBlue).Sprintf("#%s", p.Number())
		options[i] = fmt.Sprintf("%s %s %s", title, state, id)
	}
	return options
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		// Empty search shows all items
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		// First try simple substring match
		if strings.Contains(item, input) {
			return true
		}

		// Then try fuzzy match
		pattern := fuzzy.Find(input, []string{item})
		return len(pattern) > 0
	}
}

// Ensure the adapter implements the interfaces
var (
	_ usecase.ProposalSelector = (*SelectorAdapter)(nil)
	_ usecase.Confirmer        = (*SelectorAdapter)(nil)
)
