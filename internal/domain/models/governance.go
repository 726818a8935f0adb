package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govindex/internal/domain"
)

// GovernanceDataID is the fixed key of the governance singleton
var GovernanceDataID = []byte("GOVERNANCE_DATA")

// DefaultPercentMajority is the majority percentage before any update event
const DefaultPercentMajority = 50

// GovernanceData holds protocol-wide counters and mirrored configuration
type GovernanceData struct {
	ProposalCount *big.Int `json:"proposalCount"`
	TotalSupply   *big.Int `json:"totalSupply"`
	MaxSupply     *big.Int `json:"maxSupply"`

	// Governor
	Executor               *common.Address `json:"executor,omitempty"`
	Token                  *common.Address `json:"token,omitempty"`
	ProposalThresholdBps   *big.Int        `json:"proposalThresholdBps"`
	QuorumBps              *big.Int        `json:"quorumBps"`
	ProposalGracePeriod    *big.Int        `json:"proposalGracePeriod"`
	GovernanceCanBeginAt   *big.Int        `json:"governanceCanBeginAt"`
	GovernanceThresholdBps *big.Int        `json:"governanceThresholdBps"`
	IsFounded              bool            `json:"isFounded"`
	VotingDelay            *big.Int        `json:"votingDelay"`
	VotingPeriod           *big.Int        `json:"votingPeriod"`
	PercentMajority        *big.Int        `json:"percentMajority"`
	MaxDeadlineExtension   *big.Int        `json:"maxDeadlineExtension"`
	BaseDeadlineExtension  *big.Int        `json:"baseDeadlineExtension"`
	ExtensionDecayPeriod   *big.Int        `json:"extensionDecayPeriod"`
	ExtensionPercentDecay  *big.Int        `json:"extensionPercentDecay"`

	// Executor
	BalanceSharesManager common.Address `json:"balanceSharesManager"`
	SharesOnboarder      common.Address `json:"sharesOnboarder"`
	Distributor          common.Address `json:"distributor"`
	Guard                common.Address `json:"guard"`
	ExecutorMinDelay     *big.Int       `json:"executorMinDelay"`
}

// NewGovernanceData returns the singleton with its documented defaults.
func NewGovernanceData() *GovernanceData {
	return &GovernanceData{
		ProposalCount:          new(big.Int),
		TotalSupply:            new(big.Int),
		MaxSupply:              new(big.Int),
		ProposalThresholdBps:   new(big.Int),
		QuorumBps:              new(big.Int),
		ProposalGracePeriod:    new(big.Int),
		GovernanceCanBeginAt:   new(big.Int),
		GovernanceThresholdBps: new(big.Int),
		VotingDelay:            new(big.Int),
		VotingPeriod:           new(big.Int),
		PercentMajority:        big.NewInt(DefaultPercentMajority),
		MaxDeadlineExtension:   new(big.Int),
		BaseDeadlineExtension:  new(big.Int),
		ExtensionDecayPeriod:   new(big.Int),
		ExtensionPercentDecay:  new(big.Int),
		ExecutorMinDelay:       new(big.Int),
	}
}

func (g *GovernanceData) EntityKind() EntityKind { return EntityKindGovernanceData }
func (g *GovernanceData) EntityID() []byte       { return GovernanceDataID }

// IncrementProposalCount counts a newly created proposal.
func (g *GovernanceData) IncrementProposalCount() {
	g.ProposalCount = add(g.ProposalCount, big.NewInt(1))
}

// Mint adds newly created tokens to the total supply.
func (g *GovernanceData) Mint(amount *big.Int) {
	g.TotalSupply = add(g.TotalSupply, amount)
}

// Burn removes destroyed tokens from the total supply. A burn beyond the
// indexed supply clamps it to zero and reports false.
func (g *GovernanceData) Burn(amount *big.Int) bool {
	g.TotalSupply = sub(g.TotalSupply, amount)
	if g.TotalSupply.Sign() < 0 {
		g.TotalSupply = new(big.Int)
		return false
	}
	return true
}

// ApplyInitialized records the governor's initialization parameters.
func (g *GovernanceData) ApplyInitialized(e domain.GovernorBaseInitialized) {
	executor, token := e.Executor, e.Token
	g.Executor = &executor
	g.Token = &token
	g.GovernanceCanBeginAt = copyInt(e.GovernanceCanBeginAt)
	g.GovernanceThresholdBps = copyInt(e.GovernanceThresholdBps)
	g.IsFounded = e.IsFounded
}

func (g *GovernanceData) param(p domain.Parameter) **big.Int {
	switch p {
	case domain.ParamProposalThresholdBps:
		return &g.ProposalThresholdBps
	case domain.ParamQuorumBps:
		return &g.QuorumBps
	case domain.ParamProposalGracePeriod:
		return &g.ProposalGracePeriod
	case domain.ParamVotingDelay:
		return &g.VotingDelay
	case domain.ParamVotingPeriod:
		return &g.VotingPeriod
	case domain.ParamPercentMajority:
		return &g.PercentMajority
	case domain.ParamMaxDeadlineExtension:
		return &g.MaxDeadlineExtension
	case domain.ParamBaseDeadlineExtension:
		return &g.BaseDeadlineExtension
	case domain.ParamExtensionDecayPeriod:
		return &g.ExtensionDecayPeriod
	case domain.ParamExtensionPercentDecay:
		return &g.ExtensionPercentDecay
	case domain.ParamMaxSupply:
		return &g.MaxSupply
	case domain.ParamExecutorMinDelay:
		return &g.ExecutorMinDelay
	default:
		return nil
	}
}

func (g *GovernanceData) addressParam(p domain.Parameter) *common.Address {
	switch p {
	case domain.ParamBalanceSharesManager:
		return &g.BalanceSharesManager
	case domain.ParamSharesOnboarder:
		return &g.SharesOnboarder
	case domain.ParamDistributor:
		return &g.Distributor
	case domain.ParamGuard:
		return &g.Guard
	default:
		return nil
	}
}

// Param returns the stored value of a numeric parameter.
func (g *GovernanceData) Param(p domain.Parameter) (*big.Int, bool) {
	field := g.param(p)
	if field == nil {
		return nil, false
	}
	return orZero(*field), true
}

// SetParam replaces a numeric parameter. It returns false for parameters
// that are not numeric.
func (g *GovernanceData) SetParam(p domain.Parameter, value *big.Int) bool {
	field := g.param(p)
	if field == nil {
		return false
	}
	*field = copyInt(value)
	return true
}

// AddressParam returns the stored value of an address parameter.
func (g *GovernanceData) AddressParam(p domain.Parameter) (common.Address, bool) {
	field := g.addressParam(p)
	if field == nil {
		return common.Address{}, false
	}
	return *field, true
}

// SetAddressParam replaces an address parameter. It returns false for
// parameters that are not addresses.
func (g *GovernanceData) SetAddressParam(p domain.Parameter, value common.Address) bool {
	field := g.addressParam(p)
	if field == nil {
		return false
	}
	*field = value
	return true
}
