package domain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

type EventType string

const (
	// Governor
	EventTypeProposalCreated          EventType = "ProposalCreated"
	EventTypeProposalDeadlineExtended EventType = "ProposalDeadlineExtended"
	EventTypeProposalQueued           EventType = "ProposalQueued"
	EventTypeProposalExecuted         EventType = "ProposalExecuted"
	EventTypeProposalCanceled         EventType = "ProposalCanceled"
	EventTypeVoteCast                 EventType = "VoteCast"
	EventTypeVoteCastWithParams       EventType = "VoteCastWithParams"
	EventTypeRoleGranted              EventType = "RoleGranted"
	EventTypeRoleRevoked              EventType = "RoleRevoked"
	EventTypeGovernorBaseInitialized  EventType = "GovernorBaseInitialized"
	EventTypeGovernorFounded          EventType = "GovernorFounded"

	EventTypeProposalThresholdBPSUpdate  EventType = "ProposalThresholdBPSUpdate"
	EventTypeQuorumBPSUpdate             EventType = "QuorumBPSUpdate"
	EventTypeProposalGracePeriodUpdate   EventType = "ProposalGracePeriodUpdate"
	EventTypeVotingDelayUpdate           EventType = "VotingDelayUpdate"
	EventTypeVotingPeriodUpdate          EventType = "VotingPeriodUpdate"
	EventTypePercentMajorityUpdate       EventType = "PercentMajorityUpdate"
	EventTypeMaxDeadlineExtensionUpdate  EventType = "MaxDeadlineExtensionUpdate"
	EventTypeBaseDeadlineExtensionUpdate EventType = "BaseDeadlineExtensionUpdate"
	EventTypeExtensionDecayPeriodUpdate  EventType = "ExtensionDecayPeriodUpdate"
	EventTypeExtensionPercentDecayUpdate EventType = "ExtensionPercentDecayUpdate"

	// Token
	EventTypeTransfer             EventType = "Transfer"
	EventTypeDelegateChanged      EventType = "DelegateChanged"
	EventTypeDelegateVotesChanged EventType = "DelegateVotesChanged"
	EventTypeMaxSupplyChange      EventType = "MaxSupplyChange"

	// Executor
	EventTypeBalanceSharesManagerUpdate EventType = "BalanceSharesManagerUpdate"
	EventTypeSharesOnboarderUpdate      EventType = "SharesOnboarderUpdate"
	EventTypeDistributorUpdate          EventType = "DistributorUpdate"
	EventTypeChangedGuard               EventType = "ChangedGuard"
	EventTypeMinDelayUpdate             EventType = "MinDelayUpdate"
	EventTypeEnabledModule              EventType = "EnabledModule"
	EventTypeDisabledModule             EventType = "DisabledModule"
	EventTypeCallExecuted               EventType = "CallExecuted"
	EventTypeOperationScheduled         EventType = "OperationScheduled"
	EventTypeOperationCanceled          EventType = "OperationCanceled"
	EventTypeOperationExecuted          EventType = "OperationExecuted"
	EventTypeDepositRegistered          EventType = "DepositRegistered"
	EventTypeWithdrawalProcessed        EventType = "WithdrawalProcessed"
)

// Parameter names a single mirrored configuration value
type Parameter string

const (
	ParamProposalThresholdBps  Parameter = "proposalThresholdBps"
	ParamQuorumBps             Parameter = "quorumBps"
	ParamProposalGracePeriod   Parameter = "proposalGracePeriod"
	ParamVotingDelay           Parameter = "votingDelay"
	ParamVotingPeriod          Parameter = "votingPeriod"
	ParamPercentMajority       Parameter = "percentMajority"
	ParamMaxDeadlineExtension  Parameter = "maxDeadlineExtension"
	ParamBaseDeadlineExtension Parameter = "baseDeadlineExtension"
	ParamExtensionDecayPeriod  Parameter = "extensionDecayPeriod"
	ParamExtensionPercentDecay Parameter = "extensionPercentDecay"
	ParamMaxSupply             Parameter = "maxSupply"
	ParamExecutorMinDelay      Parameter = "executorMinDelay"

	ParamBalanceSharesManager Parameter = "balanceSharesManager"
	ParamSharesOnboarder      Parameter = "sharesOnboarder"
	ParamDistributor          Parameter = "distributor"
	ParamGuard                Parameter = "guard"
)

// ParameterEvents maps each numeric (old, new) update event to the value it sets.
var ParameterEvents = map[EventType]Parameter{
	EventTypeProposalThresholdBPSUpdate:  ParamProposalThresholdBps,
	EventTypeQuorumBPSUpdate:             ParamQuorumBps,
	EventTypeProposalGracePeriodUpdate:   ParamProposalGracePeriod,
	EventTypeVotingDelayUpdate:           ParamVotingDelay,
	EventTypeVotingPeriodUpdate:          ParamVotingPeriod,
	EventTypePercentMajorityUpdate:       ParamPercentMajority,
	EventTypeMaxDeadlineExtensionUpdate:  ParamMaxDeadlineExtension,
	EventTypeBaseDeadlineExtensionUpdate: ParamBaseDeadlineExtension,
	EventTypeExtensionDecayPeriodUpdate:  ParamExtensionDecayPeriod,
	EventTypeExtensionPercentDecayUpdate: ParamExtensionPercentDecay,
	EventTypeMaxSupplyChange:             ParamMaxSupply,
	EventTypeMinDelayUpdate:              ParamExecutorMinDelay,
}

// AddressParameterEvents maps each address update event to the value it sets.
var AddressParameterEvents = map[EventType]Parameter{
	EventTypeBalanceSharesManagerUpdate: ParamBalanceSharesManager,
	EventTypeSharesOnboarderUpdate:      ParamSharesOnboarder,
	EventTypeDistributorUpdate:          ParamDistributor,
	EventTypeChangedGuard:               ParamGuard,
}

// Position orders events within the chain
type Position struct {
	BlockNumber uint64 `json:"blockNumber"`
	LogIndex    uint   `json:"logIndex"`
}

// After reports whether p comes strictly after o.
func (p Position) After(o Position) bool {
	if p.BlockNumber != o.BlockNumber {
		return p.BlockNumber > o.BlockNumber
	}
	return p.LogIndex > o.LogIndex
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.BlockNumber, p.LogIndex)
}

// EventMeta carries the provenance of an event
type EventMeta struct {
	Contract       common.Address
	BlockNumber    uint64
	BlockTimestamp uint64
	TxHash         common.Hash
	LogIndex       uint
}

// Metadata returns the provenance of the event
func (m EventMeta) Metadata() EventMeta { return m }

// Position returns where the event sits in chain order
func (m EventMeta) Position() Position {
	return Position{BlockNumber: m.BlockNumber, LogIndex: m.LogIndex}
}

func (EventMeta) sealed() {}

// Event is the closed set of decoded governance events. Only types in this
// package implement it.
type Event interface {
	ContractEventName() string
	Metadata() EventMeta
	Position() Position
	sealed()
}

// Describe returns a short human-readable description of an event for logs.
func Describe(e Event) string {
	m := e.Metadata()
	return fmt.Sprintf("%s@%d:%d tx=%s", e.ContractEventName(), m.BlockNumber, m.LogIndex, m.TxHash.Hex()[:10])
}

// RawLog is an undecoded log together with its block timestamp
type RawLog struct {
	Log       types.Log
	Timestamp uint64
}

// Position returns where the log sits in chain order
func (r RawLog) Position() Position {
	return Position{BlockNumber: r.Log.BlockNumber, LogIndex: r.Log.Index}
}

// Governor events

type ProposalCreated struct {
	EventMeta
	ProposalID  *big.Int
	Proposer    common.Address
	Targets     []common.Address
	Values      []*big.Int
	Calldatas   [][]byte
	Signatures  []string
	VoteStart   *big.Int
	VoteEnd     *big.Int
	Description string
}

func (ProposalCreated) ContractEventName() string { return string(EventTypeProposalCreated) }

type ProposalDeadlineExtended struct {
	EventMeta
	ProposalID       *big.Int
	ExtendedDeadline *big.Int
}

func (ProposalDeadlineExtended) ContractEventName() string {
	return string(EventTypeProposalDeadlineExtended)
}

type ProposalQueued struct {
	EventMeta
	ProposalID *big.Int
	ETA        *big.Int
}

func (ProposalQueued) ContractEventName() string { return string(EventTypeProposalQueued) }

type ProposalExecuted struct {
	EventMeta
	ProposalID *big.Int
}

func (ProposalExecuted) ContractEventName() string { return string(EventTypeProposalExecuted) }

type ProposalCanceled struct {
	EventMeta
	ProposalID *big.Int
	Canceler   common.Address
}

func (ProposalCanceled) ContractEventName() string { return string(EventTypeProposalCanceled) }

// VoteCast is a vote without parameters. It is processed as a
// VoteCastWithParams carrying an empty payload.
type VoteCast struct {
	EventMeta
	Voter      common.Address
	ProposalID *big.Int
	Support    uint8
	Weight     *big.Int
	Reason     string
}

func (VoteCast) ContractEventName() string { return string(EventTypeVoteCast) }

// WithParams converts the vote into its parameterized form.
func (e VoteCast) WithParams() VoteCastWithParams {
	return VoteCastWithParams{
		EventMeta:  e.EventMeta,
		Voter:      e.Voter,
		ProposalID: e.ProposalID,
		Support:    e.Support,
		Weight:     e.Weight,
		Reason:     e.Reason,
	}
}

type VoteCastWithParams struct {
	EventMeta
	Voter      common.Address
	ProposalID *big.Int
	Support    uint8
	Weight     *big.Int
	Reason     string
	Params     []byte
}

func (VoteCastWithParams) ContractEventName() string { return string(EventTypeVoteCastWithParams) }

type RoleGranted struct {
	EventMeta
	Role      common.Hash
	Account   common.Address
	ExpiresAt *big.Int
}

func (RoleGranted) ContractEventName() string { return string(EventTypeRoleGranted) }

type RoleRevoked struct {
	EventMeta
	Role    common.Hash
	Account common.Address
}

func (RoleRevoked) ContractEventName() string { return string(EventTypeRoleRevoked) }

type GovernorBaseInitialized struct {
	EventMeta
	Executor               common.Address
	Token                  common.Address
	GovernanceCanBeginAt   *big.Int
	GovernanceThresholdBps *big.Int
	IsFounded              bool
}

func (GovernorBaseInitialized) ContractEventName() string {
	return string(EventTypeGovernorBaseInitialized)
}

type GovernorFounded struct {
	EventMeta
	ProposalID *big.Int
}

func (GovernorFounded) ContractEventName() string { return string(EventTypeGovernorFounded) }

// ParameterUpdated covers every event that replaces a single numeric
// configuration value. Old is nil when the event does not report it.
type ParameterUpdated struct {
	EventMeta
	Name  EventType
	Param Parameter
	Old   *big.Int
	New   *big.Int
}

func (e ParameterUpdated) ContractEventName() string { return string(e.Name) }

// AddressParameterUpdated covers every event that replaces a single address
// configuration value. Old is nil when the event does not report it.
type AddressParameterUpdated struct {
	EventMeta
	Name  EventType
	Param Parameter
	Old   *common.Address
	New   common.Address
}

func (e AddressParameterUpdated) ContractEventName() string { return string(e.Name) }

// Token events

type Transfer struct {
	EventMeta
	From  common.Address
	To    common.Address
	Value *big.Int
}

func (Transfer) ContractEventName() string { return string(EventTypeTransfer) }

// IsMint reports whether the transfer creates new tokens
func (e Transfer) IsMint() bool { return e.From == (common.Address{}) }

// IsBurn reports whether the transfer destroys tokens
func (e Transfer) IsBurn() bool { return e.To == (common.Address{}) }

type DelegateChanged struct {
	EventMeta
	Delegator    common.Address
	FromDelegate common.Address
	ToDelegate   common.Address
}

func (DelegateChanged) ContractEventName() string { return string(EventTypeDelegateChanged) }

type DelegateVotesChanged struct {
	EventMeta
	Delegate      common.Address
	PreviousVotes *big.Int
	NewVotes      *big.Int
}

func (DelegateVotesChanged) ContractEventName() string {
	return string(EventTypeDelegateVotesChanged)
}

// Executor events

type EnabledModule struct {
	EventMeta
	Module common.Address
}

func (EnabledModule) ContractEventName() string { return string(EventTypeEnabledModule) }

type DisabledModule struct {
	EventMeta
	Module common.Address
}

func (DisabledModule) ContractEventName() string { return string(EventTypeDisabledModule) }

type CallExecuted struct {
	EventMeta
	Target    common.Address
	Value     *big.Int
	Data      []byte
	Operation uint8
}

func (CallExecuted) ContractEventName() string { return string(EventTypeCallExecuted) }

type OperationScheduled struct {
	EventMeta
	OpNonce   *big.Int
	Module    common.Address
	To        common.Address
	Value     *big.Int
	Data      []byte
	Operation uint8
	Delay     *big.Int
}

func (OperationScheduled) ContractEventName() string { return string(EventTypeOperationScheduled) }

type OperationCanceled struct {
	EventMeta
	OpNonce *big.Int
	Module  common.Address
}

func (OperationCanceled) ContractEventName() string { return string(EventTypeOperationCanceled) }

type OperationExecuted struct {
	EventMeta
	OpNonce *big.Int
	Module  common.Address
}

func (OperationExecuted) ContractEventName() string { return string(EventTypeOperationExecuted) }

type DepositRegistered struct {
	EventMeta
	Account       common.Address
	QuoteAsset    common.Address
	DepositAmount *big.Int
	MintAmount    *big.Int
}

func (DepositRegistered) ContractEventName() string { return string(EventTypeDepositRegistered) }

type WithdrawalProcessed struct {
	EventMeta
	Account           common.Address
	Receiver          common.Address
	SharesBurned      *big.Int
	TotalSharesSupply *big.Int
	Assets            []common.Address
	Payouts           []*big.Int
}

func (WithdrawalProcessed) ContractEventName() string {
	return string(EventTypeWithdrawalProcessed)
}
