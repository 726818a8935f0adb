package abi

import (
	"fmt"
	"log/slog"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govindex/internal/domain"
)

type eventBuilder func(meta domain.EventMeta, p *params) domain.Event

// EventDecoder decodes raw protocol logs into typed governance events
type EventDecoder struct {
	abis      map[Contract]*ethabi.ABI
	contracts map[common.Address]Contract
	builders  map[domain.EventType]eventBuilder
	log       *slog.Logger
}

// NewEventDecoder creates a decoder. Logs from an address in contracts are
// matched against that contract's ABI only; logs from other addresses are
// matched against every protocol ABI.
func NewEventDecoder(contracts map[common.Address]Contract, log *slog.Logger) (*EventDecoder, error) {
	abis := make(map[Contract]*ethabi.ABI, len(contractOrder))
	for _, c := range contractOrder {
		parsed, err := LoadABI(c)
		if err != nil {
			return nil, err
		}
		abis[c] = parsed
	}
	if contracts == nil {
		contracts = map[common.Address]Contract{}
	}
	return &EventDecoder{
		abis:      abis,
		contracts: contracts,
		builders:  eventBuilders(),
		log:       log.With("component", "EventDecoder"),
	}, nil
}

// Decode implements usecase.EventDecoder.
func (d *EventDecoder) Decode(raw domain.RawLog) (domain.Event, error) {
	// If there are no topics, we can't decode
	if len(raw.Log.Topics) == 0 {
		return nil, fmt.Errorf("%w: log without topics", domain.ErrUnknownEvent)
	}

	event, err := d.lookup(raw.Log.Address, raw.Log.Topics[0])
	if err != nil {
		return nil, err
	}

	decoded := make(map[string]any)

	// First decode indexed parameters from topics
	var indexedInputs ethabi.Arguments
	for _, input := range event.Inputs {
		if input.Indexed {
			indexedInputs = append(indexedInputs, input)
		}
	}
	if len(raw.Log.Topics)-1 != len(indexedInputs) {
		return nil, fmt.Errorf("%w: %s has %d topics, want %d", domain.ErrMalformedEvent, event.Name, len(raw.Log.Topics)-1, len(indexedInputs))
	}
	if len(indexedInputs) > 0 {
		// Skip the first topic (event signature)
		if err := ethabi.ParseTopicsIntoMap(decoded, indexedInputs, raw.Log.Topics[1:]); err != nil {
			return nil, fmt.Errorf("%w: %s: failed to parse topics: %v", domain.ErrMalformedEvent, event.Name, err)
		}
	}

	// Then decode non-indexed parameters from data
	if len(event.Inputs.NonIndexed()) > 0 {
		if err := event.Inputs.UnpackIntoMap(decoded, raw.Log.Data); err != nil {
			return nil, fmt.Errorf("%w: %s: failed to unpack data: %v", domain.ErrMalformedEvent, event.Name, err)
		}
	}

	name := domain.EventType(event.RawName)
	build, ok := d.builders[name]
	if !ok {
		build = parameterBuilder(name, event.Inputs)
	}
	if build == nil {
		return nil, fmt.Errorf("%w: no handler for %s", domain.ErrUnknownEvent, name)
	}

	p := &params{event: event.RawName, values: decoded}
	ev := build(metaOf(raw), p)
	if p.err != nil {
		return nil, p.err
	}

	d.log.Debug("decoded event", "event", name, "block", raw.Log.BlockNumber, "logIndex", raw.Log.Index)
	return ev, nil
}

// lookup finds the event definition for a log's signature topic.
func (d *EventDecoder) lookup(emitter common.Address, sig common.Hash) (*ethabi.Event, error) {
	if c, ok := d.contracts[emitter]; ok {
		if event, err := d.abis[c].EventByID(sig); err == nil {
			return event, nil
		}
		return nil, fmt.Errorf("%w: %s on %s contract %s", domain.ErrUnknownEvent, sig.Hex(), c, emitter.Hex())
	}
	for _, c := range contractOrder {
		if event, err := d.abis[c].EventByID(sig); err == nil {
			return event, nil
		}
	}
	return nil, fmt.Errorf("%w: %s from %s", domain.ErrUnknownEvent, sig.Hex(), emitter.Hex())
}

func metaOf(raw domain.RawLog) domain.EventMeta {
	return domain.EventMeta{
		Contract:       raw.Log.Address,
		BlockNumber:    raw.Log.BlockNumber,
		BlockTimestamp: raw.Timestamp,
		TxHash:         raw.Log.TxHash,
		LogIndex:       raw.Log.Index,
	}
}

// parameterBuilder handles the single-value configuration updates. Their
// inputs are (old, new) or just (new), so they are read by position.
func parameterBuilder(name domain.EventType, inputs ethabi.Arguments) eventBuilder {
	if param, ok := domain.ParameterEvents[name]; ok && len(inputs) == 2 {
		return func(meta domain.EventMeta, p *params) domain.Event {
			return domain.ParameterUpdated{
				EventMeta: meta,
				Name:      name,
				Param:     param,
				Old:       p.bigInt(inputs[0].Name),
				New:       p.bigInt(inputs[1].Name),
			}
		}
	}
	if param, ok := domain.AddressParameterEvents[name]; ok && len(inputs) > 0 {
		return func(meta domain.EventMeta, p *params) domain.Event {
			ev := domain.AddressParameterUpdated{
				EventMeta: meta,
				Name:      name,
				Param:     param,
				New:       p.address(inputs[len(inputs)-1].Name),
			}
			if len(inputs) == 2 {
				old := p.address(inputs[0].Name)
				ev.Old = &old
			}
			return ev
		}
	}
	return nil
}

func eventBuilders() map[domain.EventType]eventBuilder {
	return map[domain.EventType]eventBuilder{
		// Governor
		domain.EventTypeProposalCreated: func(meta domain.EventMeta, p *params) domain.Event {
			return domain.ProposalCreated{
				EventMeta:   meta,
				ProposalID:  p.bigInt("proposalId"),
				Proposer:    p.address("proposer"),
				Targets:     p.addresses("targets"),
				Values:      p.bigInts("values"),
				Calldatas:   p.dataList("calldatas"),
				Signatures:  p.textList("signatures"),
				VoteStart:   p.bigInt("voteStart"),
				VoteEnd:     p.bigInt("voteEnd"),
				Description: p.text("description"),
			}
		},
		domain.EventTypeProposalDeadlineExtended: func(meta domain.EventMeta, p *params) domain.Event {
			return domain.ProposalDeadlineExtended{
				EventMeta:        meta,
				ProposalID:       p.bigInt("proposalId"),
				ExtendedDeadline: p.bigInt("extendedDeadline"),
			}
		},
		domain.EventTypeProposalQueued: func(meta domain.EventMeta, p *params) domain.Event {
			return domain.ProposalQueued{EventMeta: meta, ProposalID: p.bigInt("proposalId"), ETA: p.bigInt("eta")}
		},
		domain.EventTypeProposalExecuted: func(meta domain.EventMeta, p *params) domain.Event {
			return domain.ProposalExecuted{EventMeta: meta, ProposalID: p.bigInt("proposalId")}
		},
		domain.EventTypeProposalCanceled: func(meta domain.EventMeta, p *params) domain.Event {
			return domain.ProposalCanceled{EventMeta: meta, ProposalID: p.bigInt("proposalId"), Canceler: p.address("canceler")}
		},
		domain.EventTypeVoteCast: func(meta domain.EventMeta, p *params) domain.Event {
			return domain.VoteCast{
				EventMeta:  meta,
				Voter:      p.address("voter"),
				ProposalID: p.bigInt("proposalId"),
				Support:    p.small("support"),
				Weight:     p.bigInt("weight"),
				Reason:     p.text("reason"),
			}
		},
		domain.EventTypeVoteCastWithParams: func(meta domain.EventMeta, p *params) domain.Event {
			return domain.VoteCastWithParams{
				EventMeta:  meta,
				Voter:      p.address("voter"),
				ProposalID: p.bigInt("proposalId"),
				Support:    p.small("support"),
				Weight:     p.bigInt("weight"),
				Reason:     p.text("reason"),
				Params:     p.data("params"),
			}
		},
		domain.EventTypeRoleGranted: func(meta domain.EventMeta, p *params) domain.Event {
			return domain.RoleGranted{
				EventMeta: meta,
				Role:      p.hash("role"),
				Account:   p.address("account"),
				ExpiresAt: p.bigInt("expiresAt"),
			}
		},
		domain.EventTypeRoleRevoked: func(meta domain.EventMeta, p *params) domain.Event {
			return domain.RoleRevoked{EventMeta: meta, Role: p.hash("role"), Account: p.address("account")}
		},
		domain.EventTypeGovernorBaseInitialized: func(meta domain.EventMeta, p *params) domain.Event {
			return domain.GovernorBaseInitialized{
				EventMeta:              meta,
				Executor:               p.address("executor"),
				Token:                  p.address("token"),
				GovernanceCanBeginAt:   p.bigInt("governanceCanBeginAt"),
				GovernanceThresholdBps: p.bigInt("governanceThresholdBps"),
				IsFounded:              p.flag("isFounded"),
			}
		},
		domain.EventTypeGovernorFounded: func(meta domain.EventMeta, p *params) domain.Event {
			return domain.GovernorFounded{EventMeta: meta, ProposalID: p.bigInt("proposalId")}
		},

		// Token
		domain.EventTypeTransfer: func(meta domain.EventMeta, p *params) domain.Event {
			return domain.Transfer{EventMeta: meta, From: p.address("from"), To: p.address("to"), Value: p.bigInt("value")}
		},
		domain.EventTypeDelegateChanged: func(meta domain.EventMeta, p *params) domain.Event {
			return domain.DelegateChanged{
				EventMeta:    meta,
				Delegator:    p.address("delegator"),
				FromDelegate: p.address("fromDelegate"),
				ToDelegate:   p.address("toDelegate"),
			}
		},
		domain.EventTypeDelegateVotesChanged: func(meta domain.EventMeta, p *params) domain.Event {
			return domain.DelegateVotesChanged{
				EventMeta:     meta,
				Delegate:      p.address("delegate"),
				PreviousVotes: p.bigInt("previousVotes"),
				NewVotes:      p.bigInt("newVotes"),
			}
		},

		// Executor
		domain.EventTypeEnabledModule: func(meta domain.EventMeta, p *params) domain.Event {
			return domain.EnabledModule{EventMeta: meta, Module: p.address("module")}
		},
		domain.EventTypeDisabledModule: func(meta domain.EventMeta, p *params) domain.Event {
			return domain.DisabledModule{EventMeta: meta, Module: p.address("module")}
		},
		domain.EventTypeCallExecuted: func(meta domain.EventMeta, p *params) domain.Event {
			return domain.CallExecuted{
				EventMeta: meta,
				Target:    p.address("target"),
				Value:     p.bigInt("value"),
				Data:      p.data("data"),
				Operation: p.small("operation"),
			}
		},
		domain.EventTypeOperationScheduled: func(meta domain.EventMeta, p *params) domain.Event {
			return domain.OperationScheduled{
				EventMeta: meta,
				OpNonce:   p.bigInt("opNonce"),
				Module:    p.address("module"),
				To:        p.address("to"),
				Value:     p.bigInt("value"),
				Data:      p.data("data"),
				Operation: p.small("operation"),
				Delay:     p.bigInt("delay"),
			}
		},
		domain.EventTypeOperationCanceled: func(meta domain.EventMeta, p *params) domain.Event {
			return domain.OperationCanceled{EventMeta: meta, OpNonce: p.bigInt("opNonce"), Module: p.address("module")}
		},
		domain.EventTypeOperationExecuted: func(meta domain.EventMeta, p *params) domain.Event {
			return domain.OperationExecuted{EventMeta: meta, OpNonce: p.bigInt("opNonce"), Module: p.address("module")}
		},
		domain.EventTypeDepositRegistered: func(meta domain.EventMeta, p *params) domain.Event {
			return domain.DepositRegistered{
				EventMeta:     meta,
				Account:       p.address("account"),
				QuoteAsset:    p.address("quoteAsset"),
				DepositAmount: p.bigInt("depositAmount"),
				MintAmount:    p.bigInt("mintAmount"),
			}
		},
		domain.EventTypeWithdrawalProcessed: func(meta domain.EventMeta, p *params) domain.Event {
			return domain.WithdrawalProcessed{
				EventMeta:         meta,
				Account:           p.address("account"),
				Receiver:          p.address("receiver"),
				SharesBurned:      p.bigInt("sharesBurned"),
				TotalSharesSupply: p.bigInt("totalSharesSupply"),
				Assets:            p.addresses("assets"),
				Payouts:           p.bigInts("payouts"),
			}
		},
	}
}
