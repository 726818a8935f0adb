package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/govindex/internal/domain"
)

// ExecutorModule is a module currently enabled on the executor. Disabled
// modules have no record.
type ExecutorModule struct {
	ID                 common.Address `json:"id"`
	Enabled            bool           `json:"enabled"`
	EnabledAtBlock     uint64         `json:"enabledAtBlock"`
	EnabledAtTimestamp uint64         `json:"enabledAtTimestamp"`
}

func NewExecutorModule(e domain.EnabledModule) *ExecutorModule {
	return &ExecutorModule{
		ID:                 e.Module,
		Enabled:            true,
		EnabledAtBlock:     e.BlockNumber,
		EnabledAtTimestamp: e.BlockTimestamp,
	}
}

func (m *ExecutorModule) EntityKind() EntityKind { return EntityKindExecutorModule }
func (m *ExecutorModule) EntityID() []byte       { return m.ID.Bytes() }

// ExecutorOperation is an operation scheduled on the executor by a module
type ExecutorOperation struct {
	ID        common.Hash    `json:"id"`
	Module    common.Address `json:"module"`
	To        common.Address `json:"to"`
	Value     *big.Int       `json:"value"`
	Calldata  hexutil.Bytes  `json:"calldata"`
	Operation uint8          `json:"operation"`
	Delay     *big.Int       `json:"delay"`

	ScheduledAtBlock     uint64 `json:"scheduledAtBlock,omitempty"`
	ScheduledAtTimestamp uint64 `json:"scheduledAtTimestamp,omitempty"`

	IsCanceled          bool   `json:"isCanceled"`
	CanceledAtBlock     uint64 `json:"canceledAtBlock,omitempty"`
	CanceledAtTimestamp uint64 `json:"canceledAtTimestamp,omitempty"`

	IsExecuted          bool   `json:"isExecuted"`
	ExecutedAtBlock     uint64 `json:"executedAtBlock,omitempty"`
	ExecutedAtTimestamp uint64 `json:"executedAtTimestamp,omitempty"`
}

// NewExecutorOperation returns an empty shell for an operation nonce.
func NewExecutorOperation(id common.Hash) *ExecutorOperation {
	return &ExecutorOperation{ID: id, Value: new(big.Int), Delay: new(big.Int)}
}

func (o *ExecutorOperation) EntityKind() EntityKind { return EntityKindExecutorOperation }
func (o *ExecutorOperation) EntityID() []byte       { return o.ID.Bytes() }

func (o *ExecutorOperation) ApplyScheduled(e domain.OperationScheduled) {
	o.Module = e.Module
	o.To = e.To
	o.Value = copyInt(e.Value)
	o.Calldata = e.Data
	o.Operation = e.Operation
	o.Delay = copyInt(e.Delay)
	o.ScheduledAtBlock = e.BlockNumber
	o.ScheduledAtTimestamp = e.BlockTimestamp
	o.IsCanceled = false
	o.IsExecuted = false
}

func (o *ExecutorOperation) ApplyCanceled(e domain.OperationCanceled) {
	o.Module = e.Module
	o.IsCanceled = true
	o.CanceledAtBlock = e.BlockNumber
	o.CanceledAtTimestamp = e.BlockTimestamp
}

func (o *ExecutorOperation) ApplyExecuted(e domain.OperationExecuted) {
	o.Module = e.Module
	o.IsExecuted = true
	o.ExecutedAtBlock = e.BlockNumber
	o.ExecutedAtTimestamp = e.BlockTimestamp
}

// Provenance locates the log that produced a per-log record
type Provenance struct {
	BlockNumber    uint64      `json:"blockNumber"`
	BlockTimestamp uint64      `json:"blockTimestamp"`
	TxHash         common.Hash `json:"txHash"`
	LogIndex       uint        `json:"logIndex"`
}

func provenance(m domain.EventMeta) Provenance {
	return Provenance{
		BlockNumber:    m.BlockNumber,
		BlockTimestamp: m.BlockTimestamp,
		TxHash:         m.TxHash,
		LogIndex:       m.LogIndex,
	}
}

// ExecutorCall is a call made by the executor
type ExecutorCall struct {
	ID        hexutil.Bytes  `json:"id"`
	Target    common.Address `json:"target"`
	Value     *big.Int       `json:"value"`
	Calldata  hexutil.Bytes  `json:"calldata"`
	Operation uint8          `json:"operation"`
	Provenance
}

func NewExecutorCall(e domain.CallExecuted) *ExecutorCall {
	return &ExecutorCall{
		ID:         domain.LogID(e.TxHash, e.LogIndex),
		Target:     e.Target,
		Value:      copyInt(e.Value),
		Calldata:   e.Data,
		Operation:  e.Operation,
		Provenance: provenance(e.EventMeta),
	}
}

func (c *ExecutorCall) EntityKind() EntityKind { return EntityKindExecutorCall }
func (c *ExecutorCall) EntityID() []byte       { return c.ID }

// Deposit is a registered deposit into the executor's treasury
type Deposit struct {
	ID            hexutil.Bytes  `json:"id"`
	Account       common.Address `json:"account"`
	QuoteAsset    common.Address `json:"quoteAsset"`
	DepositAmount *big.Int       `json:"depositAmount"`
	MintAmount    *big.Int       `json:"mintAmount"`
	Provenance
}

func NewDeposit(e domain.DepositRegistered) *Deposit {
	return &Deposit{
		ID:            domain.LogID(e.TxHash, e.LogIndex),
		Account:       e.Account,
		QuoteAsset:    e.QuoteAsset,
		DepositAmount: copyInt(e.DepositAmount),
		MintAmount:    copyInt(e.MintAmount),
		Provenance:    provenance(e.EventMeta),
	}
}

func (d *Deposit) EntityKind() EntityKind { return EntityKindDeposit }
func (d *Deposit) EntityID() []byte       { return d.ID }

// Withdrawal is a processed withdrawal of shares for treasury assets
type Withdrawal struct {
	ID                hexutil.Bytes    `json:"id"`
	Account           common.Address   `json:"account"`
	Receiver          common.Address   `json:"receiver"`
	SharesBurned      *big.Int         `json:"sharesBurned"`
	TotalSharesSupply *big.Int         `json:"totalSharesSupply"`
	Assets            []common.Address `json:"assets"`
	Payouts           []*big.Int       `json:"payouts"`
	Provenance
}

func NewWithdrawal(e domain.WithdrawalProcessed) *Withdrawal {
	return &Withdrawal{
		ID:                domain.LogID(e.TxHash, e.LogIndex),
		Account:           e.Account,
		Receiver:          e.Receiver,
		SharesBurned:      copyInt(e.SharesBurned),
		TotalSharesSupply: copyInt(e.TotalSharesSupply),
		Assets:            e.Assets,
		Payouts:           e.Payouts,
		Provenance:        provenance(e.EventMeta),
	}
}

func (w *Withdrawal) EntityKind() EntityKind { return EntityKindWithdrawal }
func (w *Withdrawal) EntityID() []byte       { return w.ID }
