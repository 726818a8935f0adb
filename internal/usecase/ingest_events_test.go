package usecase_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/govindex/internal/domain"
	"github.com/trebuchet-org/govindex/internal/domain/models"
	"github.com/trebuchet-org/govindex/internal/usecase"
)

// sliceSource replays a fixed list of logs, honouring the resume position
type sliceSource struct {
	logs  []domain.RawLog
	froms []*domain.Position
}

func (s *sliceSource) Stream(ctx context.Context, from *domain.Position, handle func(domain.RawLog) error) error {
	s.froms = append(s.froms, from)
	for _, l := range s.logs {
		if err := handle(l); err != nil {
			return err
		}
	}
	return nil
}

// MockEventDecoder is a mock implementation of EventDecoder
type MockEventDecoder struct {
	mock.Mock
}

func (m *MockEventDecoder) Decode(raw domain.RawLog) (domain.Event, error) {
	args := m.Called(raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Event), args.Error(1)
}

// MockProgressSink records progress events
type MockProgressSink struct {
	events []usecase.ProgressEvent
}

func (m *MockProgressSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	m.events = append(m.events, event)
}
func (m *MockProgressSink) Info(string)  {}
func (m *MockProgressSink) Error(string) {}

func rawLog(block uint64, index uint) domain.RawLog {
	return domain.RawLog{
		Log: types.Log{
			Address:     common.HexToAddress("0x9090"),
			BlockNumber: block,
			Index:       index,
			TxHash:      common.BigToHash(big.NewInt(int64(block*1000) + int64(index))),
		},
		Timestamp: block * 12,
	}
}

func transferFor(raw domain.RawLog, amount int64) domain.Transfer {
	return domain.Transfer{
		EventMeta: domain.EventMeta{
			Contract:       raw.Log.Address,
			BlockNumber:    raw.Log.BlockNumber,
			BlockTimestamp: raw.Timestamp,
			TxHash:         raw.Log.TxHash,
			LogIndex:       raw.Log.Index,
		},
		To:    alice,
		Value: big.NewInt(amount),
	}
}

func TestIngestEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("applies decoded events and skips unknown logs", func(t *testing.T) {
		f := newFixture(t)
		logs := []domain.RawLog{rawLog(1, 0), rawLog(1, 1), rawLog(2, 0)}

		decoder := new(MockEventDecoder)
		decoder.On("Decode", logs[0]).Return(transferFor(logs[0], 5), nil)
		decoder.On("Decode", logs[1]).Return(nil, domain.ErrUnknownEvent)
		decoder.On("Decode", logs[2]).Return(transferFor(logs[2], 7), nil)

		sink := &MockProgressSink{}
		uc := usecase.NewIngestEvents(&sliceSource{logs: logs}, decoder, f.indexer, f.metrics, sink, discardLogger())

		result, err := uc.Run(ctx, usecase.IngestEventsParams{})
		require.NoError(t, err)

		assert.Equal(t, 2, result.Applied)
		assert.Equal(t, 1, result.Unknown)
		assert.Nil(t, result.Start)
		require.NotNil(t, result.Last)
		assert.Equal(t, domain.Position{BlockNumber: 2, LogIndex: 0}, *result.Last)
		assert.Equal(t, int64(12), f.governance(t).TotalSupply.Int64())
		assert.NotEmpty(t, sink.events)
		decoder.AssertExpectations(t)
	})

	t.Run("resumes after the checkpoint", func(t *testing.T) {
		f := newFixture(t)
		logs := []domain.RawLog{rawLog(1, 0), rawLog(2, 0), rawLog(3, 0)}

		decoder := new(MockEventDecoder)
		for _, l := range logs {
			decoder.On("Decode", l).Return(transferFor(l, 1), nil)
		}

		first := usecase.NewIngestEvents(&sliceSource{logs: logs[:2]}, decoder, f.indexer, f.metrics, usecase.NopProgress{}, discardLogger())
		_, err := first.Run(ctx, usecase.IngestEventsParams{})
		require.NoError(t, err)

		source := &sliceSource{logs: logs}
		second := usecase.NewIngestEvents(source, decoder, f.indexer, f.metrics, usecase.NopProgress{}, discardLogger())
		result, err := second.Run(ctx, usecase.IngestEventsParams{})
		require.NoError(t, err)

		assert.Equal(t, 1, result.Applied)
		assert.Equal(t, 2, result.Skipped)
		require.NotNil(t, result.Start)
		assert.Equal(t, domain.Position{BlockNumber: 2, LogIndex: 0}, *result.Start)
		require.Len(t, source.froms, 1)
		assert.Equal(t, result.Start, source.froms[0])

		assert.Equal(t, int64(3), f.governance(t).TotalSupply.Int64())
		cp, err := f.indexer.Checkpoint(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(3), cp.EventsProcessed)
	})

	t.Run("stops at the event limit", func(t *testing.T) {
		f := newFixture(t)
		logs := []domain.RawLog{rawLog(1, 0), rawLog(2, 0), rawLog(3, 0)}

		decoder := new(MockEventDecoder)
		for _, l := range logs {
			decoder.On("Decode", l).Return(transferFor(l, 1), nil).Maybe()
		}

		uc := usecase.NewIngestEvents(&sliceSource{logs: logs}, decoder, f.indexer, f.metrics, usecase.NopProgress{}, discardLogger())
		result, err := uc.Run(ctx, usecase.IngestEventsParams{MaxEvents: 2})
		require.NoError(t, err)
		assert.Equal(t, 2, result.Applied)
	})

	t.Run("halts on malformed events", func(t *testing.T) {
		f := newFixture(t)
		logs := []domain.RawLog{rawLog(1, 0), rawLog(2, 0)}

		decoder := new(MockEventDecoder)
		decoder.On("Decode", logs[0]).Return(nil, domain.MalformedParamErr{Event: "Transfer", Param: "value"})

		uc := usecase.NewIngestEvents(&sliceSource{logs: logs}, decoder, f.indexer, f.metrics, usecase.NopProgress{}, discardLogger())
		result, err := uc.Run(ctx, usecase.IngestEventsParams{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrMalformedEvent))
		assert.Equal(t, 0, result.Applied)
		assert.False(t, f.exists(models.EntityKindCheckpoint, models.CheckpointID))
	})
}
