package replay

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/govindex/internal/domain"
	"github.com/trebuchet-org/govindex/internal/usecase"
	"gopkg.in/yaml.v3"
)

// Record is one log with its provenance as stored in a replay file
type Record struct {
	Address         string   `json:"address" yaml:"address"`
	Topics          []string `json:"topics" yaml:"topics"`
	Data            string   `json:"data,omitempty" yaml:"data,omitempty"`
	BlockNumber     uint64   `json:"blockNumber" yaml:"blockNumber"`
	BlockTimestamp  uint64   `json:"blockTimestamp" yaml:"blockTimestamp"`
	TransactionHash string   `json:"transactionHash,omitempty" yaml:"transactionHash,omitempty"`
	LogIndex        uint     `json:"logIndex" yaml:"logIndex"`
}

// NewRecord converts a raw log into its replay form
func NewRecord(raw domain.RawLog) Record {
	topics := make([]string, len(raw.Log.Topics))
	for i, t := range raw.Log.Topics {
		topics[i] = t.Hex()
	}
	return Record{
		Address:         raw.Log.Address.Hex(),
		Topics:          topics,
		Data:            hexutil.Encode(raw.Log.Data),
		BlockNumber:     raw.Log.BlockNumber,
		BlockTimestamp:  raw.Timestamp,
		TransactionHash: raw.Log.TxHash.Hex(),
		LogIndex:        raw.Log.Index,
	}
}

// RawLog parses the record back into a raw log
func (r Record) RawLog() (domain.RawLog, error) {
	if !common.IsHexAddress(r.Address) {
		return domain.RawLog{}, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, r.Address)
	}

	topics := make([]common.Hash, len(r.Topics))
	for i, t := range r.Topics {
		b, err := hexutil.Decode(t)
		if err != nil || len(b) != common.HashLength {
			return domain.RawLog{}, fmt.Errorf("invalid topic %q", t)
		}
		topics[i] = common.BytesToHash(b)
	}

	var data []byte
	if r.Data != "" {
		var err error
		if data, err = hexutil.Decode(r.Data); err != nil {
			return domain.RawLog{}, fmt.Errorf("invalid data: %w", err)
		}
	}

	return domain.RawLog{
		Log: types.Log{
			Address:     common.HexToAddress(r.Address),
			Topics:      topics,
			Data:        data,
			BlockNumber: r.BlockNumber,
			TxHash:      common.HexToHash(r.TransactionHash),
			Index:       r.LogIndex,
		},
		Timestamp: r.BlockTimestamp,
	}, nil
}

// LogFile replays logs from a JSON Lines file or a YAML stream with one
// document per log. The format is chosen by extension.
type LogFile struct {
	path string
}

// NewLogFile creates a replay source for path
func NewLogFile(path string) *LogFile {
	return &LogFile{path: path}
}

// Stream implements usecase.LogSource. Records are delivered in chain
// order regardless of their order in the file.
func (f *LogFile) Stream(ctx context.Context, from *domain.Position, handle func(domain.RawLog) error) error {
	records, err := f.read()
	if err != nil {
		return err
	}

	logs := make([]domain.RawLog, 0, len(records))
	for i, r := range records {
		raw, err := r.RawLog()
		if err != nil {
			return fmt.Errorf("%s: record %d: %w", f.path, i+1, err)
		}
		logs = append(logs, raw)
	}
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[j].Position().After(logs[i].Position())
	})

	for _, raw := range logs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if from != nil && raw.Position().BlockNumber < from.BlockNumber {
			continue
		}
		if err := handle(raw); err != nil {
			return err
		}
	}
	return nil
}

func (f *LogFile) read() ([]Record, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read replay file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(f.path)) {
	case ".yaml", ".yml":
		return decodeYAML(data)
	default:
		return decodeJSONLines(data)
	}
}

func decodeJSONLines(data []byte) ([]Record, error) {
	var records []Record
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		var r Record
		if err := json.Unmarshal(text, &r); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func decodeYAML(data []byte) ([]Record, error) {
	var records []Record
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var r Record
		err := dec.Decode(&r)
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", len(records)+1, err)
		}
		records = append(records, r)
	}
}

// Ensure LogFile implements usecase.LogSource
var _ usecase.LogSource = (*LogFile)(nil)
