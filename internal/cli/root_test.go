package cli

import (
	"bytes"
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/govindex/internal/adapters/replay"
	"github.com/trebuchet-org/govindex/internal/domain"
	"github.com/trebuchet-org/govindex/internal/domain/models"
	"github.com/trebuchet-org/govindex/internal/usecase"
)

const tokenAddress = "0x00000000000000000000000000000000000000a2"

var transferTopic = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

func mintLog(block uint64, index uint, to common.Address, amount int64) domain.RawLog {
	return domain.RawLog{
		Log: types.Log{
			Address: common.HexToAddress(tokenAddress),
			Topics: []common.Hash{
				transferTopic,
				{},
				common.BytesToHash(to.Bytes()),
			},
			Data:        common.LeftPadBytes(big.NewInt(amount).Bytes(), 32),
			BlockNumber: block,
			TxHash:      common.BigToHash(big.NewInt(int64(block))),
			Index:       index,
		},
		Timestamp: 1_700_000_000 + block*12,
	}
}

// setupProject writes a project using the file store and a replay file of
// two mints.
func setupProject(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()

	project := "[contracts]\ntoken = \"" + tokenAddress + "\"\n\n[store]\nbackend = \"fs\"\npath = \"store\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "govindex.toml"), []byte(project), 0644))

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	require.NoError(t, enc.Encode(replay.NewRecord(mintLog(10, 0, common.HexToAddress("0xa11c"), 600))))
	require.NoError(t, enc.Encode(replay.NewRecord(mintLog(11, 3, common.HexToAddress("0xb0b"), 400))))
	logs := filepath.Join(dir, "logs.jsonl")
	require.NoError(t, os.WriteFile(logs, buf.Bytes(), 0644))

	t.Setenv("GOVINDEX_PROJECT_ROOT", dir)
	return dir, logs
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestIngestAndQuery(t *testing.T) {
	dir, logs := setupProject(t)

	out, err := execute(t, "ingest", "--from-file", logs, "--json", "--non-interactive")
	require.NoError(t, err)
	var result usecase.IngestEventsResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 2, result.Applied)
	assert.Equal(t, &domain.Position{BlockNumber: 11, LogIndex: 3}, result.Last)

	assert.DirExists(t, filepath.Join(dir, "store", string(models.EntityKindMember)))

	t.Run("rerun resumes after the checkpoint", func(t *testing.T) {
		out, err := execute(t, "ingest", "--from-file", logs, "--json", "--non-interactive")
		require.NoError(t, err)
		var again usecase.IngestEventsResult
		require.NoError(t, json.Unmarshal([]byte(out), &again))
		assert.Equal(t, 0, again.Applied)
		assert.Equal(t, 1, again.Skipped)
	})

	t.Run("governance", func(t *testing.T) {
		out, err := execute(t, "governance", "--json", "--non-interactive")
		require.NoError(t, err)
		var overview usecase.GovernanceOverview
		require.NoError(t, json.Unmarshal([]byte(out), &overview))
		assert.Equal(t, "1000", overview.Data.TotalSupply.String())
		assert.Equal(t, 2, overview.Counts[models.EntityKindMember])
		require.NotNil(t, overview.Checkpoint)
		assert.Equal(t, uint64(2), overview.Checkpoint.EventsProcessed)
	})

	t.Run("delegate", func(t *testing.T) {
		out, err := execute(t, "delegate", "0x000000000000000000000000000000000000a11c", "--non-interactive")
		require.NoError(t, err)
		assert.Contains(t, out, "Token balance:")
		assert.Contains(t, out, "600")
		assert.Contains(t, out, "never granted")
	})

	t.Run("delegate rejects a bad address", func(t *testing.T) {
		_, err := execute(t, "delegate", "0x1234", "--non-interactive")
		assert.ErrorIs(t, err, domain.ErrInvalidAddress)
	})

	t.Run("proposals list is empty", func(t *testing.T) {
		out, err := execute(t, "proposals", "list", "--non-interactive")
		require.NoError(t, err)
		assert.Contains(t, out, "No proposals found")
	})

	t.Run("reset", func(t *testing.T) {
		out, err := execute(t, "reset", "--dry-run", "--non-interactive")
		require.NoError(t, err)
		assert.Contains(t, out, "Found 4 entities to delete")

		_, err = execute(t, "reset", "--non-interactive")
		assert.ErrorContains(t, err, "--yes")

		out, err = execute(t, "reset", "--yes", "--non-interactive")
		require.NoError(t, err)
		assert.Contains(t, out, "Deleted 4 entities")

		out, err = execute(t, "reset", "--yes", "--non-interactive")
		require.NoError(t, err)
		assert.Contains(t, out, "Nothing to reset")
	})
}

func TestIngestRecordsLogs(t *testing.T) {
	dir, logs := setupProject(t)
	recorded := filepath.Join(dir, "copy.jsonl")

	_, err := execute(t, "ingest", "--store", "memory", "--from-file", logs, "--record", recorded, "--non-interactive")
	require.NoError(t, err)

	original, err := os.ReadFile(logs)
	require.NoError(t, err)
	copied, err := os.ReadFile(recorded)
	require.NoError(t, err)
	assert.JSONEq(t, firstLine(t, original), firstLine(t, copied))
	assert.Equal(t, bytes.Count(original, []byte("\n")), bytes.Count(copied, []byte("\n")))
}

func firstLine(t *testing.T, b []byte) string {
	t.Helper()
	line, _, ok := bytes.Cut(b, []byte("\n"))
	require.True(t, ok)
	return string(line)
}

func TestIngestRequiresASource(t *testing.T) {
	setupProject(t)
	t.Setenv("GOVINDEX_RPC_URL", "")

	_, err := execute(t, "ingest", "--non-interactive")
	assert.ErrorContains(t, err, "no RPC URL configured")
}

func TestVersionSkipsApp(t *testing.T) {
	t.Setenv("GOVINDEX_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "govindex version")
}

func TestParseProposalState(t *testing.T) {
	tests := []struct {
		input    string
		expected models.ProposalState
		wantErr  bool
	}{
		{"", "", false},
		{"active", models.ProposalStateActive, false},
		{"EXECUTED", models.ProposalStateExecuted, false},
		{"Canceled", models.ProposalStateCanceled, false},
		{"defeated", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			state, err := parseProposalState(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, state)
		})
	}
}
