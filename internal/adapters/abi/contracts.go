package abi

import (
	"bytes"
	"embed"
	"fmt"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
)

// Contract identifies which protocol contract emitted a log
type Contract string

const (
	ContractGovernor Contract = "governor"
	ContractToken    Contract = "token"
	ContractExecutor Contract = "executor"
)

// contractOrder is the lookup order for logs from unconfigured addresses
var contractOrder = []Contract{ContractGovernor, ContractToken, ContractExecutor}

//go:embed abis/*.json
var abiFiles embed.FS

// LoadABI parses the embedded event ABI of a protocol contract.
func LoadABI(c Contract) (*ethabi.ABI, error) {
	data, err := abiFiles.ReadFile("abis/" + string(c) + ".json")
	if err != nil {
		return nil, fmt.Errorf("no ABI for contract %q: %w", c, err)
	}
	parsed, err := ethabi.JSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s ABI: %w", c, err)
	}
	return &parsed, nil
}
