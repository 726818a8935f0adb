package domain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// IDLength is the width of an encoded numeric identifier.
const IDLength = common.HashLength

// EncodeID formats a non-negative integer as a 32 byte big-endian key.
// Integers wider than 32 bytes keep their low-order 32 bytes.
func EncodeID(n *big.Int) common.Hash {
	if n == nil {
		return common.Hash{}
	}
	return common.BigToHash(n)
}

// DecodeID converts an encoded 32 byte key back into its integer value.
func DecodeID(b []byte) (*big.Int, error) {
	if len(b) != IDLength {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidIDLength, len(b), IDLength)
	}
	return new(big.Int).SetBytes(b), nil
}

// ParseID parses a decimal or 0x-prefixed hex proposal identifier as typed by a user.
func ParseID(s string) (common.Hash, error) {
	n, ok := new(big.Int).SetString(s, 0)
	if !ok || n.Sign() < 0 {
		return common.Hash{}, fmt.Errorf("invalid identifier %q", s)
	}
	if n.BitLen() > IDLength*8 {
		return common.Hash{}, fmt.Errorf("%w: %q does not fit in %d bytes", ErrInvalidIDLength, s, IDLength)
	}
	return EncodeID(n), nil
}

// LogID builds the identifier of a per-log entity: transaction hash followed by the
// big-endian 4 byte log index.
func LogID(txHash common.Hash, logIndex uint) []byte {
	id := make([]byte, 0, common.HashLength+4)
	id = append(id, txHash.Bytes()...)
	return append(id, byte(logIndex>>24), byte(logIndex>>16), byte(logIndex>>8), byte(logIndex))
}
