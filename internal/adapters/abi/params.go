package abi

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govindex/internal/domain"
)

// params reads typed values out of a decoded parameter map. The first
// missing or mistyped parameter is kept in err and later reads return zero
// values.
type params struct {
	event  string
	values map[string]any
	err    error
}

func get[T any](p *params, name string) T {
	var zero T
	if p.err != nil {
		return zero
	}
	raw, ok := p.values[name]
	if !ok {
		p.err = domain.MalformedParamErr{Event: p.event, Param: name}
		return zero
	}
	v, ok := raw.(T)
	if !ok {
		p.err = domain.MalformedParamErr{Event: p.event, Param: name, Got: raw}
		return zero
	}
	return v
}

func (p *params) bigInt(name string) *big.Int            { return get[*big.Int](p, name) }
func (p *params) address(name string) common.Address     { return get[common.Address](p, name) }
func (p *params) small(name string) uint8                { return get[uint8](p, name) }
func (p *params) flag(name string) bool                  { return get[bool](p, name) }
func (p *params) data(name string) []byte                { return get[[]byte](p, name) }
func (p *params) text(name string) string                { return get[string](p, name) }
func (p *params) addresses(name string) []common.Address { return get[[]common.Address](p, name) }
func (p *params) bigInts(name string) []*big.Int         { return get[[]*big.Int](p, name) }
func (p *params) dataList(name string) [][]byte          { return get[[][]byte](p, name) }
func (p *params) textList(name string) []string          { return get[[]string](p, name) }

func (p *params) hash(name string) common.Hash {
	return common.Hash(get[[32]byte](p, name))
}
