// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"gopkg.in/yaml.v3"
)

// Amount is a 256-bit integer written as hex or decimal.
type Amount math.HexOrDecimal256

// NewAmount parses s, panicking on malformed input.
func NewAmount(s string) *Amount {
	v, ok := math.ParseBig256(s)
	if !ok {
		panic(fmt.Sprintf("invalid amount %q", s))
	}
	return (*Amount)(v)
}

// Int returns a copy of the value, zero for a nil amount.
func (a *Amount) Int() *big.Int {
	if a == nil {
		return new(big.Int)
	}
	return new(big.Int).Set((*big.Int)(a))
}

// UnmarshalYAML implements yaml.Unmarshaler. Plain integers and quoted strings are both accepted.
func (a *Amount) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: amount must be a scalar", value.Line)
	}
	v, ok := math.ParseBig256(value.Value)
	if !ok {
		return fmt.Errorf("line %d: invalid hex or decimal integer %q", value.Line, value.Value)
	}
	*a = Amount(*v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (a Amount) MarshalYAML() (any, error) {
	return (*big.Int)(&a).String(), nil
}
