// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fixedpoint

import (
	"encoding/json"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
)

// Signed is an immutable signed quantity that survives rlp encoding.
// The zero value is zero.
type Signed struct {
	v *big.Int
}

type signedRLP struct {
	Negative bool
	Abs      *big.Int
}

// NewSigned copies x into a Signed.
func NewSigned(x *big.Int) Signed {
	if x == nil || x.Sign() == 0 {
		return Signed{}
	}
	return Signed{v: new(big.Int).Set(x)}
}

// Int returns a copy of the value.
func (s Signed) Int() *big.Int {
	if s.v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(s.v)
}

func (s Signed) Sign() int {
	if s.v == nil {
		return 0
	}
	return s.v.Sign()
}

// Add returns s + x.
func (s Signed) Add(x *big.Int) Signed {
	return NewSigned(new(big.Int).Add(s.Int(), x))
}

// Sub returns s - x.
func (s Signed) Sub(x *big.Int) Signed {
	return NewSigned(new(big.Int).Sub(s.Int(), x))
}

// SubFrom returns x - s.
func (s Signed) SubFrom(x *big.Int) *big.Int {
	return new(big.Int).Sub(x, s.Int())
}

func (s Signed) String() string {
	return s.Int().String()
}

// EncodeRLP implements rlp.Encoder.
func (s Signed) EncodeRLP(w io.Writer) error {
	v := s.Int()
	return rlp.Encode(w, &signedRLP{
		Negative: v.Sign() < 0,
		Abs:      new(big.Int).Abs(v),
	})
}

// DecodeRLP implements rlp.Decoder.
func (s *Signed) DecodeRLP(stream *rlp.Stream) error {
	var dec signedRLP
	if err := stream.Decode(&dec); err != nil {
		return err
	}
	if dec.Negative {
		dec.Abs.Neg(dec.Abs)
	}
	*s = NewSigned(dec.Abs)
	return nil
}

// MarshalJSON renders the value as a decimal string.
func (s Signed) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses a decimal string.
func (s *Signed) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	v, ok := new(big.Int).SetString(str, 10)
	if !ok {
		return ErrInvalidInteger
	}
	*s = NewSigned(v)
	return nil
}
