// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/rewardmill/rewardmill/mill"
)

// CallerHeader carries the address a write is made on behalf of.
const CallerHeader = "X-Caller"

// ParseCaller reads the caller address of a write request.
func ParseCaller(req *http.Request) (mill.Address, error) {
	s := req.Header.Get(CallerHeader)
	if s == "" {
		return mill.Address{}, BadRequest(errors.New("missing " + CallerHeader + " header"))
	}
	addr, err := mill.ParseAddress(s)
	if err != nil {
		return mill.Address{}, BadRequest(errors.WithMessage(err, "caller"))
	}
	return *addr, nil
}

// AddressVar parses the named path variable as an address.
func AddressVar(req *http.Request, name string) (mill.Address, error) {
	addr, err := mill.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return mill.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return *addr, nil
}

// Uint64Var parses the named path variable as an unsigned integer.
func Uint64Var(req *http.Request, name string) (uint64, error) {
	n, err := strconv.ParseUint(mux.Vars(req)[name], 10, 64)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	return n, nil
}

// Uint64Query parses an optional query parameter, returning def when absent.
func Uint64Query(req *http.Request, name string, def uint64) (uint64, error) {
	s := req.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	return n, nil
}

// Amount returns the value of a request amount, rejecting absent and negative values.
func Amount(v *math.HexOrDecimal256, name string) (*big.Int, error) {
	if v == nil {
		return nil, BadRequest(errors.New(name + ": required"))
	}
	x := (*big.Int)(v)
	if x.Sign() < 0 {
		return nil, BadRequest(errors.New(name + ": must not be negative"))
	}
	return new(big.Int).Set(x), nil
}

// Hex wraps x for JSON output.
func Hex(x *big.Int) *math.HexOrDecimal256 {
	if x == nil {
		x = new(big.Int)
	}
	return (*math.HexOrDecimal256)(x)
}

// Int converts a validated request amount.
func Int(v *math.HexOrDecimal256) *big.Int {
	return new(big.Int).Set((*big.Int)(v))
}
