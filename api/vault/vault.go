// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/rewardmill/rewardmill/api/utils"
	"github.com/rewardmill/rewardmill/builtin"
	"github.com/rewardmill/rewardmill/builtin/vault"
	"github.com/rewardmill/rewardmill/mill"
	"github.com/rewardmill/rewardmill/runtime"
)

type Sample struct {
	Time  uint64                `json:"time"`
	Price *math.HexOrDecimal256 `json:"price"`
}

type Summary struct {
	Address          mill.Address          `json:"address"`
	Underlying       mill.Address          `json:"underlying"`
	TotalShares      *math.HexOrDecimal256 `json:"totalShares"`
	TotalUnderlying  *math.HexOrDecimal256 `json:"totalUnderlying"`
	Price            *math.HexOrDecimal256 `json:"price"`
	APY              uint64                `json:"apyBps"`
	SamplingInterval uint64                `json:"samplingInterval"`
	GenesisTimestamp uint64                `json:"genesisTimestamp"`
	Previous         *Sample               `json:"previous,omitempty"`
	Last             *Sample               `json:"last,omitempty"`
}

type AmountRequest struct {
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type IntervalRequest struct {
	Interval uint64 `json:"interval"`
}

func convertSample(s vault.Sample) *Sample {
	if s.Price == nil {
		return nil
	}
	return &Sample{s.Time, utils.Hex(s.Price)}
}

func summarize(v *vault.Vault) (*Summary, error) {
	out := &Summary{Address: v.Address()}
	var err error
	if out.Underlying, err = v.Underlying(); err != nil {
		return nil, err
	}
	totalShares, err := v.TotalShares()
	if err != nil {
		return nil, err
	}
	totalUnderlying, err := v.TotalUnderlying()
	if err != nil {
		return nil, err
	}
	price, err := v.Price()
	if err != nil {
		return nil, err
	}
	out.TotalShares, out.TotalUnderlying, out.Price = utils.Hex(totalShares), utils.Hex(totalUnderlying), utils.Hex(price)
	if out.APY, err = v.EstimateAPY(); err != nil {
		return nil, err
	}
	if out.SamplingInterval, err = v.SamplingInterval(); err != nil {
		return nil, err
	}
	if out.GenesisTimestamp, err = v.GenesisTimestamp(); err != nil {
		return nil, err
	}
	previous, last, err := v.Samples()
	if err != nil {
		return nil, err
	}
	out.Previous, out.Last = convertSample(previous), convertSample(last)
	return out, nil
}

type Vault struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Vault {
	return &Vault{rt}
}

func (v *Vault) handleGetVault(w http.ResponseWriter, req *http.Request) error {
	return utils.QueryAndWrite(w, v.rt, req, func(env *builtin.Env) (any, error) {
		return summarize(builtin.Vault.WithEnv(env))
	})
}

func (v *Vault) handleGetShares(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	return utils.QueryAndWrite(w, v.rt, req, func(env *builtin.Env) (any, error) {
		shares, err := builtin.Vault.WithEnv(env).SharesOf(addr)
		if err != nil {
			return nil, err
		}
		return utils.M{"address": addr, "shares": utils.Hex(shares)}, nil
	})
}

func parseAmount(req *http.Request) (*math.HexOrDecimal256, error) {
	var body AmountRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if _, err := utils.Amount(body.Amount, "amount"); err != nil {
		return nil, err
	}
	return body.Amount, nil
}

func (v *Vault) handleEnter(w http.ResponseWriter, req *http.Request) error {
	amount, err := parseAmount(req)
	if err != nil {
		return err
	}
	return utils.ExecuteAndWrite(w, v.rt, req, "enter", func(env *builtin.Env, caller mill.Address) (any, error) {
		shares, err := builtin.Vault.WithEnv(env).Enter(caller, utils.Int(amount))
		if err != nil {
			return nil, err
		}
		return utils.M{"shares": utils.Hex(shares)}, nil
	})
}

func (v *Vault) handleLeave(w http.ResponseWriter, req *http.Request) error {
	shares, err := parseAmount(req)
	if err != nil {
		return err
	}
	return utils.ExecuteAndWrite(w, v.rt, req, "leave", func(env *builtin.Env, caller mill.Address) (any, error) {
		amount, err := builtin.Vault.WithEnv(env).Leave(caller, utils.Int(shares))
		if err != nil {
			return nil, err
		}
		return utils.M{"amount": utils.Hex(amount)}, nil
	})
}

func (v *Vault) handleUpdatePrice(w http.ResponseWriter, req *http.Request) error {
	return utils.ExecuteAndWrite(w, v.rt, req, "updatePrice", func(env *builtin.Env, _ mill.Address) (any, error) {
		price, err := builtin.Vault.WithEnv(env).UpdatePrice()
		if err != nil {
			return nil, err
		}
		return utils.M{"price": utils.Hex(price)}, nil
	})
}

func (v *Vault) handleSetInterval(w http.ResponseWriter, req *http.Request) error {
	var body IntervalRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return utils.ExecuteAndWrite(w, v.rt, req, "setSamplingInterval", func(env *builtin.Env, caller mill.Address) (any, error) {
		return nil, builtin.Vault.WithEnv(env).SetSamplingInterval(caller, body.Interval)
	})
}

func (v *Vault) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).Name("GET /vault").HandlerFunc(utils.WrapHandlerFunc(v.handleGetVault))
	sub.Path("/shares/{address}").Methods(http.MethodGet).Name("GET /vault/shares/{address}").HandlerFunc(utils.WrapHandlerFunc(v.handleGetShares))
	sub.Path("/enter").Methods(http.MethodPost).Name("POST /vault/enter").HandlerFunc(utils.WrapHandlerFunc(v.handleEnter))
	sub.Path("/leave").Methods(http.MethodPost).Name("POST /vault/leave").HandlerFunc(utils.WrapHandlerFunc(v.handleLeave))
	sub.Path("/update-price").Methods(http.MethodPost).Name("POST /vault/update-price").HandlerFunc(utils.WrapHandlerFunc(v.handleUpdatePrice))
	sub.Path("/sampling-interval").Methods(http.MethodPut).Name("PUT /vault/sampling-interval").HandlerFunc(utils.WrapHandlerFunc(v.handleSetInterval))
}
