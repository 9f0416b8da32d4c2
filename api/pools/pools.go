// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"math/big"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/rewardmill/rewardmill/api/utils"
	"github.com/rewardmill/rewardmill/builtin"
	"github.com/rewardmill/rewardmill/builtin/rewards"
	"github.com/rewardmill/rewardmill/mill"
	"github.com/rewardmill/rewardmill/runtime"
)

type Pools struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Pools {
	return &Pools{rt}
}

func (p *Pools) handleGetPools(w http.ResponseWriter, req *http.Request) error {
	return utils.QueryAndWrite(w, p.rt, req, func(env *builtin.Env) (any, error) {
		infos, err := builtin.Rewards.WithEnv(env).Pools()
		if err != nil {
			return nil, err
		}
		out := make([]*Pool, 0, len(infos))
		for _, info := range infos {
			out = append(out, convertPool(info.PID, info.Pool))
		}
		return out, nil
	})
}

func (p *Pools) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	pid, err := utils.Uint64Var(req, "pid")
	if err != nil {
		return err
	}
	return utils.QueryAndWrite(w, p.rt, req, func(env *builtin.Env) (any, error) {
		pool, err := builtin.Rewards.WithEnv(env).PoolInfo(pid)
		if err != nil {
			return nil, err
		}
		return convertPool(pid, pool), nil
	})
}

func (p *Pools) handleGetUser(w http.ResponseWriter, req *http.Request) error {
	pid, err := utils.Uint64Var(req, "pid")
	if err != nil {
		return err
	}
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	return utils.QueryAndWrite(w, p.rt, req, func(env *builtin.Env) (any, error) {
		stake, err := builtin.Rewards.WithEnv(env).UserInfo(pid, addr)
		if err != nil {
			return nil, err
		}
		return &User{
			PID:        pid,
			Address:    addr,
			Amount:     utils.Hex(stake.Amount),
			RewardDebt: utils.Hex(stake.RewardDebt.Int()),
		}, nil
	})
}

func (p *Pools) handleGetPending(w http.ResponseWriter, req *http.Request) error {
	pid, err := utils.Uint64Var(req, "pid")
	if err != nil {
		return err
	}
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	return utils.QueryAndWrite(w, p.rt, req, func(env *builtin.Env) (any, error) {
		pending, err := builtin.Rewards.WithEnv(env).PendingReward(pid, addr)
		if err != nil {
			return nil, err
		}
		return &Pending{pid, addr, utils.Hex(pending)}, nil
	})
}

func (p *Pools) handleAddPool(w http.ResponseWriter, req *http.Request) error {
	var body AddPoolRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return utils.ExecuteAndWrite(w, p.rt, req, "addPool", func(env *builtin.Env, caller mill.Address) (any, error) {
		r := builtin.Rewards.WithEnv(env)
		pid, err := r.AddPool(caller, body.Asset, body.Points)
		if err != nil {
			return nil, err
		}
		pool, err := r.PoolInfo(pid)
		if err != nil {
			return nil, err
		}
		return convertPool(pid, pool), nil
	})
}

func (p *Pools) handleSetAllocation(w http.ResponseWriter, req *http.Request) error {
	pid, err := utils.Uint64Var(req, "pid")
	if err != nil {
		return err
	}
	var body AllocationRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return utils.ExecuteAndWrite(w, p.rt, req, "setAllocation", func(env *builtin.Env, caller mill.Address) (any, error) {
		return nil, builtin.Rewards.WithEnv(env).SetAllocation(caller, pid, body.Points)
	})
}

func (p *Pools) handleRemovePool(w http.ResponseWriter, req *http.Request) error {
	asset, err := utils.AddressVar(req, "asset")
	if err != nil {
		return err
	}
	return utils.ExecuteAndWrite(w, p.rt, req, "removePool", func(env *builtin.Env, caller mill.Address) (any, error) {
		return nil, builtin.Rewards.WithEnv(env).RemovePool(caller, asset)
	})
}

// stakeOp is a ledger operation of the caller on one pool, returning the reward paid.
type stakeOp func(r *rewards.Rewards, caller mill.Address, pid uint64, amount *big.Int) (*big.Int, error)

func (p *Pools) handleStake(method string, withAmount bool, op stakeOp) utils.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		pid, err := utils.Uint64Var(req, "pid")
		if err != nil {
			return err
		}
		var amount *big.Int
		if withAmount {
			var body AmountRequest
			if err := utils.ParseJSON(req.Body, &body); err != nil {
				return utils.BadRequest(errors.WithMessage(err, "body"))
			}
			if amount, err = utils.Amount(body.Amount, "amount"); err != nil {
				return err
			}
		}
		return utils.ExecuteAndWrite(w, p.rt, req, method, func(env *builtin.Env, caller mill.Address) (any, error) {
			out, err := op(builtin.Rewards.WithEnv(env), caller, pid, amount)
			if err != nil {
				return nil, err
			}
			return utils.M{"amount": utils.Hex(out)}, nil
		})
	}
}

func deposit(r *rewards.Rewards, caller mill.Address, pid uint64, amount *big.Int) (*big.Int, error) {
	return r.Deposit(caller, pid, amount)
}

func withdraw(r *rewards.Rewards, caller mill.Address, pid uint64, amount *big.Int) (*big.Int, error) {
	return r.Withdraw(caller, pid, amount)
}

func harvest(r *rewards.Rewards, caller mill.Address, pid uint64, _ *big.Int) (*big.Int, error) {
	return r.Harvest(caller, pid)
}

func emergencyWithdraw(r *rewards.Rewards, caller mill.Address, pid uint64, _ *big.Int) (*big.Int, error) {
	return r.EmergencyWithdraw(caller, pid)
}

func (p *Pools) handleUpdatePool(w http.ResponseWriter, req *http.Request) error {
	pid, err := utils.Uint64Var(req, "pid")
	if err != nil {
		return err
	}
	return utils.ExecuteAndWrite(w, p.rt, req, "updatePool", func(env *builtin.Env, _ mill.Address) (any, error) {
		pool, err := builtin.Rewards.WithEnv(env).UpdatePool(pid)
		if err != nil {
			return nil, err
		}
		return convertPool(pid, pool), nil
	})
}

func (p *Pools) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).Name("GET /pools").HandlerFunc(utils.WrapHandlerFunc(p.handleGetPools))
	sub.Path("").Methods(http.MethodPost).Name("POST /pools").HandlerFunc(utils.WrapHandlerFunc(p.handleAddPool))
	sub.Path("/assets/{asset}").Methods(http.MethodDelete).Name("DELETE /pools/assets/{asset}").HandlerFunc(utils.WrapHandlerFunc(p.handleRemovePool))
	sub.Path("/{pid:[0-9]+}").Methods(http.MethodGet).Name("GET /pools/{pid}").HandlerFunc(utils.WrapHandlerFunc(p.handleGetPool))
	sub.Path("/{pid:[0-9]+}").Methods(http.MethodPut).Name("PUT /pools/{pid}").HandlerFunc(utils.WrapHandlerFunc(p.handleSetAllocation))
	sub.Path("/{pid:[0-9]+}/update").Methods(http.MethodPost).Name("POST /pools/{pid}/update").HandlerFunc(utils.WrapHandlerFunc(p.handleUpdatePool))
	sub.Path("/{pid:[0-9]+}/users/{address}").Methods(http.MethodGet).Name("GET /pools/{pid}/users/{address}").HandlerFunc(utils.WrapHandlerFunc(p.handleGetUser))
	sub.Path("/{pid:[0-9]+}/users/{address}/pending").Methods(http.MethodGet).Name("GET /pools/{pid}/users/{address}/pending").HandlerFunc(utils.WrapHandlerFunc(p.handleGetPending))

	sub.Path("/{pid:[0-9]+}/deposit").Methods(http.MethodPost).Name("POST /pools/{pid}/deposit").
		HandlerFunc(utils.WrapHandlerFunc(p.handleStake("deposit", true, deposit)))
	sub.Path("/{pid:[0-9]+}/withdraw").Methods(http.MethodPost).Name("POST /pools/{pid}/withdraw").
		HandlerFunc(utils.WrapHandlerFunc(p.handleStake("withdraw", true, withdraw)))
	sub.Path("/{pid:[0-9]+}/harvest").Methods(http.MethodPost).Name("POST /pools/{pid}/harvest").
		HandlerFunc(utils.WrapHandlerFunc(p.handleStake("harvest", false, harvest)))
	sub.Path("/{pid:[0-9]+}/emergency-withdraw").Methods(http.MethodPost).Name("POST /pools/{pid}/emergency-withdraw").
		HandlerFunc(utils.WrapHandlerFunc(p.handleStake("emergencyWithdraw", false, emergencyWithdraw)))
}
