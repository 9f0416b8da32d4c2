// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package manager

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/rewardmill/rewardmill/api/utils"
	"github.com/rewardmill/rewardmill/builtin"
	"github.com/rewardmill/rewardmill/builtin/manager"
	"github.com/rewardmill/rewardmill/mill"
	"github.com/rewardmill/rewardmill/runtime"
)

type Summary struct {
	Address       mill.Address          `json:"address"`
	RewardToken   mill.Address          `json:"rewardToken"`
	Rewards       mill.Address          `json:"rewards"`
	Vault         mill.Address          `json:"vault"`
	VestingRatio  uint64                `json:"vestingRatioBps"`
	TotalReleased *math.HexOrDecimal256 `json:"totalReleased"`
	LastRelease   uint64                `json:"lastRelease"`
}

type ReleaseRequest struct {
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type Release struct {
	Vested      *math.HexOrDecimal256 `json:"vested"`
	Operational *math.HexOrDecimal256 `json:"operational"`
	Shares      *math.HexOrDecimal256 `json:"shares"`
}

// UpdateRequest changes any of the manager settings. Absent fields are left alone.
type UpdateRequest struct {
	VestingRatio *uint64       `json:"vestingRatioBps"`
	Rewards      *mill.Address `json:"rewards"`
	Vault        *mill.Address `json:"vault"`
}

func summarize(m *manager.Manager) (*Summary, error) {
	out := &Summary{Address: m.Address()}
	var err error
	if out.RewardToken, err = m.RewardToken(); err != nil {
		return nil, err
	}
	if out.Rewards, err = m.RewardsContract(); err != nil {
		return nil, err
	}
	if out.Vault, err = m.Vault(); err != nil {
		return nil, err
	}
	if out.VestingRatio, err = m.VestingRatio(); err != nil {
		return nil, err
	}
	released, err := m.TotalReleased()
	if err != nil {
		return nil, err
	}
	out.TotalReleased = utils.Hex(released)
	if out.LastRelease, err = m.LastRelease(); err != nil {
		return nil, err
	}
	return out, nil
}

type Manager struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Manager {
	return &Manager{rt}
}

func (m *Manager) handleGetManager(w http.ResponseWriter, req *http.Request) error {
	return utils.QueryAndWrite(w, m.rt, req, func(env *builtin.Env) (any, error) {
		return summarize(builtin.Manager.WithEnv(env))
	})
}

func (m *Manager) handleRelease(w http.ResponseWriter, req *http.Request) error {
	var body ReleaseRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := utils.Amount(body.Amount, "amount")
	if err != nil {
		return err
	}
	return utils.ExecuteAndWrite(w, m.rt, req, "releaseEpochRewards", func(env *builtin.Env, caller mill.Address) (any, error) {
		rel, err := builtin.Manager.WithEnv(env).ReleaseEpochRewards(caller, amount)
		if err != nil {
			return nil, err
		}
		return &Release{utils.Hex(rel.Vested), utils.Hex(rel.Operational), utils.Hex(rel.Shares)}, nil
	})
}

func (m *Manager) handleUpdate(w http.ResponseWriter, req *http.Request) error {
	var body UpdateRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return utils.ExecuteAndWrite(w, m.rt, req, "updateManager", func(env *builtin.Env, caller mill.Address) (any, error) {
		mgr := builtin.Manager.WithEnv(env)
		if body.Rewards != nil {
			if err := mgr.SetRewardsContract(caller, *body.Rewards); err != nil {
				return nil, err
			}
		}
		if body.Vault != nil {
			if err := mgr.SetVault(caller, *body.Vault); err != nil {
				return nil, err
			}
		}
		if body.VestingRatio != nil {
			if err := mgr.SetVestingRatio(caller, *body.VestingRatio); err != nil {
				return nil, err
			}
		}
		return summarize(mgr)
	})
}

func (m *Manager) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).Name("GET /manager").HandlerFunc(utils.WrapHandlerFunc(m.handleGetManager))
	sub.Path("").Methods(http.MethodPut).Name("PUT /manager").HandlerFunc(utils.WrapHandlerFunc(m.handleUpdate))
	sub.Path("/release").Methods(http.MethodPost).Name("POST /manager/release").HandlerFunc(utils.WrapHandlerFunc(m.handleRelease))
}
