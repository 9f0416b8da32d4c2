// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/rewardmill/rewardmill/api/utils"
	"github.com/rewardmill/rewardmill/builtin"
	"github.com/rewardmill/rewardmill/mill"
)

// handleGetEmission reports the total emission over [from, to). Both default to now.
func (p *Pools) handleGetEmission(w http.ResponseWriter, req *http.Request) error {
	now := p.rt.Now()
	from, err := utils.Uint64Query(req, "from", now)
	if err != nil {
		return err
	}
	to, err := utils.Uint64Query(req, "to", now)
	if err != nil {
		return err
	}
	if to < from {
		return utils.BadRequest(errors.New("to must not be before from"))
	}
	return utils.QueryAndWrite(w, p.rt, req, func(env *builtin.Env) (any, error) {
		cfg, err := builtin.Rewards.WithEnv(env).EmissionConfig()
		if err != nil {
			return nil, err
		}
		sched, err := cfg.Schedule()
		if err != nil {
			return nil, err
		}
		amount, err := sched.CalcReward(from, to)
		if err != nil {
			return nil, err
		}
		return &Emission{cfg.Mode.String(), from, to, utils.Hex(amount)}, nil
	})
}

func (p *Pools) handleSetRate(w http.ResponseWriter, req *http.Request) error {
	var body RateRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	rate, err := utils.Amount(body.Rate, "rate")
	if err != nil {
		return err
	}
	return utils.ExecuteAndWrite(w, p.rt, req, "setEmissionRate", func(env *builtin.Env, caller mill.Address) (any, error) {
		return nil, builtin.Rewards.WithEnv(env).SetEmissionRate(caller, rate)
	})
}

// MountEmission mounts the emission schedule endpoints.
func (p *Pools) MountEmission(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).Name("GET /emission").HandlerFunc(utils.WrapHandlerFunc(p.handleGetEmission))
	sub.Path("/rate").Methods(http.MethodPut).Name("PUT /emission/rate").HandlerFunc(utils.WrapHandlerFunc(p.handleSetRate))
}
