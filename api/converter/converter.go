// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package converter

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/rewardmill/rewardmill/api/utils"
	"github.com/rewardmill/rewardmill/builtin"
	"github.com/rewardmill/rewardmill/builtin/converter"
	"github.com/rewardmill/rewardmill/mill"
	"github.com/rewardmill/rewardmill/runtime"
)

type Bridge struct {
	Token  mill.Address   `json:"token"`
	Bridge mill.Address   `json:"bridge"`
	Route  []mill.Address `json:"route,omitempty"`
}

type BridgeRequest struct {
	Bridge mill.Address `json:"bridge"`
}

type Pair struct {
	Token0 mill.Address `json:"token0"`
	Token1 mill.Address `json:"token1"`
}

type ConvertMultipleRequest struct {
	Pairs []Pair `json:"pairs"`
}

type Converter struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Converter {
	return &Converter{rt}
}

func (c *Converter) handleGetBridge(w http.ResponseWriter, req *http.Request) error {
	token, err := utils.AddressVar(req, "token")
	if err != nil {
		return err
	}
	return utils.QueryAndWrite(w, c.rt, req, func(env *builtin.Env) (any, error) {
		conv := builtin.Converter.WithEnv(env)
		bridge, err := conv.BridgeFor(token)
		if err != nil {
			return nil, err
		}
		out := &Bridge{Token: token, Bridge: bridge}
		// an unroutable token still reports its bridge
		if route, err := conv.Route(token); err == nil {
			out.Route = route
		}
		return out, nil
	})
}

func (c *Converter) handleSetBridge(w http.ResponseWriter, req *http.Request) error {
	token, err := utils.AddressVar(req, "token")
	if err != nil {
		return err
	}
	var body BridgeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return utils.ExecuteAndWrite(w, c.rt, req, "setBridge", func(env *builtin.Env, caller mill.Address) (any, error) {
		return nil, builtin.Converter.WithEnv(env).SetBridge(caller, token, body.Bridge)
	})
}

func (c *Converter) handleConvert(w http.ResponseWriter, req *http.Request) error {
	var body Pair
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return utils.ExecuteAndWrite(w, c.rt, req, "convert", func(env *builtin.Env, caller mill.Address) (any, error) {
		out, err := builtin.Converter.WithEnv(env).Convert(caller, body.Token0, body.Token1)
		if err != nil {
			return nil, err
		}
		return utils.M{"amount": utils.Hex(out)}, nil
	})
}

func (c *Converter) handleConvertMultiple(w http.ResponseWriter, req *http.Request) error {
	var body ConvertMultipleRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if len(body.Pairs) == 0 {
		return utils.BadRequest(errors.New("pairs: empty"))
	}
	pairs := make([]converter.Pair, 0, len(body.Pairs))
	for _, p := range body.Pairs {
		pairs = append(pairs, converter.Pair{Token0: p.Token0, Token1: p.Token1})
	}
	return utils.ExecuteAndWrite(w, c.rt, req, "convertMultiple", func(env *builtin.Env, caller mill.Address) (any, error) {
		out, err := builtin.Converter.WithEnv(env).ConvertMultiple(caller, pairs)
		if err != nil {
			return nil, err
		}
		return utils.M{"amount": utils.Hex(out)}, nil
	})
}

func (c *Converter) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/bridges/{token}").Methods(http.MethodGet).Name("GET /converter/bridges/{token}").HandlerFunc(utils.WrapHandlerFunc(c.handleGetBridge))
	sub.Path("/bridges/{token}").Methods(http.MethodPut).Name("PUT /converter/bridges/{token}").HandlerFunc(utils.WrapHandlerFunc(c.handleSetBridge))
	sub.Path("/convert").Methods(http.MethodPost).Name("POST /converter/convert").HandlerFunc(utils.WrapHandlerFunc(c.handleConvert))
	sub.Path("/convert-multiple").Methods(http.MethodPost).Name("POST /converter/convert-multiple").HandlerFunc(utils.WrapHandlerFunc(c.handleConvertMultiple))
}
