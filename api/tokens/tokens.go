// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/rewardmill/rewardmill/api/utils"
	"github.com/rewardmill/rewardmill/builtin"
	"github.com/rewardmill/rewardmill/mill"
	"github.com/rewardmill/rewardmill/runtime"
)

type Token struct {
	Address     mill.Address          `json:"address"`
	Symbol      string                `json:"symbol"`
	TotalSupply *math.HexOrDecimal256 `json:"totalSupply"`
}

type Balance struct {
	Token   mill.Address          `json:"token"`
	Account mill.Address          `json:"account"`
	Balance *math.HexOrDecimal256 `json:"balance"`
}

// MoveRequest is the body of approve (To is the spender) and transfer.
type MoveRequest struct {
	To     mill.Address          `json:"to"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type Tokens struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Tokens {
	return &Tokens{rt}
}

func (t *Tokens) handleGetToken(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "token")
	if err != nil {
		return err
	}
	return utils.QueryAndWrite(w, t.rt, req, func(env *builtin.Env) (any, error) {
		tok := env.Tokens().Token(addr)
		symbol, err := tok.Symbol()
		if err != nil {
			return nil, err
		}
		supply, err := tok.TotalSupply()
		if err != nil {
			return nil, err
		}
		return &Token{addr, symbol, utils.Hex(supply)}, nil
	})
}

func (t *Tokens) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	token, err := utils.AddressVar(req, "token")
	if err != nil {
		return err
	}
	account, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	return utils.QueryAndWrite(w, t.rt, req, func(env *builtin.Env) (any, error) {
		bal, err := env.Tokens().BalanceOf(token, account)
		if err != nil {
			return nil, err
		}
		return &Balance{token, account, utils.Hex(bal)}, nil
	})
}

func (t *Tokens) handleMove(approve bool) utils.HandlerFunc {
	method := "transfer"
	if approve {
		method = "approve"
	}
	return func(w http.ResponseWriter, req *http.Request) error {
		token, err := utils.AddressVar(req, "token")
		if err != nil {
			return err
		}
		var body MoveRequest
		if err := utils.ParseJSON(req.Body, &body); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "body"))
		}
		amount, err := utils.Amount(body.Amount, "amount")
		if err != nil {
			return err
		}
		return utils.ExecuteAndWrite(w, t.rt, req, method, func(env *builtin.Env, caller mill.Address) (any, error) {
			if approve {
				return nil, env.Tokens().Approve(token, caller, body.To, amount)
			}
			return nil, env.Tokens().Transfer(token, caller, body.To, amount)
		})
	}
}

func (t *Tokens) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{token}").Methods(http.MethodGet).Name("GET /tokens/{token}").HandlerFunc(utils.WrapHandlerFunc(t.handleGetToken))
	sub.Path("/{token}/balances/{address}").Methods(http.MethodGet).Name("GET /tokens/{token}/balances/{address}").HandlerFunc(utils.WrapHandlerFunc(t.handleGetBalance))
	sub.Path("/{token}/approve").Methods(http.MethodPost).Name("POST /tokens/{token}/approve").HandlerFunc(utils.WrapHandlerFunc(t.handleMove(true)))
	sub.Path("/{token}/transfer").Methods(http.MethodPost).Name("POST /tokens/{token}/transfer").HandlerFunc(utils.WrapHandlerFunc(t.handleMove(false)))
}
