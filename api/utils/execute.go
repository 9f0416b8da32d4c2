// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"net/http"

	"github.com/rewardmill/rewardmill/builtin"
	"github.com/rewardmill/rewardmill/mill"
	"github.com/rewardmill/rewardmill/runtime"
)

// Receipt is the response of a committed write.
type Receipt struct {
	*runtime.Receipt
	Result any `json:"result,omitempty"`
}

// WriteFunc performs a write on behalf of caller and returns what the response reports.
type WriteFunc func(env *builtin.Env, caller mill.Address) (any, error)

// Execute runs fn for the caller named by the request as a single atomic call.
func Execute(rt *runtime.Runtime, req *http.Request, method string, fn WriteFunc) (*Receipt, error) {
	caller, err := ParseCaller(req)
	if err != nil {
		return nil, err
	}
	var result any
	receipt, err := rt.Execute(req.Context(), caller, method, func(env *builtin.Env) (err error) {
		result, err = fn(env, caller)
		return
	})
	if err != nil {
		return nil, err
	}
	return &Receipt{receipt, result}, nil
}

// ExecuteAndWrite is Execute followed by writing the receipt.
func ExecuteAndWrite(w http.ResponseWriter, rt *runtime.Runtime, req *http.Request, method string, fn WriteFunc) error {
	receipt, err := Execute(rt, req, method, fn)
	if err != nil {
		return err
	}
	return WriteJSON(w, receipt)
}

// Query runs fn read-only.
func Query(rt *runtime.Runtime, req *http.Request, fn func(env *builtin.Env) (any, error)) (any, error) {
	var result any
	err := rt.Call(req.Context(), func(env *builtin.Env) (err error) {
		result, err = fn(env)
		return
	})
	return result, err
}

// QueryAndWrite is Query followed by writing the result.
func QueryAndWrite(w http.ResponseWriter, rt *runtime.Runtime, req *http.Request, fn func(env *builtin.Env) (any, error)) error {
	result, err := Query(rt, req, fn)
	if err != nil {
		return err
	}
	return WriteJSON(w, result)
}
