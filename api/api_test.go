// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewardmill/rewardmill/api"
	"github.com/rewardmill/rewardmill/api/events"
	"github.com/rewardmill/rewardmill/api/pools"
	"github.com/rewardmill/rewardmill/api/utils"
	"github.com/rewardmill/rewardmill/builtin"
	"github.com/rewardmill/rewardmill/builtin/reverts"
	"github.com/rewardmill/rewardmill/genesis"
	"github.com/rewardmill/rewardmill/logdb"
	"github.com/rewardmill/rewardmill/lvldb"
	"github.com/rewardmill/rewardmill/mill"
	"github.com/rewardmill/rewardmill/runtime"
	"github.com/rewardmill/rewardmill/state"
)

var (
	owner = genesis.DevAccounts[0]
	alice = genesis.DevAccounts[1]
	bob   = genesis.DevAccounts[2]
)

type server struct {
	t   *testing.T
	url string
	cfg *genesis.Config
}

func newServer(t *testing.T) *server {
	kv, err := lvldb.NewMem()
	require.NoError(t, err)
	db, err := logdb.NewMem()
	require.NoError(t, err)

	rt := runtime.New(state.New(kv), db, runtime.NewManualClock(1_700_000_000))
	cfg := genesis.DevConfig()
	_, err = genesis.Apply(context.Background(), rt, cfg)
	require.NoError(t, err)

	handler, closeSubs := api.New(rt, db, api.Options{AllowedOrigins: "*", EnableMetrics: true})
	ts := httptest.NewServer(handler)
	t.Cleanup(func() {
		closeSubs()
		ts.Close()
		db.Close()
		kv.Close()
	})
	return &server{t, ts.URL, cfg}
}

func (s *server) token(symbol string) mill.Address {
	addr, err := s.cfg.TokenAddress(symbol)
	require.NoError(s.t, err)
	return addr
}

func (s *server) do(method, path string, caller *mill.Address, body any) (int, []byte) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, s.url+path, reader)
	require.NoError(s.t, err)
	if caller != nil {
		req.Header.Set(utils.CallerHeader, caller.String())
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(s.t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(s.t, err)
	return res.StatusCode, data
}

func (s *server) ok(method, path string, caller *mill.Address, body any, out any) {
	code, data := s.do(method, path, caller, body)
	require.Equal(s.t, http.StatusOK, code, string(data))
	if out != nil {
		require.NoError(s.t, json.Unmarshal(data, out))
	}
}

func amount(x *big.Int) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(x)
}

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

func TestPoolLifecycle(t *testing.T) {
	s := newServer(t)
	usdc := s.token("USDC")

	var list []*pools.Pool
	s.ok(http.MethodGet, "/pools", nil, nil, &list)
	require.Len(t, list, 4)
	assert.Equal(t, usdc, list[3].StakedAsset)

	// fund the rewards contract through the manager
	s.ok(http.MethodPost, "/tokens/"+s.token("MILL").String()+"/approve", &owner,
		utils.M{"to": builtin.Manager.Address, "amount": amount(ether(1000))}, nil)
	s.ok(http.MethodPost, "/manager/release", &owner, utils.M{"amount": amount(ether(1000))}, nil)

	s.ok(http.MethodPost, "/tokens/"+usdc.String()+"/approve", &alice,
		utils.M{"to": builtin.Rewards.Address, "amount": amount(ether(10))}, nil)
	s.ok(http.MethodPost, "/pools/3/deposit", &alice, utils.M{"amount": amount(ether(10))}, nil)

	var user pools.User
	s.ok(http.MethodGet, "/pools/3/users/"+alice.String(), nil, nil, &user)
	assert.Equal(t, ether(10).String(), (*big.Int)(user.Amount).String())

	s.ok(http.MethodPost, "/clock/advance", nil, utils.M{"seconds": 100}, nil)

	var pending pools.Pending
	s.ok(http.MethodGet, "/pools/3/users/"+alice.String()+"/pending", nil, nil, &pending)
	assert.Positive(t, (*big.Int)(pending.Pending).Sign())

	var receipt struct {
		ID     string `json:"id"`
		Result struct {
			Amount *math.HexOrDecimal256 `json:"amount"`
		} `json:"result"`
	}
	s.ok(http.MethodPost, "/pools/3/harvest", &alice, nil, &receipt)
	assert.NotEmpty(t, receipt.ID)
	assert.Equal(t, (*big.Int)(pending.Pending).String(), (*big.Int)(receipt.Result.Amount).String())

	var harvests []*events.FilteredEvent
	s.ok(http.MethodGet, "/events?name=Harvest&address="+builtin.Rewards.Address.String(), nil, nil, &harvests)
	require.Len(t, harvests, 1)
	assert.Equal(t, receipt.ID, harvests[0].ReceiptID)
	assert.Equal(t, alice, harvests[0].Caller)

	var emission pools.Emission
	s.ok(http.MethodGet, "/emission?from=1700000000&to=1700000100", nil, nil, &emission)
	assert.Equal(t, "decay", emission.Mode)
	assert.Positive(t, (*big.Int)(emission.Amount).Sign())
}

func TestRevertResponses(t *testing.T) {
	s := newServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		caller *mill.Address
		body   any
		status int
		kind   reverts.Kind
	}{
		{"not owner", http.MethodPost, "/pools", &bob, utils.M{"asset": s.token("DAI"), "points": 5}, http.StatusForbidden, reverts.Authorization},
		{"already listed", http.MethodPost, "/pools", &owner, utils.M{"asset": s.token("USDC"), "points": 5}, http.StatusBadRequest, reverts.AlreadyWhitelisted},
		{"unknown pool", http.MethodGet, "/pools/9", nil, nil, http.StatusNotFound, reverts.PoolNotFound},
		{"remove unlisted", http.MethodDelete, "/pools/assets/" + s.token("DAI").String(), &owner, nil, http.StatusBadRequest, reverts.NotWhitelisted},
		{"withdraw without stake", http.MethodPost, "/pools/0/withdraw", &bob, utils.M{"amount": "1"}, http.StatusBadRequest, reverts.InsufficientStake},
		{"ratio too high", http.MethodPut, "/manager", &owner, utils.M{"vestingRatioBps": 10001}, http.StatusBadRequest, reverts.InvalidParameter},
		{"deposit without allowance", http.MethodPost, "/pools/3/deposit", &bob, utils.M{"amount": "1"}, http.StatusBadRequest, reverts.InsufficientBalance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, data := s.do(tt.method, tt.path, tt.caller, tt.body)
			require.Equal(t, tt.status, code, string(data))
			var res struct {
				Kind    string `json:"kind"`
				Message string `json:"message"`
			}
			require.NoError(t, json.Unmarshal(data, &res))
			assert.Equal(t, tt.kind.String(), res.Kind)
			assert.NotEmpty(t, res.Message)
		})
	}
}

func TestBadRequests(t *testing.T) {
	s := newServer(t)

	code, _ := s.do(http.MethodPost, "/pools/0/harvest", nil, nil)
	assert.Equal(t, http.StatusBadRequest, code, "missing caller")

	code, _ = s.do(http.MethodPost, "/pools/0/deposit", &alice, utils.M{"amount": "-1"})
	assert.Equal(t, http.StatusBadRequest, code, "negative amount")

	code, _ = s.do(http.MethodPost, "/pools/0/deposit", &alice, utils.M{"amount": "1", "extra": true})
	assert.Equal(t, http.StatusBadRequest, code, "unknown field")

	code, _ = s.do(http.MethodGet, "/emission?from=10&to=5", nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}
