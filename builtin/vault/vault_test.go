// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewardmill/rewardmill/builtin/reverts"
	"github.com/rewardmill/rewardmill/builtin/solidity"
	"github.com/rewardmill/rewardmill/builtin/token"
	"github.com/rewardmill/rewardmill/fixedpoint"
	"github.com/rewardmill/rewardmill/lvldb"
	"github.com/rewardmill/rewardmill/mill"
	"github.com/rewardmill/rewardmill/state"
)

var (
	vaultAddr  = mill.NameToAddress("Vault")
	underlying = mill.NameToAddress("MILL")
	admin      = mill.NameToAddress("admin")
	alice      = mill.NameToAddress("alice")
	bob        = mill.NameToAddress("bob")
)

type env struct {
	st  *state.State
	now uint64
}

func newEnv(t *testing.T) *env {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	e := &env{st: state.New(db), now: 1000}
	require.NoError(t, e.vault().Initialize(admin, underlying, 0))
	return e
}

func (e *env) tokens() *token.Ledger {
	return token.NewLedger(e.st, e.now)
}

func (e *env) vault() *Vault {
	return New(solidity.NewContext(vaultAddr, e.st, e.now), e.tokens())
}

func (e *env) fund(t *testing.T, account mill.Address, amount int64) {
	require.NoError(t, e.tokens().Mint(underlying, account, big.NewInt(amount)))
	require.NoError(t, e.tokens().Approve(underlying, account, vaultAddr, big.NewInt(amount)))
}

func TestEnterInjectLeave(t *testing.T) {
	e := newEnv(t)
	e.fund(t, alice, 100)
	e.fund(t, bob, 20)
	v := e.vault()

	shares, err := v.Enter(alice, big.NewInt(100))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), shares)

	price, err := v.Price()
	require.NoError(t, err)
	assert.Equal(t, fixedpoint.Unit.String(), price.String())

	require.NoError(t, v.Inject(bob, big.NewInt(20)))
	price, err = v.Price()
	require.NoError(t, err)
	assert.Equal(t, "1200000000000000000", price.String())

	out, err := v.Leave(alice, big.NewInt(50))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(60), out)

	held, _ := v.SharesOf(alice)
	assert.Equal(t, big.NewInt(50), held)
	total, _ := v.TotalUnderlying()
	assert.Equal(t, big.NewInt(60), total)
	bal, _ := e.tokens().BalanceOf(underlying, alice)
	assert.Equal(t, big.NewInt(60), bal)

	genesis, _ := v.GenesisTimestamp()
	assert.Equal(t, uint64(1000), genesis)
}

func TestLaterEntrantsGetFewerShares(t *testing.T) {
	e := newEnv(t)
	e.fund(t, alice, 100)
	e.fund(t, bob, 1000)
	v := e.vault()

	_, err := v.Enter(alice, big.NewInt(100))
	require.NoError(t, err)
	require.NoError(t, v.Inject(bob, big.NewInt(100)))

	shares, err := v.Enter(bob, big.NewInt(50))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(25), shares)
}

func TestEnterRoundingToZeroFails(t *testing.T) {
	e := newEnv(t)
	e.fund(t, alice, 10)
	e.fund(t, bob, 1000)
	v := e.vault()

	_, err := v.Enter(alice, big.NewInt(10))
	require.NoError(t, err)
	require.NoError(t, v.Inject(bob, big.NewInt(990)))

	// 10 shares back 1000 underlying, 50 underlying buys 0.5 share
	_, err = v.Enter(bob, big.NewInt(50))
	assert.True(t, reverts.Is(err, reverts.InvalidParameter))
	held, _ := v.SharesOf(bob)
	assert.Equal(t, 0, held.Sign())
}

func TestLeavePreconditions(t *testing.T) {
	e := newEnv(t)
	e.fund(t, alice, 100)
	v := e.vault()

	_, err := v.Leave(alice, big.NewInt(1))
	assert.True(t, reverts.Is(err, reverts.InsufficientBalance))

	_, err = v.Enter(alice, big.NewInt(100))
	require.NoError(t, err)
	_, err = v.Leave(alice, big.NewInt(101))
	assert.True(t, reverts.Is(err, reverts.InsufficientBalance))
	_, err = v.Leave(alice, new(big.Int))
	assert.True(t, reverts.Is(err, reverts.InvalidParameter))
	_, err = v.Enter(alice, new(big.Int))
	assert.True(t, reverts.Is(err, reverts.InvalidParameter))
}

func TestInjectionNeverLowersPrice(t *testing.T) {
	e := newEnv(t)
	e.fund(t, alice, 7)
	e.fund(t, bob, 1000)
	v := e.vault()

	_, err := v.Enter(alice, big.NewInt(7))
	require.NoError(t, err)
	last, _ := v.Price()
	for _, amount := range []int64{1, 3, 5, 11, 13} {
		require.NoError(t, v.Inject(bob, big.NewInt(amount)))
		price, err := v.Price()
		require.NoError(t, err)
		assert.True(t, price.Cmp(last) >= 0)
		last = price
	}
}

func TestFund(t *testing.T) {
	e := newEnv(t)
	manager := mill.NameToAddress("Manager")
	rewards := mill.NameToAddress("Rewards")
	require.NoError(t, e.tokens().Mint(underlying, manager, big.NewInt(3000)))
	v := e.vault()

	minted, err := v.Fund(manager, rewards, big.NewInt(2000))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(2000), minted)
	held, _ := v.SharesOf(rewards)
	assert.Equal(t, big.NewInt(2000), held)

	minted, err = v.Fund(manager, rewards, big.NewInt(1000))
	require.NoError(t, err)
	assert.Equal(t, 0, minted.Sign())
	total, _ := v.TotalShares()
	assert.Equal(t, big.NewInt(2000), total)
	price, _ := v.Price()
	assert.Equal(t, "1500000000000000000", price.String())
}

func TestPriceSamplesAndAPY(t *testing.T) {
	e := newEnv(t)
	e.fund(t, alice, 100_000)
	e.fund(t, bob, 1000)

	_, err := e.vault().Enter(alice, big.NewInt(100_000))
	require.NoError(t, err)
	_, err = e.vault().UpdatePrice()
	require.NoError(t, err)

	apy, err := e.vault().EstimateAPY()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), apy)

	e.now += 3600
	require.NoError(t, e.vault().Inject(bob, big.NewInt(1000)))
	_, err = e.vault().UpdatePrice()
	require.NoError(t, err)
	_, last, _ := e.vault().Samples()
	assert.Equal(t, uint64(1000), last.Time, "sample inside the interval is not recorded")

	e.now = 1000 + mill.DefaultSamplingInterval
	price, err := e.vault().UpdatePrice()
	require.NoError(t, err)
	assert.Equal(t, "1010000000000000000", price.String())

	// 1% a day
	apy, err = e.vault().EstimateAPY()
	require.NoError(t, err)
	assert.Equal(t, uint64(36500), apy)

	var updates int
	for _, ev := range e.st.Events() {
		if ev.Name == "VaultPriceUpdated" {
			updates++
		}
	}
	assert.Equal(t, 2, updates)
}

func TestSamplingInterval(t *testing.T) {
	e := newEnv(t)
	v := e.vault()

	interval, err := v.SamplingInterval()
	require.NoError(t, err)
	assert.Equal(t, uint64(mill.DefaultSamplingInterval), interval)

	assert.True(t, reverts.Is(v.SetSamplingInterval(bob, 60), reverts.Authorization))
	assert.True(t, reverts.Is(v.SetSamplingInterval(admin, 0), reverts.InvalidParameter))
	require.NoError(t, v.SetSamplingInterval(admin, 60))
}
