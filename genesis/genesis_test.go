// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewardmill/rewardmill/builtin"
	"github.com/rewardmill/rewardmill/builtin/reverts"
	"github.com/rewardmill/rewardmill/genesis"
	"github.com/rewardmill/rewardmill/lvldb"
	"github.com/rewardmill/rewardmill/mill"
	"github.com/rewardmill/rewardmill/runtime"
	"github.com/rewardmill/rewardmill/state"
)

const launch = 1_700_000_000

func newRuntime(t *testing.T) (*runtime.Runtime, *runtime.ManualClock) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	clock := runtime.NewManualClock(launch)
	return runtime.New(state.New(db), nil, clock), clock
}

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

func TestDevGenesis(t *testing.T) {
	rt, _ := newRuntime(t)
	ctx := context.Background()
	cfg := genesis.DevConfig()

	receipt, err := genesis.Apply(ctx, rt, cfg)
	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, uint64(launch), receipt.Time)

	ok, err := genesis.Initialized(ctx, rt)
	require.NoError(t, err)
	assert.True(t, ok)

	again, err := genesis.Apply(ctx, rt, cfg)
	require.NoError(t, err)
	assert.Nil(t, again)

	require.NoError(t, rt.Call(ctx, func(env *builtin.Env) error {
		r := builtin.Rewards.WithEnv(env)
		n, err := r.PoolLength()
		require.NoError(t, err)
		assert.Equal(t, uint64(4), n)

		total, err := r.TotalAllocationPoints()
		require.NoError(t, err)
		assert.Equal(t, uint64(100), total)

		lp, err := cfg.TokenAddress("MILL/WETH")
		require.NoError(t, err)
		listed, err := r.IsWhitelisted(lp)
		require.NoError(t, err)
		assert.True(t, listed)

		ratio, err := builtin.Manager.WithEnv(env).VestingRatio()
		require.NoError(t, err)
		assert.Equal(t, uint64(2000), ratio)

		dai, _ := cfg.TokenAddress("DAI")
		route, err := builtin.Converter.WithEnv(env).Route(dai)
		require.NoError(t, err)
		assert.Len(t, route, 4)
		return nil
	}))
}

func TestDevLifecycle(t *testing.T) {
	rt, clock := newRuntime(t)
	ctx := context.Background()
	cfg := genesis.DevConfig()
	_, err := genesis.Apply(ctx, rt, cfg)
	require.NoError(t, err)

	owner, alice := genesis.DevAccounts[0], genesis.DevAccounts[1]
	mill1, _ := cfg.TokenAddress("MILL")
	weth, _ := cfg.TokenAddress("WETH")
	usdc, _ := cfg.TokenAddress("USDC")
	lp, _ := cfg.TokenAddress("MILL/WETH")

	// epoch release funds the rewards contract and seeds the vault
	_, err = rt.Execute(ctx, owner, "release", func(env *builtin.Env) error {
		if err := env.Tokens().Approve(mill1, owner, builtin.Manager.Address, ether(1000)); err != nil {
			return err
		}
		rel, err := builtin.Manager.WithEnv(env).ReleaseEpochRewards(owner, ether(1000))
		if err != nil {
			return err
		}
		assert.Equal(t, ether(200).String(), rel.Vested.String())
		assert.Equal(t, ether(800).String(), rel.Operational.String())
		return nil
	})
	require.NoError(t, err)

	_, err = rt.Execute(ctx, alice, "deposit", func(env *builtin.Env) error {
		if err := env.Tokens().Approve(usdc, alice, builtin.Rewards.Address, ether(100)); err != nil {
			return err
		}
		_, err := builtin.Rewards.WithEnv(env).Deposit(alice, 3, ether(100))
		return err
	})
	require.NoError(t, err)

	clock.Advance(10)

	var paid *big.Int
	_, err = rt.Execute(ctx, alice, "harvest", func(env *builtin.Env) (err error) {
		paid, err = builtin.Rewards.WithEnv(env).Harvest(alice, 3)
		return
	})
	require.NoError(t, err)
	assert.Positive(t, paid.Sign())

	// fees: the owner hands its LP to the converter, which sells it for the vault
	var before, after *big.Int
	_, err = rt.Execute(ctx, owner, "convert", func(env *builtin.Env) error {
		tokens := env.Tokens()
		held, err := tokens.BalanceOf(lp, owner)
		if err != nil {
			return err
		}
		if err := tokens.Transfer(lp, owner, builtin.Converter.Address, new(big.Int).Div(held, big.NewInt(10))); err != nil {
			return err
		}
		v := builtin.Vault.WithEnv(env)
		if before, err = v.TotalUnderlying(); err != nil {
			return err
		}
		if _, err := builtin.Converter.WithEnv(env).Convert(owner, mill1, weth); err != nil {
			return err
		}
		after, err = v.TotalUnderlying()
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, after.Cmp(before))
}

func TestFailedGenesisLeavesNoState(t *testing.T) {
	rt, _ := newRuntime(t)
	ctx := context.Background()

	cfg := genesis.DevConfig()
	cfg.Pools = append(cfg.Pools, genesis.Pool{Asset: "USDC", Points: 5})

	_, err := genesis.Apply(ctx, rt, cfg)
	assert.True(t, reverts.Is(err, reverts.AlreadyWhitelisted))

	ok, err := genesis.Initialized(ctx, rt)
	require.NoError(t, err)
	assert.False(t, ok)
}

const sampleConfig = `
owner: "0x000000000000000000000000000000000000abcd"
rewardToken: MILL
baseToken: WETH
tokens:
  - symbol: MILL
    balances:
      - account: "0x000000000000000000000000000000000000abcd"
        amount: 1000000000000000000000
  - symbol: WETH
    address: "0x0000000000000000000000000000000000000e70"
emission:
  mode: fixed
  rate: "0x8ac7230489e80000"
vestingRatioBps: 2000
pools:
  - asset: WETH
    points: 10
`

func TestParseConfig(t *testing.T) {
	cfg, err := genesis.ParseConfig([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, mill.MustParseAddress("0x000000000000000000000000000000000000abcd"), cfg.Owner)
	assert.Equal(t, "1000000000000000000000", cfg.Tokens[0].Balances[0].Amount.Int().String())
	assert.Equal(t, "10000000000000000000", cfg.Emission.Rate.Int().String())

	weth, err := cfg.TokenAddress("WETH")
	require.NoError(t, err)
	assert.Equal(t, mill.MustParseAddress("0x0000000000000000000000000000000000000e70"), weth)

	rt, _ := newRuntime(t)
	_, err = genesis.Apply(context.Background(), rt, cfg)
	require.NoError(t, err)
}

func TestInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*genesis.Config)
	}{
		{"zero owner", func(c *genesis.Config) { c.Owner = mill.Address{} }},
		{"unknown reward token", func(c *genesis.Config) { c.RewardToken = "XYZ" }},
		{"same base and reward", func(c *genesis.Config) { c.BaseToken = c.RewardToken }},
		{"ratio above bps", func(c *genesis.Config) { c.VestingRatio = mill.BasisPoints + 1 }},
		{"unknown policy", func(c *genesis.Config) { c.EmergencyPolicy = "refund" }},
		{"unknown mode", func(c *genesis.Config) { c.Emission.Mode = "linear" }},
		{"zero epoch", func(c *genesis.Config) { c.Emission.EpochLength = 0 }},
		{"zero points", func(c *genesis.Config) { c.Pools[0].Points = 0 }},
		{"unknown pool asset", func(c *genesis.Config) { c.Pools[0].Asset = "FOO/WETH" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := genesis.DevConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	_, err := genesis.ParseConfig([]byte(sampleConfig + "bogus: 1\n"))
	assert.Error(t, err)
}
