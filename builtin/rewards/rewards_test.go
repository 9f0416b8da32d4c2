// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewardmill/rewardmill/builtin/emission"
	"github.com/rewardmill/rewardmill/builtin/reverts"
	"github.com/rewardmill/rewardmill/fixedpoint"
	"github.com/rewardmill/rewardmill/mill"
)

func eventNames(e *env) []string {
	var names []string
	for _, ev := range e.st.Events() {
		names = append(names, ev.Name)
	}
	return names
}

func TestAllocationChangeSettlesFirst(t *testing.T) {
	e := newEnv(t, fixedRate(ether(1)))
	require.NoError(t, e.tokens().Mint(rewardToken, rewardsAddr, ether(1000)))
	e.fund(t, lpA, alice, ether(100))
	e.fund(t, lpB, bob, ether(100))

	NewSequence(e).
		AddPool(lpA, 10, 0).
		AddPool(lpB, 10, 1).
		Deposit(alice, 0, ether(100)).
		Deposit(bob, 1, ether(100)).
		At(110).
		Pending(alice, 0, ether(5)).
		Pending(bob, 1, ether(5)).
		SetAllocation(0, 30).
		At(120).
		Pending(alice, 0, decimal("12500000000000000000")).
		Pending(bob, 1, big.NewInt(7_500_000_000_000_000_000)).
		Harvest(alice, 0, decimal("12500000000000000000")).
		Harvest(bob, 1, big.NewInt(7_500_000_000_000_000_000)).
		Run(t)

	AssertPool(e, 0).Points(30).TotalStaked(ether(100)).LastRewardTime(120).Assert(t)
	total, err := e.rewards().TotalAllocationPoints()
	require.NoError(t, err)
	assert.Equal(t, uint64(40), total)
	assert.Equal(t, "12500000000000000000", e.balance(t, rewardToken, alice).String())
}

func TestRemoveAndReAdd(t *testing.T) {
	e := newEnv(t, fixedRate(ether(1)))

	err := e.rewards().RemovePool(admin, lpA)
	assert.True(t, reverts.Is(err, reverts.NotWhitelisted))

	NewSequence(e).
		AddPool(lpA, 10, 0).
		At(150).
		RemovePool(lpA).
		At(300).
		AddPool(lpA, 20, 1).
		Run(t)

	AssertPool(e, 0).Active(false).Points(0).LastRewardTime(150).Assert(t)
	AssertPool(e, 1).Active(true).Points(20).LastRewardTime(300).Assert(t)

	pid, ok, err := e.rewards().PoolIDOf(lpA)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(1), pid)

	length, _ := e.rewards().PoolLength()
	assert.Equal(t, uint64(2), length)
	pools, err := e.rewards().Pools()
	require.NoError(t, err)
	require.Len(t, pools, 1)
	assert.Equal(t, uint64(1), pools[0].PID)

	total, _ := e.rewards().TotalAllocationPoints()
	assert.Equal(t, uint64(20), total)

	assert.Equal(t, []string{"PoolAdded", "PoolRemoved", "PoolAdded"}, eventNames(e))
}

func TestRegistryPreconditions(t *testing.T) {
	e := newEnv(t, fixedRate(ether(1)))
	r := e.rewards()

	_, err := r.AddPool(bob, lpA, 10)
	assert.True(t, reverts.Is(err, reverts.Authorization))
	_, err = r.AddPool(admin, lpA, 0)
	assert.True(t, reverts.Is(err, reverts.InvalidParameter))
	_, err = r.AddPool(admin, rewardToken, 10)
	assert.True(t, reverts.Is(err, reverts.InvalidParameter))

	_, err = r.AddPool(admin, lpA, 10)
	require.NoError(t, err)
	_, err = r.AddPool(admin, lpA, 10)
	assert.True(t, reverts.Is(err, reverts.AlreadyWhitelisted))

	assert.True(t, reverts.Is(r.SetAllocation(bob, 0, 5), reverts.Authorization))
	assert.True(t, reverts.Is(r.SetAllocation(admin, 0, 0), reverts.InvalidParameter))
	assert.True(t, reverts.Is(r.SetAllocation(admin, 7, 5), reverts.PoolNotFound))
	assert.True(t, reverts.Is(r.RemovePool(bob, lpA), reverts.Authorization))

	whitelisted, err := r.IsWhitelisted(lpA)
	require.NoError(t, err)
	assert.True(t, whitelisted)
}

func TestEmptyPoolAdvancesWithoutMinting(t *testing.T) {
	e := newEnv(t, fixedRate(ether(1)))
	require.NoError(t, e.tokens().Mint(rewardToken, rewardsAddr, ether(1000)))
	e.fund(t, lpA, alice, ether(10))

	NewSequence(e).
		AddPool(lpA, 10, 0).
		At(200).
		AddFunc(func(t *testing.T) {
			pool, err := e.rewards().UpdatePool(0)
			require.NoError(t, err)
			assert.Equal(t, 0, pool.AccRewardPerShare.Sign())
		}).
		Deposit(alice, 0, ether(10)).
		At(210).
		Pending(alice, 0, ether(10)).
		Run(t)

	AssertPool(e, 0).LastRewardTime(200).Assert(t)
}

func TestUpdateIsIdempotent(t *testing.T) {
	e := newEnv(t, fixedRate(ether(1)))
	e.fund(t, lpA, alice, ether(10))

	NewSequence(e).
		AddPool(lpA, 10, 0).
		Deposit(alice, 0, ether(10)).
		At(150).
		Run(t)

	first, err := e.rewards().UpdatePool(0)
	require.NoError(t, err)
	assert.Equal(t, ether(50).String(), fixedpoint.Accumulated(ether(10), first.AccRewardPerShare).String())
	second, err := e.rewards().UpdatePool(0)
	require.NoError(t, err)
	assert.Equal(t, first.AccRewardPerShare.String(), second.AccRewardPerShare.String())

	require.NoError(t, e.rewards().MassUpdatePools([]uint64{0, 0}))
	third, err := e.rewards().PoolInfo(0)
	require.NoError(t, err)
	assert.Equal(t, first.AccRewardPerShare.String(), third.AccRewardPerShare.String())
	assert.Equal(t, uint64(150), third.LastRewardTime)

	assert.True(t, reverts.Is(e.rewards().MassUpdatePools([]uint64{3}), reverts.PoolNotFound))
}

func TestDepositHarvestsPending(t *testing.T) {
	e := newEnv(t, fixedRate(ether(1)))
	require.NoError(t, e.tokens().Mint(rewardToken, rewardsAddr, ether(1000)))
	e.fund(t, lpA, alice, ether(100))

	NewSequence(e).
		AddPool(lpA, 10, 0).
		Deposit(alice, 0, ether(50)).
		At(110).
		Deposit(alice, 0, ether(50)).
		Pending(alice, 0, new(big.Int)).
		At(120).
		Pending(alice, 0, ether(10)).
		Run(t)

	assert.Equal(t, ether(10), e.balance(t, rewardToken, alice))
	AssertPool(e, 0).TotalStaked(ether(100)).Assert(t)

	stake, err := e.rewards().UserInfo(0, alice)
	require.NoError(t, err)
	assert.Equal(t, ether(100), stake.Amount)
	// acc is 10e18 * 1e12 / 50e18 after the first interval
	assert.Equal(t, fixedpoint.Accumulated(ether(100), big.NewInt(200_000_000_000)), stake.RewardDebt.Int())
}

func TestRoundTripPaysNothing(t *testing.T) {
	e := newEnv(t, fixedRate(ether(1)))
	e.fund(t, lpA, alice, ether(100))

	NewSequence(e).
		AddPool(lpA, 10, 0).
		At(500).
		Deposit(alice, 0, ether(100)).
		Withdraw(alice, 0, ether(100)).
		Run(t)

	assert.Equal(t, ether(100), e.balance(t, lpA, alice))
	assert.Equal(t, 0, e.balance(t, rewardToken, alice).Sign())
	AssertPool(e, 0).TotalStaked(new(big.Int)).Assert(t)
}

func TestWithdrawPreconditions(t *testing.T) {
	e := newEnv(t, fixedRate(ether(1)))
	e.fund(t, lpA, alice, ether(100))

	NewSequence(e).
		AddPool(lpA, 10, 0).
		Deposit(alice, 0, ether(100)).
		Run(t)

	_, err := e.rewards().Withdraw(alice, 0, ether(101))
	assert.True(t, reverts.Is(err, reverts.InsufficientStake))
	_, err = e.rewards().Withdraw(bob, 0, big.NewInt(1))
	assert.True(t, reverts.Is(err, reverts.InsufficientStake))
	_, err = e.rewards().Deposit(alice, 5, ether(1))
	assert.True(t, reverts.Is(err, reverts.PoolNotFound))
	_, err = e.rewards().Deposit(alice, 0, big.NewInt(-1))
	assert.True(t, reverts.Is(err, reverts.InvalidParameter))
}

func TestRemovedPoolKeepsPrincipal(t *testing.T) {
	e := newEnv(t, fixedRate(ether(1)))
	require.NoError(t, e.tokens().Mint(rewardToken, rewardsAddr, ether(1000)))
	e.fund(t, lpA, alice, ether(200))

	NewSequence(e).
		AddPool(lpA, 10, 0).
		Deposit(alice, 0, ether(100)).
		At(110).
		RemovePool(lpA).
		At(130).
		Pending(alice, 0, ether(10)).
		Run(t)

	_, err := e.rewards().Deposit(alice, 0, ether(100))
	assert.True(t, reverts.Is(err, reverts.PoolNotFound))

	paid, err := e.rewards().Withdraw(alice, 0, ether(100))
	require.NoError(t, err)
	assert.Equal(t, ether(10), paid)
	assert.Equal(t, ether(200), e.balance(t, lpA, alice))
}

func TestInsufficientRewardBalance(t *testing.T) {
	e := newEnv(t, fixedRate(ether(1)))
	e.fund(t, lpA, alice, ether(100))

	NewSequence(e).
		AddPool(lpA, 10, 0).
		Deposit(alice, 0, ether(100)).
		At(110).
		Run(t)

	_, err := e.rewards().Harvest(alice, 0)
	assert.True(t, reverts.Is(err, reverts.InsufficientBalance))
	stake, err := e.rewards().UserInfo(0, alice)
	require.NoError(t, err)
	assert.Equal(t, ether(100), stake.Amount)
	assert.Equal(t, 0, stake.RewardDebt.Sign())

	// principal still comes back, the pending reward is forfeited
	amount, err := e.rewards().EmergencyWithdraw(alice, 0)
	require.NoError(t, err)
	assert.Equal(t, ether(100), amount)
	assert.Equal(t, ether(100), e.balance(t, lpA, alice))

	pending, err := e.rewards().PendingReward(0, alice)
	require.NoError(t, err)
	assert.Equal(t, 0, pending.Sign())
	AssertPool(e, 0).TotalStaked(new(big.Int)).Assert(t)
}

func TestEmergencyWithdrawDisabled(t *testing.T) {
	e := newEnv(t, fixedRate(ether(1)))
	e.fund(t, lpA, alice, ether(100))

	NewSequence(e).
		AddPool(lpA, 10, 0).
		Deposit(alice, 0, ether(100)).
		Run(t)

	assert.True(t, reverts.Is(e.rewards().SetEmergencyPolicy(bob, EmergencyDisabled), reverts.Authorization))
	require.NoError(t, e.rewards().SetEmergencyPolicy(admin, EmergencyDisabled))

	_, err := e.rewards().EmergencyWithdraw(alice, 0)
	assert.True(t, reverts.Is(err, reverts.InvalidParameter))
	policy, _ := e.rewards().EmergencyPolicy()
	assert.Equal(t, "disabled", policy.String())
}

func TestPayoutsNeverExceedEmission(t *testing.T) {
	e := newEnv(t, fixedRate(ether(1)))
	require.NoError(t, e.tokens().Mint(rewardToken, rewardsAddr, ether(1000)))
	e.fund(t, lpA, alice, ether(1))
	e.fund(t, lpA, bob, ether(2))

	NewSequence(e).
		AddPool(lpA, 10, 0).
		Deposit(alice, 0, ether(1)).
		Deposit(bob, 0, ether(2)).
		At(110).
		Harvest(alice, 0, big.NewInt(3_333_333_333_333_000_000)).
		Harvest(bob, 0, big.NewInt(6_666_666_666_666_000_000)).
		Run(t)

	paid := new(big.Int).Add(e.balance(t, rewardToken, alice), e.balance(t, rewardToken, bob))
	assert.True(t, paid.Cmp(ether(10)) <= 0)
}

func TestEmissionRateChange(t *testing.T) {
	e := newEnv(t, fixedRate(ether(1)))
	e.fund(t, lpA, alice, ether(100))

	NewSequence(e).
		AddPool(lpA, 10, 0).
		Deposit(alice, 0, ether(100)).
		At(110).
		AddFunc(func(t *testing.T) {
			assert.True(t, reverts.Is(e.rewards().SetEmissionRate(bob, ether(2)), reverts.Authorization))
			require.NoError(t, e.rewards().SetEmissionRate(admin, ether(2)))
		}).
		At(120).
		Pending(alice, 0, ether(30)).
		Run(t)
}

func TestDecayParams(t *testing.T) {
	decay := emission.EpochDecay{
		GenesisTime:    100,
		EpochLength:    60,
		StartingAmount: ether(7_500_000),
		DecayBase:      big.NewInt(813_000_000_000_000_000),
	}
	e := newEnv(t, &emission.Config{Mode: emission.ModeDecay, Decay: decay})
	r := e.rewards()

	assert.True(t, reverts.Is(r.SetEmissionRate(admin, ether(1)), reverts.InvalidParameter))

	decay.EpochLength = 120
	require.NoError(t, r.SetDecayParams(admin, decay))
	cfg, err := r.EmissionConfig()
	require.NoError(t, err)
	assert.Equal(t, uint64(120), cfg.Decay.EpochLength)

	_, err = r.AddPool(admin, lpA, 10)
	require.NoError(t, err)
	assert.True(t, reverts.Is(r.SetDecayParams(admin, decay), reverts.InvalidParameter))
}

func TestDecayScheduleSplitsByWeight(t *testing.T) {
	decay := emission.EpochDecay{
		GenesisTime:    100,
		EpochLength:    60,
		StartingAmount: ether(7_500_000),
		DecayBase:      big.NewInt(813_000_000_000_000_000),
	}
	e := newEnv(t, &emission.Config{Mode: emission.ModeDecay, Decay: decay})
	e.fund(t, lpA, alice, ether(1000))
	e.fund(t, lpB, bob, ether(1000))

	NewSequence(e).
		AddPool(lpA, 40, 0).
		AddPool(lpB, 60, 1).
		Deposit(alice, 0, ether(1000)).
		Deposit(bob, 1, ether(1000)).
		At(101).
		Pending(alice, 0, ether(50_000)).
		Pending(bob, 1, ether(75_000)).
		Run(t)
}

func TestStakeEvents(t *testing.T) {
	e := newEnv(t, fixedRate(ether(1)))
	require.NoError(t, e.tokens().Mint(rewardToken, rewardsAddr, ether(1000)))
	e.fund(t, lpA, alice, ether(100))

	NewSequence(e).
		AddPool(lpA, 10, 0).
		Deposit(alice, 0, ether(100)).
		At(110).
		Withdraw(alice, 0, ether(40)).
		Run(t)

	var names []string
	for _, ev := range e.st.Events() {
		if ev.Address == rewardsAddr {
			names = append(names, ev.Name)
		}
	}
	assert.Equal(t, []string{"PoolAdded", "Deposit", "Withdraw", "Harvest"}, names)
}

func TestSetOwner(t *testing.T) {
	e := newEnv(t, fixedRate(ether(1)))
	r := e.rewards()

	assert.True(t, reverts.Is(r.SetOwner(bob, bob), reverts.Authorization))
	require.NoError(t, r.SetOwner(admin, bob))
	owner, err := r.Owner()
	require.NoError(t, err)
	assert.Equal(t, bob, owner)
	assert.True(t, reverts.Is(r.SetOwner(bob, mill.Address{}), reverts.InvalidParameter))
}

func TestPoolInfoLookup(t *testing.T) {
	e := newEnv(t, fixedRate(ether(1)))
	r := e.rewards()

	_, err := r.PoolInfo(0)
	assert.True(t, reverts.Is(err, reverts.PoolNotFound))

	pid, err := r.AddPool(admin, lpA, 10)
	require.NoError(t, err)
	require.NoError(t, r.RemovePool(admin, lpA))

	// removed pools keep their slot
	pool, err := r.PoolInfo(pid)
	require.NoError(t, err)
	assert.False(t, pool.Active)
	assert.Equal(t, lpA, pool.StakedAsset)

	_, err = r.PoolInfo(pid + 1)
	assert.True(t, reverts.Is(err, reverts.PoolNotFound))
}
