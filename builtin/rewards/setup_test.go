// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewardmill/rewardmill/builtin/emission"
	"github.com/rewardmill/rewardmill/builtin/solidity"
	"github.com/rewardmill/rewardmill/builtin/token"
	"github.com/rewardmill/rewardmill/lvldb"
	"github.com/rewardmill/rewardmill/mill"
	"github.com/rewardmill/rewardmill/state"
)

var (
	rewardsAddr = mill.NameToAddress("Rewards")
	rewardToken = mill.NameToAddress("MILL")
	admin       = mill.NameToAddress("admin")
	alice       = mill.NameToAddress("alice")
	bob         = mill.NameToAddress("bob")
	lpA         = mill.NameToAddress("LP-A")
	lpB         = mill.NameToAddress("LP-B")
)

func decimal(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("invalid decimal " + s)
	}
	return v
}

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

// env is a rewards deployment whose clock is set by the test.
type env struct {
	st  *state.State
	now uint64
}

func newEnv(t *testing.T, cfg *emission.Config) *env {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	e := &env{st: state.New(db), now: 100}
	require.NoError(t, e.rewards().Initialize(admin, rewardToken, cfg, EmergencyForfeit))
	return e
}

func fixedRate(rate *big.Int) *emission.Config {
	return &emission.Config{Mode: emission.ModeFixed, Rate: rate}
}

func (e *env) rewards() *Rewards {
	return New(solidity.NewContext(rewardsAddr, e.st, e.now), e.tokens())
}

func (e *env) tokens() *token.Ledger {
	return token.NewLedger(e.st, e.now)
}

// fund mints asset to account and approves the rewards contract to pull it.
func (e *env) fund(t *testing.T, asset, account mill.Address, amount *big.Int) {
	require.NoError(t, e.tokens().Mint(asset, account, amount))
	require.NoError(t, e.tokens().Approve(asset, account, rewardsAddr, amount))
}

func (e *env) balance(t *testing.T, asset, account mill.Address) *big.Int {
	bal, err := e.tokens().BalanceOf(asset, account)
	require.NoError(t, err)
	return bal
}

type TestFunc func(t *testing.T)

type TestSequence struct {
	env *env

	funcs []TestFunc
	mu    sync.Mutex
}

func NewSequence(e *env) *TestSequence {
	return &TestSequence{funcs: make([]TestFunc, 0), env: e}
}

func (st *TestSequence) AddFunc(f TestFunc) *TestSequence {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.funcs = append(st.funcs, f)
	return st
}

func (st *TestSequence) At(now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		st.env.now = now
	})
}

func (st *TestSequence) AddPool(asset mill.Address, points uint64, expectedPID uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		pid, err := st.env.rewards().AddPool(admin, asset, points)
		if err != nil {
			t.Fatalf("failed to add pool for %s: %v", asset, err)
		}
		assert.Equal(t, expectedPID, pid)
		t.Logf("added pool %d for %s", pid, asset)
	})
}

func (st *TestSequence) SetAllocation(pid, points uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.env.rewards().SetAllocation(admin, pid, points); err != nil {
			t.Fatalf("failed to set allocation of pool %d: %v", pid, err)
		}
	})
}

func (st *TestSequence) RemovePool(asset mill.Address) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.env.rewards().RemovePool(admin, asset); err != nil {
			t.Fatalf("failed to remove pool for %s: %v", asset, err)
		}
	})
}

func (st *TestSequence) Deposit(user mill.Address, pid uint64, amount *big.Int) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		paid, err := st.env.rewards().Deposit(user, pid, amount)
		if err != nil {
			t.Fatalf("failed to deposit %s for %s into pool %d: %v", amount, user, pid, err)
		}
		t.Logf("deposited %s for %s, harvested %s", amount, user, paid)
	})
}

func (st *TestSequence) Withdraw(user mill.Address, pid uint64, amount *big.Int) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		paid, err := st.env.rewards().Withdraw(user, pid, amount)
		if err != nil {
			t.Fatalf("failed to withdraw %s for %s from pool %d: %v", amount, user, pid, err)
		}
		t.Logf("withdrew %s for %s, harvested %s", amount, user, paid)
	})
}

func (st *TestSequence) Harvest(user mill.Address, pid uint64, expected *big.Int) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		paid, err := st.env.rewards().Harvest(user, pid)
		if err != nil {
			t.Fatalf("failed to harvest pool %d for %s: %v", pid, user, err)
		}
		assert.Equal(t, expected.String(), paid.String(), "harvest of %s from pool %d", user, pid)
	})
}

func (st *TestSequence) Pending(user mill.Address, pid uint64, expected *big.Int) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		pending, err := st.env.rewards().PendingReward(pid, user)
		if err != nil {
			t.Fatalf("failed to read pending reward of %s in pool %d: %v", user, pid, err)
		}
		assert.Equal(t, expected.String(), pending.String(), "pending reward of %s in pool %d", user, pid)
	})
}

func (st *TestSequence) Run(t *testing.T) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, f := range st.funcs {
		f(t)
	}
}

type PoolAssertions struct {
	env *env
	pid uint64

	active      *bool
	points      *uint64
	totalStaked *big.Int
	lastReward  *uint64
}

func AssertPool(e *env, pid uint64) *PoolAssertions {
	return &PoolAssertions{env: e, pid: pid}
}

func (pa *PoolAssertions) Active(expected bool) *PoolAssertions {
	pa.active = &expected
	return pa
}

func (pa *PoolAssertions) Points(expected uint64) *PoolAssertions {
	pa.points = &expected
	return pa
}

func (pa *PoolAssertions) TotalStaked(expected *big.Int) *PoolAssertions {
	pa.totalStaked = expected
	return pa
}

func (pa *PoolAssertions) LastRewardTime(expected uint64) *PoolAssertions {
	pa.lastReward = &expected
	return pa
}

func (pa *PoolAssertions) Assert(t *testing.T) {
	pool, err := pa.env.rewards().PoolInfo(pa.pid)
	require.NoError(t, err, "failed to get pool %d", pa.pid)

	if pa.active != nil {
		assert.Equal(t, *pa.active, pool.Active, "pool %d active mismatch", pa.pid)
	}
	if pa.points != nil {
		assert.Equal(t, *pa.points, pool.AllocationPoints, "pool %d points mismatch", pa.pid)
	}
	if pa.totalStaked != nil {
		assert.Equal(t, pa.totalStaked.String(), pool.TotalStaked.String(), "pool %d total staked mismatch", pa.pid)
	}
	if pa.lastReward != nil {
		assert.Equal(t, *pa.lastReward, pool.LastRewardTime, "pool %d last reward time mismatch", pa.pid)
	}
}
