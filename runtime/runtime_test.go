// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewardmill/rewardmill/builtin"
	"github.com/rewardmill/rewardmill/builtin/reverts"
	"github.com/rewardmill/rewardmill/logdb"
	"github.com/rewardmill/rewardmill/lvldb"
	"github.com/rewardmill/rewardmill/mill"
	"github.com/rewardmill/rewardmill/runtime"
	"github.com/rewardmill/rewardmill/state"
)

var (
	mill1 = mill.NameToAddress("MILL")
	alice = mill.NameToAddress("alice")
	bob   = mill.NameToAddress("bob")
)

func newRuntime(t *testing.T) (*runtime.Runtime, *runtime.ManualClock, *logdb.LogDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	ldb, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() {
		ldb.Close()
		db.Close()
	})
	clock := runtime.NewManualClock(1000)
	return runtime.New(state.New(db), ldb, clock), clock, ldb
}

func mint(to mill.Address, amount int64) func(*builtin.Env) error {
	return func(env *builtin.Env) error {
		return env.Tokens().Mint(mill1, to, big.NewInt(amount))
	}
}

func balanceOf(t *testing.T, rt *runtime.Runtime, who mill.Address) *big.Int {
	var bal *big.Int
	require.NoError(t, rt.Call(context.Background(), func(env *builtin.Env) (err error) {
		bal, err = env.Tokens().BalanceOf(mill1, who)
		return
	}))
	return bal
}

func TestExecuteCommits(t *testing.T) {
	rt, _, ldb := newRuntime(t)
	ctx := context.Background()

	receipt, err := rt.Execute(ctx, alice, "mint", mint(alice, 100))
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.ID)
	assert.Equal(t, uint64(1000), receipt.Time)
	assert.Equal(t, alice, receipt.Caller)
	require.Len(t, receipt.Events, 1)
	assert.Equal(t, "Transfer", receipt.Events[0].Name)
	assert.Equal(t, receipt, rt.LatestReceipt())

	assert.Equal(t, "100", balanceOf(t, rt, alice).String())

	indexed, err := ldb.FilterEvents(ctx, &logdb.EventFilter{ReceiptID: receipt.ID})
	require.NoError(t, err)
	require.Len(t, indexed, 1)
	assert.Equal(t, mill1, indexed[0].Address)
}

func TestExecuteRevertsEverything(t *testing.T) {
	rt, _, ldb := newRuntime(t)
	ctx := context.Background()

	_, err := rt.Execute(ctx, alice, "mint", mint(alice, 100))
	require.NoError(t, err)

	_, err = rt.Execute(ctx, alice, "transfer", func(env *builtin.Env) error {
		tokens := env.Tokens()
		if err := tokens.Transfer(mill1, alice, bob, big.NewInt(60)); err != nil {
			return err
		}
		// fails after a successful write
		return tokens.Transfer(mill1, alice, bob, big.NewInt(60))
	})
	assert.True(t, reverts.Is(err, reverts.InsufficientBalance))

	assert.Equal(t, "100", balanceOf(t, rt, alice).String())
	assert.Equal(t, "0", balanceOf(t, rt, bob).String())

	events, err := ldb.FilterEvents(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestExecuteRecoversPanic(t *testing.T) {
	rt, _, _ := newRuntime(t)

	_, err := rt.Execute(context.Background(), alice, "boom", func(env *builtin.Env) error {
		if err := mint(alice, 5)(env); err != nil {
			return err
		}
		panic("boom")
	})
	assert.ErrorContains(t, err, "boom")
	assert.Equal(t, "0", balanceOf(t, rt, alice).String())
}

func TestExecuteCancelled(t *testing.T) {
	rt, _, _ := newRuntime(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := rt.Execute(ctx, alice, "mint", mint(alice, 1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCallDiscardsWrites(t *testing.T) {
	rt, _, _ := newRuntime(t)

	require.NoError(t, rt.Call(context.Background(), mint(alice, 100)))
	assert.Equal(t, "0", balanceOf(t, rt, alice).String())
}

func TestTimeIsMonotonic(t *testing.T) {
	rt, clock, _ := newRuntime(t)
	ctx := context.Background()

	clock.Advance(50)
	r1, err := rt.Execute(ctx, alice, "mint", mint(alice, 1))
	require.NoError(t, err)
	assert.Equal(t, uint64(1050), r1.Time)

	assert.Error(t, clock.Set(1049))
	require.NoError(t, clock.Set(1050))

	var seen uint64
	_, err = rt.Execute(ctx, alice, "now", func(env *builtin.Env) error {
		seen = env.Now()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1050), seen)
	assert.Equal(t, uint64(1050), rt.Now())
}

func TestSystemClockNeverDecreases(t *testing.T) {
	clock := runtime.NewSystemClock()
	prev := clock.Now()
	for range 100 {
		now := clock.Now()
		assert.GreaterOrEqual(t, now, prev)
		prev = now
	}
}

func TestWaiterFiresOnCommit(t *testing.T) {
	rt, _, _ := newRuntime(t)
	w := rt.NewWaiter()

	_, err := rt.Execute(context.Background(), alice, "mint", mint(alice, 1))
	require.NoError(t, err)

	select {
	case <-w.C():
	case <-time.After(time.Second):
		t.Fatal("waiter not fired")
	}
}
