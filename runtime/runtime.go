// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime executes calls against the built-in contracts one at a time.
// A call either commits all its storage writes and events or none of them.
package runtime

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pborman/uuid"
	"github.com/pkg/errors"

	"github.com/rewardmill/rewardmill/builtin"
	"github.com/rewardmill/rewardmill/builtin/reverts"
	"github.com/rewardmill/rewardmill/co"
	"github.com/rewardmill/rewardmill/log"
	"github.com/rewardmill/rewardmill/logdb"
	"github.com/rewardmill/rewardmill/mill"
	"github.com/rewardmill/rewardmill/state"
)

var logger = log.WithContext("pkg", "runtime")

// Receipt describes a committed call.
type Receipt struct {
	ID     string         `json:"id"`
	Time   uint64         `json:"time"`
	Caller mill.Address   `json:"caller"`
	Method string         `json:"method"`
	Events []*state.Event `json:"events"`
}

// Runtime is the sequential scheduler of state transitions.
type Runtime struct {
	lock     sync.Mutex
	state    *state.State
	logDB    *logdb.LogDB
	clock    Clock
	lastTime uint64

	latest atomic.Pointer[Receipt]
	feed   co.Signal
}

// New creates a runtime. logDB may be nil, in which case events are not indexed.
func New(st *state.State, logDB *logdb.LogDB, clock Clock) *Runtime {
	return &Runtime{
		state: st,
		logDB: logDB,
		clock: clock,
	}
}

func (rt *Runtime) Clock() Clock {
	return rt.clock
}

// Now returns the time the next call would execute at.
func (rt *Runtime) Now() uint64 {
	rt.lock.Lock()
	defer rt.lock.Unlock()
	return rt.now()
}

func (rt *Runtime) now() uint64 {
	if now := rt.clock.Now(); now > rt.lastTime {
		return now
	}
	return rt.lastTime
}

// LatestReceipt returns the receipt of the last committed call, nil if none.
func (rt *Runtime) LatestReceipt() *Receipt {
	return rt.latest.Load()
}

// NewWaiter returns a waiter fired after each committed call.
func (rt *Runtime) NewWaiter() co.Waiter {
	return rt.feed.NewWaiter()
}

// run invokes fn and turns a panic into an error.
func run(env *builtin.Env, fn func(*builtin.Env) error) (err error) {
	defer func() {
		if e := recover(); e != nil {
			err = fmt.Errorf("panic: %v", e)
		}
	}()
	return fn(env)
}

// Execute runs fn as one atomic state transition on behalf of caller. On error every
// write made by fn is discarded and no receipt is produced.
func (rt *Runtime) Execute(ctx context.Context, caller mill.Address, method string, fn func(*builtin.Env) error) (*Receipt, error) {
	rt.lock.Lock()
	defer rt.lock.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	now := rt.now()
	env := builtin.NewEnv(rt.state, now)
	rev := rt.state.NewCheckpoint()

	if err := run(env, fn); err != nil {
		rt.state.RevertTo(rev)
		status := "error"
		if reverts.IsRevertErr(err) {
			status = "reverted"
		}
		metricTxCount().AddWithLabel(1, map[string]string{"method": method, "status": status})
		logger.Debug("call rejected", "method", method, "caller", caller, "err", err)
		return nil, err
	}

	events, err := rt.state.Commit()
	if err != nil {
		return nil, errors.Wrap(err, "commit state")
	}
	rt.lastTime = now

	receipt := &Receipt{
		ID:     uuid.New(),
		Time:   now,
		Caller: caller,
		Method: method,
		Events: events,
	}
	if rt.logDB != nil {
		if err := rt.logDB.Prepare(receipt.ID, now, caller).Insert(events).Commit(); err != nil {
			logger.Error("failed to index events", "receipt", receipt.ID, "err", err)
		}
	}

	metricTxCount().AddWithLabel(1, map[string]string{"method": method, "status": "success"})
	metricTxDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"method": method})
	metricEventCount().Add(int64(len(events)))
	logger.Debug("call committed", "method", method, "caller", caller, "receipt", receipt.ID, "events", len(events))

	rt.latest.Store(receipt)
	rt.feed.Broadcast()
	return receipt, nil
}

// Call runs fn against the current state and discards whatever it writes.
func (rt *Runtime) Call(ctx context.Context, fn func(*builtin.Env) error) error {
	rt.lock.Lock()
	defer rt.lock.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	rev := rt.state.NewCheckpoint()
	defer rt.state.RevertTo(rev)

	return run(builtin.NewEnv(rt.state, rt.now()), fn)
}

// CommittedSlots counts the committed storage slots of the contract at addr.
func (rt *Runtime) CommittedSlots(addr mill.Address) (int, error) {
	rt.lock.Lock()
	defer rt.lock.Unlock()
	return rt.state.CommittedSlots(addr)
}
