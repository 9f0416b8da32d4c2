// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Clock supplies the timestamp, in unix seconds, a call executes at.
type Clock interface {
	Now() uint64
}

// SystemClock reads the wall clock. The returned value never decreases, even if the
// wall clock is stepped backwards.
type SystemClock struct {
	lock sync.Mutex
	last uint64
}

func NewSystemClock() *SystemClock {
	return &SystemClock{}
}

func (c *SystemClock) Now() uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	if now := uint64(time.Now().Unix()); now > c.last {
		c.last = now
	}
	return c.last
}

// ManualClock only moves when told to.
type ManualClock struct {
	lock sync.Mutex
	now  uint64
}

func NewManualClock(start uint64) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.now
}

// Advance moves the clock forward by the given seconds and returns the new time.
func (c *ManualClock) Advance(seconds uint64) uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.now += seconds
	return c.now
}

// Set moves the clock to t.
func (c *ManualClock) Set(t uint64) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if t < c.now {
		return errors.Errorf("clock cannot go backwards: %d < %d", t, c.now)
	}
	c.now = t
	return nil
}
