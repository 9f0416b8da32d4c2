// Copyright (c) 2025 The VeChainThor developers
// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"time"

	"github.com/beevik/ntp"
	"github.com/ethereum/go-ethereum/common"

	"github.com/rewardmill/rewardmill/runtime"
)

const (
	clockSyncInterval = 10 * time.Minute
	maxClockOffset    = 5 * time.Second
)

// houseKeeping logs committed calls and watches the system clock until ctx is done.
func houseKeeping(ctx context.Context, rt *runtime.Runtime, ntpServer string) error {
	logger.Debug("enter house keeping")
	defer logger.Debug("leave house keeping")

	waiter := rt.NewWaiter()

	var clockSync <-chan time.Time
	if _, system := rt.Clock().(*runtime.SystemClock); system && ntpServer != "" {
		ticker := time.NewTicker(clockSyncInterval)
		defer ticker.Stop()
		clockSync = ticker.C
		go checkClockOffset(ntpServer)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-waiter.C():
			if r := rt.LatestReceipt(); r != nil {
				logger.Debug("committed", "id", r.ID, "method", r.Method, "caller", r.Caller, "events", len(r.Events))
			}
		case <-clockSync:
			go checkClockOffset(ntpServer)
		}
	}
}

func checkClockOffset(server string) {
	resp, err := ntp.Query(server)
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	offset := resp.ClockOffset
	if offset < 0 {
		offset = -offset
	}
	if offset > maxClockOffset {
		logger.Warn("clock offset detected, reward accrual follows the local clock", "offset", common.PrettyDuration(resp.ClockOffset))
	}
}
