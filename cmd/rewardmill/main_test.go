// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"context"
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/rewardmill/rewardmill/genesis"
	"github.com/rewardmill/rewardmill/lvldb"
	"github.com/rewardmill/rewardmill/runtime"
	"github.com/rewardmill/rewardmill/state"
)

func newContext(t *testing.T, args ...string) *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range []cli.Flag{clockFlag, clockStartFlag, configFlag, verbosityFlag, jsonLogsFlag} {
		f.Apply(set)
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(nil, set, nil)
}

func TestNewClock(t *testing.T) {
	clock := newClock(newContext(t, "--clock", "manual", "--clock-start", "1234"))
	mc, ok := clock.(*runtime.ManualClock)
	require.True(t, ok)
	assert.Equal(t, uint64(1234), mc.Now())

	_, ok = newClock(newContext(t)).(*runtime.SystemClock)
	assert.True(t, ok)
}

func TestNormalizeCacheSize(t *testing.T) {
	assert.GreaterOrEqual(t, normalizeCacheSize(1), 1)
	assert.LessOrEqual(t, normalizeCacheSize(64), 64)
}

func TestLoadDevConfig(t *testing.T) {
	cfg := loadConfig(newContext(t))
	assert.Equal(t, genesis.DevConfig(), cfg)
}

func TestDump(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	rt := runtime.New(state.New(db), nil, runtime.NewManualClock(1_700_000_000))
	_, err = genesis.Apply(context.Background(), rt, genesis.DevConfig())
	require.NoError(t, err)

	d, err := collectDump(context.Background(), rt)
	require.NoError(t, err)
	assert.Len(t, d.Pools, 4)
	assert.Equal(t, uint64(100), d.TotalAllocation)
	assert.Zero(t, d.Vault.TotalShares.Sign())
	assert.Positive(t, d.StorageSlots["rewards"])
	assert.Positive(t, d.StorageSlots["swap"])

	var buf bytes.Buffer
	writeDump(&buf, d)
	assert.Contains(t, buf.String(), "TotalAllocation: (uint64) 100")
}
