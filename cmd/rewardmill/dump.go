// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"io"
	"math/big"
	"os"

	"github.com/davecgh/go-spew/spew"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/rewardmill/rewardmill/builtin"
	"github.com/rewardmill/rewardmill/builtin/rewards"
	"github.com/rewardmill/rewardmill/mill"
	"github.com/rewardmill/rewardmill/runtime"
)

type vaultDump struct {
	Address         mill.Address
	Underlying      mill.Address
	TotalShares     *big.Int
	TotalUnderlying *big.Int
	Price           *big.Int
	APY             uint64
}

type stateDump struct {
	Now              uint64
	TotalAllocation  uint64
	SpendableRewards *big.Int
	Pools            []*rewards.PoolInfo
	Vault            vaultDump
	StorageSlots     map[string]int
}

func collectDump(ctx context.Context, rt *runtime.Runtime) (*stateDump, error) {
	out := &stateDump{Now: rt.Now()}
	err := rt.Call(ctx, func(env *builtin.Env) (err error) {
		r := builtin.Rewards.WithEnv(env)
		if out.Pools, err = r.Pools(); err != nil {
			return err
		}
		if out.TotalAllocation, err = r.TotalAllocationPoints(); err != nil {
			return err
		}
		if out.SpendableRewards, err = r.SpendableBalance(); err != nil {
			return err
		}

		v := builtin.Vault.WithEnv(env)
		out.Vault.Address = v.Address()
		if out.Vault.Underlying, err = v.Underlying(); err != nil {
			return err
		}
		if out.Vault.TotalShares, err = v.TotalShares(); err != nil {
			return err
		}
		if out.Vault.TotalUnderlying, err = v.TotalUnderlying(); err != nil {
			return err
		}
		if out.Vault.Price, err = v.Price(); err != nil {
			return err
		}
		out.Vault.APY, err = v.EstimateAPY()
		return err
	})
	if err != nil {
		return nil, err
	}

	out.StorageSlots = make(map[string]int)
	for name, addr := range map[string]mill.Address{
		"rewards":   builtin.Rewards.Address,
		"vault":     builtin.Vault.Address,
		"manager":   builtin.Manager.Address,
		"swap":      builtin.Swap.Address,
		"converter": builtin.Converter.Address,
	} {
		if out.StorageSlots[name], err = rt.CommittedSlots(addr); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func writeDump(w io.Writer, d *stateDump) {
	cfg := spew.ConfigState{
		Indent:                  "  ",
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		DisableMethods:          false,
		SortKeys:                true,
	}
	cfg.Fdump(w, d)
}

func dumpAction(ctx *cli.Context) error {
	initLogger(ctx)

	st, _, rt := bootstrap(ctx)
	defer st.close()

	d, err := collectDump(context.Background(), rt)
	if err != nil {
		return err
	}
	writeDump(os.Stdout, d)
	return nil
}
