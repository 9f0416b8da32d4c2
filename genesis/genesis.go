// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis deploys the built-in contracts from a config.
package genesis

import (
	"context"

	"github.com/rewardmill/rewardmill/builtin"
	"github.com/rewardmill/rewardmill/log"
	"github.com/rewardmill/rewardmill/mill"
	"github.com/rewardmill/rewardmill/runtime"
)

var logger = log.WithContext("pkg", "genesis")

// NewBuilder translates cfg into genesis steps.
func NewBuilder(cfg *Config) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	// Validate already resolved every name below
	addr := func(name string) mill.Address {
		a, _ := cfg.TokenAddress(name)
		return a
	}
	reward, base := addr(cfg.RewardToken), addr(cfg.BaseToken)
	policy, _ := cfg.emergencyPolicy()

	b := new(Builder).Caller(cfg.Owner)

	b.Step("tokens", func(env *builtin.Env) error {
		ledger := env.Tokens()
		for _, t := range cfg.Tokens {
			tok := ledger.Token(addr(t.Symbol))
			if err := tok.SetSymbol(t.Symbol); err != nil {
				return err
			}
			for _, bal := range t.Balances {
				if err := tok.Mint(bal.Account, bal.Amount.Int()); err != nil {
					return err
				}
			}
		}
		return nil
	})

	b.Step("contracts", func(env *builtin.Env) error {
		launch := cfg.LaunchTime
		if launch == 0 {
			launch = env.Now()
		}
		emissionCfg, err := cfg.emissionConfig(launch)
		if err != nil {
			return err
		}
		if err := builtin.Rewards.WithEnv(env).Initialize(cfg.Owner, reward, emissionCfg, policy); err != nil {
			return err
		}
		if err := builtin.Vault.WithEnv(env).Initialize(cfg.Owner, reward, cfg.SamplingInterval); err != nil {
			return err
		}
		if err := builtin.Manager.WithEnv(env).Initialize(
			cfg.Owner, reward, builtin.Rewards.Address, builtin.Vault.Address, cfg.VestingRatio); err != nil {
			return err
		}
		return builtin.Converter.WithEnv(env).Initialize(cfg.Owner, reward, base, builtin.Vault.Address)
	})

	b.Step("pairs", func(env *builtin.Env) error {
		venue := builtin.Swap.WithEnv(env)
		for _, p := range cfg.Pairs {
			a, b := addr(p.TokenA), addr(p.TokenB)
			if _, err := venue.CreatePair(a, b); err != nil {
				return err
			}
			if p.AmountA == nil || p.AmountB == nil {
				continue
			}
			provider := cfg.Owner
			if p.Provider != nil {
				provider = *p.Provider
			}
			if _, err := venue.AddLiquidity(provider, a, b, p.AmountA.Int(), p.AmountB.Int()); err != nil {
				return err
			}
		}
		return nil
	})

	b.Step("pools", func(env *builtin.Env) error {
		r := builtin.Rewards.WithEnv(env)
		for _, p := range cfg.Pools {
			if _, err := r.AddPool(cfg.Owner, addr(p.Asset), p.Points); err != nil {
				return err
			}
		}
		return nil
	})

	b.Step("bridges", func(env *builtin.Env) error {
		c := builtin.Converter.WithEnv(env)
		for _, br := range cfg.Bridges {
			if err := c.SetBridge(cfg.Owner, addr(br.Token), addr(br.Bridge)); err != nil {
				return err
			}
		}
		return nil
	})
	return b, nil
}

// Initialized reports whether genesis has already been applied.
func Initialized(ctx context.Context, rt *runtime.Runtime) (bool, error) {
	var owner mill.Address
	err := rt.Call(ctx, func(env *builtin.Env) (err error) {
		owner, err = builtin.Rewards.WithEnv(env).Owner()
		return
	})
	return !owner.IsZero(), err
}

// Apply deploys cfg unless the state was already initialized. It returns nil receipt in
// that case.
func Apply(ctx context.Context, rt *runtime.Runtime, cfg *Config) (*runtime.Receipt, error) {
	ok, err := Initialized(ctx, rt)
	if err != nil {
		return nil, err
	}
	if ok {
		logger.Info("genesis already applied")
		return nil, nil
	}
	b, err := NewBuilder(cfg)
	if err != nil {
		return nil, err
	}
	receipt, err := b.Build(ctx, rt)
	if err != nil {
		return nil, err
	}
	logger.Info("genesis applied", "time", receipt.Time, "pools", len(cfg.Pools), "pairs", len(cfg.Pairs), "events", len(receipt.Events))
	return receipt, nil
}
