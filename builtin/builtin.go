// Copyright (c) 2018 The VeChainThor developers
// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/rewardmill/rewardmill/builtin/converter"
	"github.com/rewardmill/rewardmill/builtin/manager"
	"github.com/rewardmill/rewardmill/builtin/rewards"
	"github.com/rewardmill/rewardmill/builtin/swap"
	"github.com/rewardmill/rewardmill/builtin/vault"
	"github.com/rewardmill/rewardmill/mill"
)

// Builtin contracts binding.
var (
	Rewards   = &rewardsContract{newContract("Rewards")}
	Vault     = &vaultContract{newContract("Vault")}
	Manager   = &managerContract{newContract("Manager")}
	Swap      = &swapContract{newContract("Swap")}
	Converter = &converterContract{newContract("Converter")}
)

type (
	rewardsContract   struct{ *contract }
	vaultContract     struct{ *contract }
	managerContract   struct{ *contract }
	swapContract      struct{ *contract }
	converterContract struct{ *contract }
)

func (c *rewardsContract) WithEnv(env *Env) *rewards.Rewards {
	return rewards.New(env.context(c.Address), env.Tokens())
}

func (c *vaultContract) WithEnv(env *Env) *vault.Vault {
	return env.vaultAt(c.Address)
}

func (c *managerContract) WithEnv(env *Env) *manager.Manager {
	return manager.New(env.context(c.Address), env.Tokens(), managerContracts{env})
}

func (c *swapContract) WithEnv(env *Env) *swap.Venue {
	return swap.New(env.context(c.Address), env.Tokens())
}

// PairAddress derives the address of a pair without touching state.
func (c *swapContract) PairAddress(a, b mill.Address) mill.Address {
	return swap.PairAddress(c.Address, a, b)
}

func (c *converterContract) WithEnv(env *Env) *converter.Converter {
	return converter.New(env.context(c.Address), env.Tokens(), Swap.WithEnv(env), converterContracts{env})
}

// IsBuiltin reports whether addr is the address of a built-in contract.
func IsBuiltin(addr mill.Address) bool {
	for _, c := range []*contract{Rewards.contract, Vault.contract, Manager.contract, Swap.contract, Converter.contract} {
		if c.Address == addr {
			return true
		}
	}
	return false
}
