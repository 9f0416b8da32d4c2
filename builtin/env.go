// Copyright (c) 2018 The VeChainThor developers
// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/rewardmill/rewardmill/builtin/converter"
	"github.com/rewardmill/rewardmill/builtin/manager"
	"github.com/rewardmill/rewardmill/builtin/rewards"
	"github.com/rewardmill/rewardmill/builtin/solidity"
	"github.com/rewardmill/rewardmill/builtin/token"
	"github.com/rewardmill/rewardmill/builtin/vault"
	"github.com/rewardmill/rewardmill/mill"
	"github.com/rewardmill/rewardmill/state"
)

// Env is the state and clock value a call executes against.
type Env struct {
	state *state.State
	now   uint64
}

func NewEnv(state *state.State, now uint64) *Env {
	return &Env{state: state, now: now}
}

func (env *Env) State() *state.State {
	return env.state
}

func (env *Env) Now() uint64 {
	return env.now
}

// Tokens returns the ledger of every token.
func (env *Env) Tokens() *token.Ledger {
	return token.NewLedger(env.state, env.now)
}

func (env *Env) context(addr mill.Address) *solidity.Context {
	return solidity.NewContext(addr, env.state, env.now)
}

func (env *Env) vaultAt(addr mill.Address) *vault.Vault {
	return vault.New(env.context(addr), env.Tokens())
}

type managerContracts struct{ env *Env }

func (m managerContracts) RewardsAt(addr mill.Address) manager.RewardsContract {
	return rewards.New(m.env.context(addr), m.env.Tokens())
}

func (m managerContracts) VaultAt(addr mill.Address) manager.VaultContract {
	return m.env.vaultAt(addr)
}

type converterContracts struct{ env *Env }

func (c converterContracts) VaultAt(addr mill.Address) converter.Vault {
	return c.env.vaultAt(addr)
}
