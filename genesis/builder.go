// Copyright (c) 2018 The VeChainThor developers
// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"context"

	"github.com/pkg/errors"

	"github.com/rewardmill/rewardmill/builtin"
	"github.com/rewardmill/rewardmill/mill"
	"github.com/rewardmill/rewardmill/runtime"
)

// Builder helper to build the initial state.
type Builder struct {
	caller mill.Address
	procs  []proc
}

type proc struct {
	name string
	fn   func(env *builtin.Env) error
}

// Caller sets the address genesis executes as.
func (b *Builder) Caller(caller mill.Address) *Builder {
	b.caller = caller
	return b
}

// Step adds a named state process.
func (b *Builder) Step(name string, fn func(env *builtin.Env) error) *Builder {
	b.procs = append(b.procs, proc{name, fn})
	return b
}

// Build runs every step as a single call. A failing step discards all of them.
func (b *Builder) Build(ctx context.Context, rt *runtime.Runtime) (*runtime.Receipt, error) {
	return rt.Execute(ctx, b.caller, "genesis", func(env *builtin.Env) error {
		for _, p := range b.procs {
			if err := p.fn(env); err != nil {
				return errors.Wrap(err, p.name)
			}
		}
		return nil
	})
}
