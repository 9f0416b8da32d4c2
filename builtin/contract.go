// Copyright (c) 2018 The VeChainThor developers
// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import "github.com/rewardmill/rewardmill/mill"

type contract struct {
	name    string
	Address mill.Address
}

func newContract(name string) *contract {
	return &contract{
		name,
		mill.NameToAddress(name),
	}
}

func (c *contract) Name() string {
	return c.name
}
