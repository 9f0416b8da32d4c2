// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/rewardmill/rewardmill/builtin/reverts"
	"github.com/rewardmill/rewardmill/mill"
)

var ownerSlot = Slot("owner")

// Owner is the single account allowed to administer a contract.
type Owner struct {
	addr *Address
}

func NewOwner(context *Context) *Owner {
	return &Owner{addr: NewAddress(context, ownerSlot)}
}

func (o *Owner) Get() (mill.Address, error) {
	return o.addr.Get()
}

func (o *Owner) Set(owner mill.Address) {
	o.addr.Set(owner)
}

// Require fails with an authorization revert unless caller is the owner.
func (o *Owner) Require(caller mill.Address) error {
	owner, err := o.addr.Get()
	if err != nil {
		return err
	}
	if owner.IsZero() || owner != caller {
		return reverts.Unauthorized()
	}
	return nil
}
