// Copyright (c) 2025 The VeChainThor developers
// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestReverts(t *testing.T) {
	revert := New(InsufficientStake, "withdraw exceeds stake")
	assert.Equal(t, "withdraw exceeds stake", revert.Error())
	assert.Equal(t, InsufficientStake, revert.Kind())

	assert.True(t, IsRevertErr(revert))
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(fmt.Errorf("test")))
	assert.False(t, IsRevertErr(big.NewInt(0)))

	wrapped := errors.Wrap(revert, "deposit")
	assert.True(t, IsRevertErr(wrapped))
	assert.True(t, Is(wrapped, InsufficientStake))
	assert.False(t, Is(wrapped, PoolNotFound))
}

func TestKindNames(t *testing.T) {
	assert.Equal(t, "AuthorizationError", Unauthorized().Kind().String())
	assert.Equal(t, "cannot convert", CannotConvert().Error())
	assert.Equal(t, "invalid bridge", InvalidBridge().Error())
	assert.Equal(t, "Kind(99)", Kind(99).String())

	text, err := PoolNotFound.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "PoolNotFound", string(text))
}
