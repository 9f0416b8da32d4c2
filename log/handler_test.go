// Copyright 2017 The go-ethereum Authors
// Copyright (c) 2026 The RewardMill developers
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONHandlerRendersNumbers(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(JSONHandlerWithLevel(&buf, LevelInfo))

	logger.Info("paid", "amount", big.NewInt(1_000_000), "fee", uint256.NewInt(7), "nil", (*big.Int)(nil))
	logger.Debug("hidden")

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "paid", out["msg"])
	assert.Equal(t, "info", out["lvl"])
	assert.Equal(t, "1000000", out["amount"])
	assert.Equal(t, "7", out["fee"])
	assert.Equal(t, "<nil>", out["nil"])
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestTerminalHandler(t *testing.T) {
	var buf bytes.Buffer
	var level slog.LevelVar
	level.Set(LevelWarn)

	logger := NewLogger(NewTerminalHandlerWithLevel(&buf, &level, false)).New("pkg", "rewards")
	logger.Info("skipped")
	assert.Empty(t, buf.String())

	logger.Warn("low balance", "amount", big.NewInt(5))
	assert.Contains(t, buf.String(), "WARN")
	assert.Contains(t, buf.String(), "low balance")
	assert.Contains(t, buf.String(), "pkg=rewards")
	assert.Contains(t, buf.String(), "amount=5")
}

func TestContextLoggerFollowsRoot(t *testing.T) {
	logger := WithContext("pkg", "test")

	var buf bytes.Buffer
	prev := Root()
	SetDefault(NewLogger(LogfmtHandlerWithLevel(&buf, LevelTrace)))
	defer SetDefault(prev)

	logger.Debug("hello", "k", 1)
	assert.Contains(t, buf.String(), "pkg=test")
	assert.Contains(t, buf.String(), "k=1")
}

func TestLevels(t *testing.T) {
	assert.Equal(t, LevelCrit, FromVerbosity(0))
	assert.Equal(t, LevelInfo, FromVerbosity(3))
	assert.Equal(t, LevelTrace, FromVerbosity(9))

	l, ok := ParseLevel("WARN")
	assert.True(t, ok)
	assert.Equal(t, LevelWarn, l)

	_, ok = ParseLevel("loud")
	assert.False(t, ok)
}
