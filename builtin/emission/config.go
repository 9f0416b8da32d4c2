// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package emission

import (
	"math/big"

	"github.com/rewardmill/rewardmill/builtin/reverts"
	"github.com/rewardmill/rewardmill/builtin/solidity"
)

// Mode selects the schedule a deployment runs.
type Mode uint8

const (
	ModeNone Mode = iota
	ModeFixed
	ModeDecay
)

func (m Mode) String() string {
	switch m {
	case ModeFixed:
		return "fixed"
	case ModeDecay:
		return "decay"
	default:
		return "none"
	}
}

// ParseMode parses the names produced by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "fixed":
		return ModeFixed, nil
	case "decay":
		return ModeDecay, nil
	}
	return ModeNone, reverts.Newf(reverts.InvalidParameter, "unknown emission mode %q", s)
}

// Config is the persisted form of a schedule.
type Config struct {
	Mode  Mode
	Rate  *big.Int
	Decay EpochDecay
}

// Schedule builds the schedule described by the config.
func (c *Config) Schedule() (Schedule, error) {
	switch c.Mode {
	case ModeFixed:
		return &FixedRate{RatePerSecond: c.Rate}, nil
	case ModeDecay:
		if err := c.Decay.Validate(); err != nil {
			return nil, err
		}
		d := c.Decay
		return &d, nil
	}
	return nil, reverts.New(reverts.NoActiveRewards, "emission is not configured")
}

// Store keeps the schedule config in a contract's storage.
type Store struct {
	config *solidity.Variable[*Config]
}

func NewStore(ctx *solidity.Context) *Store {
	return &Store{config: solidity.NewVariable[*Config](ctx, solidity.Slot("emission"))}
}

func (s *Store) Get() (*Config, error) {
	cfg, err := s.config.Get()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &Config{}
	}
	return cfg, nil
}

func (s *Store) Set(cfg *Config) error {
	if cfg.Mode == ModeDecay {
		if err := cfg.Decay.Validate(); err != nil {
			return err
		}
	}
	if cfg.Mode == ModeFixed && (cfg.Rate == nil || cfg.Rate.Sign() < 0) {
		return reverts.New(reverts.InvalidParameter, "invalid emission rate")
	}
	return s.config.Set(cfg)
}

// Schedule loads the stored schedule.
func (s *Store) Schedule() (Schedule, error) {
	cfg, err := s.Get()
	if err != nil {
		return nil, err
	}
	return cfg.Schedule()
}
