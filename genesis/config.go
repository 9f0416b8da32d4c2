// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/rewardmill/rewardmill/builtin"
	"github.com/rewardmill/rewardmill/builtin/emission"
	"github.com/rewardmill/rewardmill/builtin/rewards"
	"github.com/rewardmill/rewardmill/mill"
)

// Config describes a deployment.
type Config struct {
	// LaunchTime anchors the decay schedule. Zero means the time genesis is applied.
	LaunchTime uint64 `yaml:"launchTime"`

	Owner       mill.Address `yaml:"owner"`
	RewardToken string       `yaml:"rewardToken"`
	BaseToken   string       `yaml:"baseToken"`
	Tokens      []Token      `yaml:"tokens"`

	Emission         Emission `yaml:"emission"`
	EmergencyPolicy  string   `yaml:"emergencyPolicy"`
	VestingRatio     uint64   `yaml:"vestingRatioBps"`
	SamplingInterval uint64   `yaml:"samplingInterval"`

	Pairs   []Pair   `yaml:"pairs"`
	Pools   []Pool   `yaml:"pools"`
	Bridges []Bridge `yaml:"bridges"`
}

// Token is an asset known at genesis, with its initial holders.
type Token struct {
	Symbol   string        `yaml:"symbol"`
	Address  *mill.Address `yaml:"address,omitempty"`
	Balances []Balance     `yaml:"balances"`
}

type Balance struct {
	Account mill.Address `yaml:"account"`
	Amount  *Amount      `yaml:"amount"`
}

// Emission selects and parameterizes the reward schedule.
type Emission struct {
	Mode           string  `yaml:"mode"`
	Rate           *Amount `yaml:"rate,omitempty"`
	EpochLength    uint64  `yaml:"epochLength,omitempty"`
	StartingAmount *Amount `yaml:"startingAmount,omitempty"`
	DecayBase      *Amount `yaml:"decayBase,omitempty"`
}

// Pair seeds a swap pair. Provider defaults to the owner.
type Pair struct {
	TokenA   string        `yaml:"tokenA"`
	TokenB   string        `yaml:"tokenB"`
	AmountA  *Amount       `yaml:"amountA"`
	AmountB  *Amount       `yaml:"amountB"`
	Provider *mill.Address `yaml:"provider,omitempty"`
}

// Pool whitelists a staked asset. Asset is a token symbol, or "A/B" for the LP token of a pair.
type Pool struct {
	Asset  string `yaml:"asset"`
	Points uint64 `yaml:"points"`
}

type Bridge struct {
	Token  string `yaml:"token"`
	Bridge string `yaml:"bridge"`
}

// LoadConfig reads a yaml config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis config")
	}
	return ParseConfig(data)
}

// ParseConfig decodes a yaml config, rejecting unknown fields.
func ParseConfig(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode genesis config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// TokenAddress resolves a token symbol. An "A/B" name resolves to the LP token of the pair.
func (c *Config) TokenAddress(name string) (mill.Address, error) {
	if a, b, ok := strings.Cut(name, "/"); ok {
		addrA, err := c.TokenAddress(a)
		if err != nil {
			return mill.Address{}, err
		}
		addrB, err := c.TokenAddress(b)
		if err != nil {
			return mill.Address{}, err
		}
		return builtin.Swap.PairAddress(addrA, addrB), nil
	}
	for _, t := range c.Tokens {
		if t.Symbol == name {
			if t.Address != nil {
				return *t.Address, nil
			}
			return mill.NameToAddress(t.Symbol), nil
		}
	}
	return mill.Address{}, fmt.Errorf("unknown token %q", name)
}

func (c *Config) emergencyPolicy() (rewards.EmergencyPolicy, error) {
	switch c.EmergencyPolicy {
	case "", "forfeit":
		return rewards.EmergencyForfeit, nil
	case "disabled":
		return rewards.EmergencyDisabled, nil
	}
	return 0, fmt.Errorf("unknown emergency policy %q", c.EmergencyPolicy)
}

// emissionConfig builds the schedule config. genesisTime anchors the decay epochs.
func (c *Config) emissionConfig(genesisTime uint64) (*emission.Config, error) {
	mode, err := emission.ParseMode(c.Emission.Mode)
	if err != nil {
		return nil, err
	}
	cfg := &emission.Config{Mode: mode}
	switch mode {
	case emission.ModeFixed:
		if c.Emission.Rate == nil {
			return nil, errors.New("fixed emission requires a rate")
		}
		cfg.Rate = c.Emission.Rate.Int()
	case emission.ModeDecay:
		if c.Emission.StartingAmount == nil || c.Emission.DecayBase == nil {
			return nil, errors.New("decay emission requires startingAmount and decayBase")
		}
		cfg.Decay = emission.EpochDecay{
			GenesisTime:    genesisTime,
			EpochLength:    c.Emission.EpochLength,
			StartingAmount: c.Emission.StartingAmount.Int(),
			DecayBase:      c.Emission.DecayBase.Int(),
		}
		if err := cfg.Decay.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Validate checks everything that can be checked without state.
func (c *Config) Validate() error {
	if c.Owner.IsZero() {
		return errors.New("owner must be set")
	}
	seen := make(map[string]bool)
	for _, t := range c.Tokens {
		if t.Symbol == "" || strings.Contains(t.Symbol, "/") {
			return fmt.Errorf("invalid token symbol %q", t.Symbol)
		}
		if seen[t.Symbol] {
			return fmt.Errorf("duplicated token %q", t.Symbol)
		}
		seen[t.Symbol] = true
		for _, b := range t.Balances {
			if b.Amount == nil || b.Amount.Int().Sign() <= 0 {
				return fmt.Errorf("%s: balance of %s must be positive", t.Symbol, b.Account)
			}
		}
	}
	reward, err := c.TokenAddress(c.RewardToken)
	if err != nil {
		return errors.Wrap(err, "reward token")
	}
	base, err := c.TokenAddress(c.BaseToken)
	if err != nil {
		return errors.Wrap(err, "base token")
	}
	if reward == base {
		return errors.New("base token equals reward token")
	}
	if c.VestingRatio > mill.BasisPoints {
		return fmt.Errorf("vesting ratio %d exceeds %d bps", c.VestingRatio, mill.BasisPoints)
	}
	if _, err := c.emergencyPolicy(); err != nil {
		return err
	}
	if _, err := c.emissionConfig(c.LaunchTime); err != nil {
		return errors.Wrap(err, "emission")
	}
	for _, p := range c.Pairs {
		if _, err := c.TokenAddress(p.TokenA + "/" + p.TokenB); err != nil {
			return errors.Wrap(err, "pair")
		}
	}
	for _, p := range c.Pools {
		if _, err := c.TokenAddress(p.Asset); err != nil {
			return errors.Wrap(err, "pool")
		}
		if p.Points == 0 {
			return fmt.Errorf("pool %s: points must be positive", p.Asset)
		}
	}
	for _, b := range c.Bridges {
		if _, err := c.TokenAddress(b.Token); err != nil {
			return errors.Wrap(err, "bridge")
		}
		if _, err := c.TokenAddress(b.Bridge); err != nil {
			return errors.Wrap(err, "bridge")
		}
	}
	return nil
}
