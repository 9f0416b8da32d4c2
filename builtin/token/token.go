// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token keeps the balances of every fungible asset the engine moves: the reward
// token, staked collateral, swap venue LP shares and collected fee tokens.
package token

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/rewardmill/rewardmill/builtin/reverts"
	"github.com/rewardmill/rewardmill/builtin/solidity"
	"github.com/rewardmill/rewardmill/mill"
	"github.com/rewardmill/rewardmill/state"
)

var (
	slotBalances    = solidity.Slot("balances")
	slotAllowances  = solidity.Slot("allowances")
	slotTotalSupply = solidity.Slot("total-supply")
	slotSymbol      = solidity.Slot("symbol")
)

// Token is the storage of a single asset, kept in the account of the asset's address.
type Token struct {
	ctx         *solidity.Context
	balances    *solidity.Mapping[mill.Address, *big.Int]
	allowances  *solidity.Mapping[solidity.PairKey, *big.Int]
	totalSupply *solidity.Uint256
	symbol      *solidity.Variable[string]
}

func newToken(ctx *solidity.Context) *Token {
	return &Token{
		ctx:         ctx,
		balances:    solidity.NewMapping[mill.Address, *big.Int](ctx, slotBalances),
		allowances:  solidity.NewMapping[solidity.PairKey, *big.Int](ctx, slotAllowances),
		totalSupply: solidity.NewUint256(ctx, slotTotalSupply),
		symbol:      solidity.NewVariable[string](ctx, slotSymbol),
	}
}

func (t *Token) Address() mill.Address {
	return t.ctx.Address()
}

func (t *Token) Symbol() (string, error) {
	return t.symbol.Get()
}

func (t *Token) SetSymbol(symbol string) error {
	return t.symbol.Set(symbol)
}

func (t *Token) TotalSupply() (*big.Int, error) {
	return t.totalSupply.Get()
}

func (t *Token) BalanceOf(account mill.Address) (*big.Int, error) {
	return t.balances.Get(account)
}

func (t *Token) Allowance(owner, spender mill.Address) (*big.Int, error) {
	return t.allowances.Get(solidity.PairKey{A: owner, B: spender})
}

// Approve lets spender move up to amount of owner's balance.
func (t *Token) Approve(owner, spender mill.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return reverts.New(reverts.InvalidParameter, "negative allowance")
	}
	if err := t.allowances.Set(solidity.PairKey{A: owner, B: spender}, amount); err != nil {
		return err
	}
	return t.ctx.Emit("Approval", &approvalEvent{owner, spender, amount},
		solidity.AddressTopic(owner), solidity.AddressTopic(spender))
}

// Transfer moves amount from one account to another.
func (t *Token) Transfer(from, to mill.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return reverts.New(reverts.InvalidParameter, "negative amount")
	}
	if amount.Sign() == 0 || from == to {
		return nil
	}
	fromBal, err := t.balances.Get(from)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return reverts.Newf(reverts.InsufficientBalance, "insufficient %s balance", t.ctx.Address())
	}
	toBal, err := t.balances.Get(to)
	if err != nil {
		return err
	}
	if err := t.balances.Set(from, fromBal.Sub(fromBal, amount)); err != nil {
		return err
	}
	if err := t.balances.Set(to, toBal.Add(toBal, amount)); err != nil {
		return err
	}
	return t.ctx.Emit("Transfer", &transferEvent{from, to, amount},
		solidity.AddressTopic(from), solidity.AddressTopic(to))
}

// TransferFrom moves amount on behalf of from, consuming spender's allowance.
// A contract moving its own balance needs no allowance.
func (t *Token) TransferFrom(spender, from, to mill.Address, amount *big.Int) error {
	if spender != from {
		allowance, err := t.Allowance(from, spender)
		if err != nil {
			return err
		}
		if allowance.Cmp(amount) < 0 {
			return reverts.Newf(reverts.InsufficientBalance, "insufficient %s allowance", t.ctx.Address())
		}
		if err := t.allowances.Set(solidity.PairKey{A: from, B: spender}, allowance.Sub(allowance, amount)); err != nil {
			return err
		}
	}
	return t.Transfer(from, to, amount)
}

// Mint creates amount for to. Used to bootstrap balances and by the swap venue for LP shares.
func (t *Token) Mint(to mill.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return reverts.New(reverts.InvalidParameter, "negative amount")
	}
	bal, err := t.balances.Get(to)
	if err != nil {
		return err
	}
	if err := t.balances.Set(to, bal.Add(bal, amount)); err != nil {
		return err
	}
	if err := t.totalSupply.Add(amount); err != nil {
		return err
	}
	return t.ctx.Emit("Transfer", &transferEvent{mill.Address{}, to, amount},
		solidity.AddressTopic(mill.Address{}), solidity.AddressTopic(to))
}

// Burn destroys amount held by from.
func (t *Token) Burn(from mill.Address, amount *big.Int) error {
	bal, err := t.balances.Get(from)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return reverts.Newf(reverts.InsufficientBalance, "insufficient %s balance", t.ctx.Address())
	}
	if err := t.balances.Set(from, bal.Sub(bal, amount)); err != nil {
		return err
	}
	if err := t.totalSupply.Sub(amount); err != nil {
		return errors.Wrap(err, "burn")
	}
	return t.ctx.Emit("Transfer", &transferEvent{from, mill.Address{}, amount},
		solidity.AddressTopic(from), solidity.AddressTopic(mill.Address{}))
}

type transferEvent struct {
	From   mill.Address `json:"from"`
	To     mill.Address `json:"to"`
	Amount *big.Int     `json:"amount"`
}

type approvalEvent struct {
	Owner   mill.Address `json:"owner"`
	Spender mill.Address `json:"spender"`
	Amount  *big.Int     `json:"amount"`
}

// Ledger gives access to every token in a state at a point in time.
type Ledger struct {
	state *state.State
	now   uint64
}

func NewLedger(state *state.State, now uint64) *Ledger {
	return &Ledger{state: state, now: now}
}

// Token returns the storage of the asset at addr.
func (l *Ledger) Token(addr mill.Address) *Token {
	return newToken(solidity.NewContext(addr, l.state, l.now))
}

func (l *Ledger) BalanceOf(token, account mill.Address) (*big.Int, error) {
	return l.Token(token).BalanceOf(account)
}

func (l *Ledger) Transfer(token, from, to mill.Address, amount *big.Int) error {
	return l.Token(token).Transfer(from, to, amount)
}

func (l *Ledger) TransferFrom(token, spender, from, to mill.Address, amount *big.Int) error {
	return l.Token(token).TransferFrom(spender, from, to, amount)
}

func (l *Ledger) Approve(token, owner, spender mill.Address, amount *big.Int) error {
	return l.Token(token).Approve(owner, spender, amount)
}

func (l *Ledger) Mint(token, to mill.Address, amount *big.Int) error {
	return l.Token(token).Mint(to, amount)
}

func (l *Ledger) Burn(token, from mill.Address, amount *big.Int) error {
	return l.Token(token).Burn(from, amount)
}

func (l *Ledger) TotalSupply(token mill.Address) (*big.Int, error) {
	return l.Token(token).TotalSupply()
}
