// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package converter

import (
	"math/big"

	"github.com/rewardmill/rewardmill/builtin/reverts"
	"github.com/rewardmill/rewardmill/builtin/solidity"
	"github.com/rewardmill/rewardmill/mill"
)

type hop struct {
	pair    mill.Address
	tokenIn mill.Address
}

// Route is the chain of tokens a conversion of one token walks, ending at the reward token.
func (c *Converter) Route(token mill.Address) ([]mill.Address, error) {
	hops, err := c.route(token)
	if err != nil {
		return nil, err
	}
	path := make([]mill.Address, 0, len(hops)+1)
	for _, h := range hops {
		path = append(path, h.tokenIn)
	}
	rewardToken, err := c.rewardToken.Get()
	if err != nil {
		return nil, err
	}
	return append(path, rewardToken), nil
}

// route plans every swap needed to turn token into the reward token. Nothing is traded.
func (c *Converter) route(token mill.Address) ([]hop, error) {
	rewardToken, err := c.rewardToken.Get()
	if err != nil {
		return nil, err
	}
	baseToken, err := c.baseToken.Get()
	if err != nil {
		return nil, err
	}

	var (
		hops    []hop
		visited = map[mill.Address]bool{token: true}
	)
	for cur := token; cur != rewardToken; {
		if len(hops) == mill.MaxBridgeDepth {
			return nil, reverts.InvalidBridge()
		}
		next := rewardToken
		if cur != baseToken {
			if next, err = c.BridgeFor(cur); err != nil {
				return nil, err
			}
		}
		if visited[next] {
			return nil, reverts.InvalidBridge()
		}
		pair, ok, err := c.venue.GetPool(cur, next)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, reverts.CannotConvert()
		}
		hops = append(hops, hop{pair: pair, tokenIn: cur})
		visited[next] = true
		cur = next
	}
	return hops, nil
}

// routeThrough plans the conversion of token redeemed from its pair with other. When other is
// the reward or base token, token is sold into the pair itself.
func (c *Converter) routeThrough(token, other, pair mill.Address) ([]hop, error) {
	rewardToken, err := c.rewardToken.Get()
	if err != nil {
		return nil, err
	}
	baseToken, err := c.baseToken.Get()
	if err != nil {
		return nil, err
	}
	if token == rewardToken || (other != rewardToken && other != baseToken) {
		return c.route(token)
	}
	rest, err := c.route(other)
	if err != nil {
		return nil, err
	}
	return append([]hop{{pair: pair, tokenIn: token}}, rest...), nil
}

func (c *Converter) walk(hops []hop, amount *big.Int) (*big.Int, error) {
	var err error
	for _, h := range hops {
		if amount.Sign() == 0 {
			break
		}
		if amount, err = c.venue.Swap(c.ctx.Address(), h.pair, h.tokenIn, amount, nil, c.ctx.Address()); err != nil {
			return nil, err
		}
	}
	return amount, nil
}

// Convert redeems the converter's LP holding of the token0/token1 pair, converts both sides
// into the reward token and injects the proceeds into the vault.
func (c *Converter) Convert(caller, token0, token1 mill.Address) (*big.Int, error) {
	pair, ok, err := c.venue.GetPool(token0, token1)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, reverts.CannotConvert()
	}
	route0, err := c.routeThrough(token0, token1, pair)
	if err != nil {
		return nil, err
	}
	route1, err := c.routeThrough(token1, token0, pair)
	if err != nil {
		return nil, err
	}

	amount0, amount1 := new(big.Int), new(big.Int)
	held, err := c.tokens.BalanceOf(pair, c.ctx.Address())
	if err != nil {
		return nil, err
	}
	if held.Sign() > 0 {
		redeemed, err := c.venue.Burn(c.ctx.Address(), pair, held)
		if err != nil {
			return nil, err
		}
		amount0, amount1 = redeemed.AmountOf(token0), redeemed.AmountOf(token1)
	}

	out0, err := c.walk(route0, amount0)
	if err != nil {
		return nil, err
	}
	out1, err := c.walk(route1, amount1)
	if err != nil {
		return nil, err
	}
	out := new(big.Int).Add(out0, out1)

	if out.Sign() > 0 {
		vaultAddr, err := c.vault.Get()
		if err != nil {
			return nil, err
		}
		if err := c.contracts.VaultAt(vaultAddr).Inject(c.ctx.Address(), out); err != nil {
			return nil, err
		}
	}
	logger.Debug("fees converted", "token0", token0, "token1", token1, "reward", out)
	return out, c.ctx.Emit("FeeConverted", &convertedEvent{caller, token0, token1, amount0, amount1, out},
		solidity.AddressTopic(token0), solidity.AddressTopic(token1))
}

// ConvertMultiple converts every pair or none of them.
func (c *Converter) ConvertMultiple(caller mill.Address, pairs []Pair) (*big.Int, error) {
	st := c.ctx.State()
	checkpoint := st.NewCheckpoint()

	total := new(big.Int)
	for _, p := range pairs {
		out, err := c.Convert(caller, p.Token0, p.Token1)
		if err != nil {
			st.RevertTo(checkpoint)
			metricConverts().AddWithLabel(1, map[string]string{"result": "reverted"})
			return nil, err
		}
		total.Add(total, out)
	}
	metricConverts().AddWithLabel(int64(len(pairs)), map[string]string{"result": "converted"})
	return total, nil
}
