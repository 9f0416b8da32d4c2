// Copyright (c) 2025 The VeChainThor developers
// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Kind classifies why a call was rejected.
type Kind uint8

const (
	Authorization Kind = iota + 1
	NotWhitelisted
	AlreadyWhitelisted
	InsufficientBalance
	InsufficientStake
	InvalidParameter
	NoActiveRewards
	ConversionUnavailable
	PoolNotFound
)

var kindNames = map[Kind]string{
	Authorization:         "AuthorizationError",
	NotWhitelisted:        "NotWhitelisted",
	AlreadyWhitelisted:    "AlreadyWhitelisted",
	InsufficientBalance:   "InsufficientBalance",
	InsufficientStake:     "InsufficientStake",
	InvalidParameter:      "InvalidParameter",
	NoActiveRewards:       "NoActiveRewards",
	ConversionUnavailable: "ConversionUnavailable",
	PoolNotFound:          "PoolNotFound",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// MarshalText renders the kind name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ErrRevert is a rejected precondition. Every state change of the call that produced it
// is discarded.
type ErrRevert struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func Newf(kind Kind, format string, args ...any) *ErrRevert {
	return New(kind, fmt.Sprintf(format, args...))
}

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

func IsRevertErr(err any) bool {
	_, ok := As(err)
	return ok
}

// As extracts the revert from err's chain.
func As(err any) (*ErrRevert, bool) {
	e, ok := err.(error)
	if !ok || e == nil {
		return nil, false
	}
	var ve *ErrRevert
	if errors.As(e, &ve) {
		return ve, true
	}
	return nil, false
}

// Is reports whether err is a revert of the given kind.
func Is(err error, kind Kind) bool {
	ve, ok := As(err)
	return ok && ve.kind == kind
}

// Shorthands for the common rejections.

func Unauthorized() *ErrRevert {
	return New(Authorization, "not authorized")
}

func CannotConvert() *ErrRevert {
	return New(ConversionUnavailable, "cannot convert")
}

func InvalidBridge() *ErrRevert {
	return New(InvalidParameter, "invalid bridge")
}
