// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package mill

import (
	"encoding/hex"
	"errors"
	"strings"
)

var (
	errInvalidLength = errors.New("invalid length")
	errInvalidPrefix = errors.New("invalid prefix")
)

// decodeFixedHex fills out from s, which must encode exactly len(out) bytes.
func decodeFixedHex(s string, out []byte) error {
	switch len(s) {
	case len(out) * 2:
	case len(out)*2 + 2:
		if !strings.EqualFold(s[:2], "0x") {
			return errInvalidPrefix
		}
		s = s[2:]
	default:
		return errInvalidLength
	}
	_, err := hex.Decode(out, []byte(s))
	return err
}
