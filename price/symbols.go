// Copyright 2026 The autometa Authors
// This file is part of the autometa library.
//
// The autometa library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The autometa library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the autometa library. If not, see <http://www.gnu.org/licenses/>.

package price

import "strings"

// symbolToOracleID is the one consolidated symbol→oracle-id table, per
// the redesign note ("consolidate into one table in the Price Adapter").
// price_trigger.py and enhanced_price_adapter.py each carried a partial,
// slightly divergent copy of this; this is the merged superset.
var symbolToOracleID = map[string]string{
	"dot":   "polkadot",
	"glmr":  "moonbeam",
	"eth":   "ethereum",
	"btc":   "bitcoin",
	"astr":  "astar",
	"matic": "polygon",
}

// ResolveOracleID maps a short symbol (case-insensitively) to the oracle's
// asset id, passing unknown symbols through lowercased.
func ResolveOracleID(symbol string) string {
	key := strings.ToLower(symbol)
	if id, ok := symbolToOracleID[key]; ok {
		return id
	}
	return key
}
