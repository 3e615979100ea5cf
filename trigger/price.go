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

package trigger

import (
	"context"

	"github.com/autometa/engine/chain"
	"github.com/autometa/engine/internal/log"
)

var priceLogger = log.NewModuleLogger(log.Trigger)

// PriceSource is the read side of price.Adapter that the price trigger
// depends on, kept narrow to avoid a trigger<->price import cycle.
type PriceSource interface {
	GetPriceUSD(ctx context.Context, token string) (float64, string, error)
}

// PriceEvaluator is the price-trigger predicate: ready iff active and
// comparator(currentPrice, threshold) holds. A fetch failure yields
// not-ready, never a false positive, per spec §4.2.
type PriceEvaluator struct {
	Source PriceSource
}

// IsReady decodes wf's triggerData and evaluates it against the adapter.
func (e *PriceEvaluator) IsReady(ctx context.Context, wf chain.Workflow) (bool, error) {
	if !wf.Active {
		return false, nil
	}
	p, err := DecodePrice(wf.TriggerData)
	if err != nil {
		priceLogger.Error("malformed price trigger data", "workflow", wf.ID, "err", err)
		return false, nil
	}
	price, source, err := e.Source.GetPriceUSD(ctx, p.Token)
	if err != nil {
		priceLogger.Warn("price fetch failed, treating as not-ready", "workflow", wf.ID, "token", p.Token, "err", err)
		return false, nil
	}
	ready := p.Comparator.Eval(price, p.ThresholdUSD)
	priceLogger.Debug("price trigger evaluated", "workflow", wf.ID, "token", p.Token, "price", price, "source", source, "ready", ready)
	return ready, nil
}
