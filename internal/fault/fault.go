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

// Package fault classifies errors into the small, fixed taxonomy the
// scheduler and worker reason about: transient network faults, malformed
// on-chain state, underfunded owners, plain tx reverts, receipt timeouts,
// and fatal startup misconfiguration. Nothing outside startup is fatal.
package fault

import (
	"errors"
	"strings"
)

// Kind is one of the taxonomy entries from the error handling design.
type Kind int

const (
	// Unknown is returned when an error doesn't match a more specific kind.
	Unknown Kind = iota
	TransientNetwork
	Malformed
	Underfunded
	Revert
	ReceiptTimeout
	ConfigFatal
)

func (k Kind) String() string {
	switch k {
	case TransientNetwork:
		return "transient_network"
	case Malformed:
		return "malformed"
	case Underfunded:
		return "underfunded"
	case Revert:
		return "revert"
	case ReceiptTimeout:
		return "receipt_timeout"
	case ConfigFatal:
		return "config_fatal"
	default:
		return "unknown"
	}
}

// Sentinel errors, following the kerrors.ErrXxx convention: package-level
// vars wrapped with context via errors.Wrap(ErrX, ...) from
// github.com/pkg/errors at call sites.
var (
	ErrMalformedTriggerData = errors.New("fault: malformed trigger data")
	ErrMalformedActionData  = errors.New("fault: malformed action data")
	ErrReceiptTimeout       = errors.New("fault: receipt not found before timeout")
	ErrUnderfunded          = errors.New("fault: owner balance below gas budget")
	ErrReverted             = errors.New("fault: execution reverted")
	ErrNativeTransferUnsupported = errors.New("fault: native-transfer wallet-event detection is not implemented")
)

// underfundedNeedles are the substrings that mark an execution revert or
// RPC error as an escrow shortfall rather than some other failure, per the
// worker's error classification step.
var underfundedNeedles = []string{"insufficient balance", "insufficient funds"}

// Classify maps an arbitrary error from the chain/queue/price layers onto
// a Kind, using the text-matching rule the error handling design specifies
// for underfunded detection and errors.Is for everything already tagged
// with one of this package's sentinels.
func Classify(err error) Kind {
	if err == nil {
		return Unknown
	}
	switch {
	case errors.Is(err, ErrMalformedTriggerData), errors.Is(err, ErrMalformedActionData):
		return Malformed
	case errors.Is(err, ErrReceiptTimeout):
		return ReceiptTimeout
	case errors.Is(err, ErrUnderfunded):
		return Underfunded
	case errors.Is(err, ErrReverted):
		return Revert
	}
	msg := strings.ToLower(err.Error())
	for _, needle := range underfundedNeedles {
		if strings.Contains(msg, needle) {
			return Underfunded
		}
	}
	return TransientNetwork
}
