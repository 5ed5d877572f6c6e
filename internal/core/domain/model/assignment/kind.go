package assignment

import (
	"fmt"
	"strings"

	"courieragent/internal/pkg/errs"
)

// Kind classifies what a delivery assignment moves.
type Kind int

const (
	// KindUnknown represents an invalid or undefined kind.
	KindUnknown Kind = iota

	// ItemTransfer moves physical goods between locations.
	ItemTransfer

	// CapitalDelivery moves cash or equivalents.
	CapitalDelivery

	// BalanceDelivery settles an account balance at the destination.
	BalanceDelivery
)

func getKindStrings() map[Kind]string {
	return map[Kind]string{
		KindUnknown:     "UNKNOWN",
		ItemTransfer:    "ITEM_TRANSFER",
		CapitalDelivery: "CAPITAL_DELIVERY",
		BalanceDelivery: "BALANCE_DELIVERY",
	}
}

func getValidKindStrings() map[Kind]string {
	//nolint:exhaustive // KindUnknown is intentionally excluded as it's invalid
	return map[Kind]string{
		ItemTransfer:    "ITEM_TRANSFER",
		CapitalDelivery: "CAPITAL_DELIVERY",
		BalanceDelivery: "BALANCE_DELIVERY",
	}
}

// KindFromString parses a backend assignment type value. Parsing is
// case-insensitive; unrecognized values fail closed.
func KindFromString(s string) (Kind, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	for kind, str := range getValidKindStrings() {
		if str == normalized {
			return kind, nil
		}
	}
	return KindUnknown, errs.NewValueIsInvalidErrorWithCause("kind is invalid",
		fmt.Errorf("%q is not a known assignment kind", s))
}

// Validate checks if the Kind value is valid.
func (k Kind) Validate() error {
	if _, ok := getValidKindStrings()[k]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("kind is invalid",
			fmt.Errorf("%d is not a valid kind", k))
	}
	return nil
}

// String returns the wire representation of the kind ("ITEM_TRANSFER", ...).
// Invalid values render as "UNKNOWN".
func (k Kind) String() string {
	if str, ok := getKindStrings()[k]; ok {
		return str
	}
	return "UNKNOWN"
}
