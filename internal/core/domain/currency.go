package domain

import (
	"errors"
	"fmt"
	"strings"
)

// GoldCode is the wire code of the synthetic gold currency, priced in grams.
const GoldCode = "GOLD"

// Currency is a closed variant over Fiat and Gold.
// Only this package can add cases; callers dispatch with MatchCurrency or a type switch.
type Currency interface {
	Code() string
	isCurrency()
}

// Fiat is an ISO-4217 currency such as TRY, USD or EUR.
type Fiat struct {
	code string
}

// Gold is the gram-denominated gold currency.
type Gold struct{}

func (f Fiat) Code() string { return f.code }
func (Fiat) isCurrency()    {}

func (Gold) Code() string { return GoldCode }
func (Gold) isCurrency()  {}

func (f Fiat) String() string { return f.code }
func (Gold) String() string   { return GoldCode }

// NewFiat returns a Fiat for the given code, upper-cased.
func NewFiat(code string) Fiat {
	return Fiat{code: strings.ToUpper(code)}
}

// ParseCurrency maps a wire code to its variant. Codes are case-insensitive.
func ParseCurrency(code string) (Currency, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	switch {
	case c == GoldCode:
		return Gold{}, nil
	case len(c) == 3 && isAlpha(c):
		return Fiat{code: c}, nil
	default:
		return nil, fmt.Errorf("unsupported currency code %q", code)
	}
}

// MatchCurrency calls exactly one of the branches depending on the variant.
// Both branches are required, so adding a case breaks every caller at compile time.
func MatchCurrency[T any](c Currency, fiat func(Fiat) T, gold func(Gold) T) T {
	switch v := c.(type) {
	case Fiat:
		return fiat(v)
	case Gold:
		return gold(v)
	default:
		panic(fmt.Sprintf("domain: unknown currency variant %T", c))
	}
}

// IsGold reports whether c is the gold variant.
func IsGold(c Currency) bool {
	_, ok := c.(Gold)
	return ok
}

// PairKind classifies an ordered currency pair for conversion policy.
type PairKind int

const (
	// StandardPair has no gold side.
	StandardPair PairKind = iota
	// GoldPurchase converts fiat into gold.
	GoldPurchase
	// GoldSale converts gold into fiat.
	GoldSale
)

func (k PairKind) String() string {
	switch k {
	case GoldPurchase:
		return "GOLD_PURCHASE"
	case GoldSale:
		return "GOLD_SALE"
	default:
		return "STANDARD"
	}
}

type pairClass struct {
	kind PairKind
	err  error
}

// ClassifyPair returns the PairKind of from→to. A gold→gold pair is rejected.
func ClassifyPair(from, to Currency) (PairKind, error) {
	if from == nil || to == nil {
		return 0, errors.New("both currencies are required")
	}
	c := MatchCurrency(from,
		func(Fiat) pairClass {
			return MatchCurrency(to,
				func(Fiat) pairClass { return pairClass{kind: StandardPair} },
				func(Gold) pairClass { return pairClass{kind: GoldPurchase} })
		},
		func(Gold) pairClass {
			return MatchCurrency(to,
				func(Fiat) pairClass { return pairClass{kind: GoldSale} },
				func(Gold) pairClass { return pairClass{err: fmt.Errorf("cannot exchange %s to itself", GoldCode)} })
		})
	return c.kind, c.err
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
