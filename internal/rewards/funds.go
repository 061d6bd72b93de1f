// Package rewards distributes a funding round's community advisor pool across
// the advisors who reviewed its proposals.
package rewards

import (
	"math/big"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
)

// Funds is an exact decimal amount of money.
type Funds = decimal.Decimal

// Rewards is an amount owed to an advisor. Same representation as Funds.
type Rewards = Funds

// DivisionScale is the number of decimal places kept when a division does not
// terminate. Every other operation on Funds is exact.
const DivisionScale int32 = 18

// FundsFromCount converts a count (tickets, slots, proposals) to Funds.
func FundsFromCount(n uint64) Funds {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(n), 0)
}

// ParseFunds parses a decimal string such as "1250000" or "0.5".
func ParseFunds(s string) (Funds, error) {
	f, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, eris.Wrapf(err, "rewards: parse funds %q", s)
	}
	return f, nil
}

// SumFunds adds up amounts; the empty sum is zero.
func SumFunds(amounts ...Funds) Funds {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// divideByCount splits f into n equal parts. n must be non-zero.
func divideByCount(f Funds, n uint64) Funds {
	return f.DivRound(FundsFromCount(n), DivisionScale)
}

// scaleByRatio returns f * num / den, multiplying first so the only rounding
// happens in the final division. den must be non-zero.
func scaleByRatio(f Funds, num, den uint64) Funds {
	return f.Mul(FundsFromCount(num)).DivRound(FundsFromCount(den), DivisionScale)
}
