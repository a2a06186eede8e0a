package ledger

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/food-ledger/internal/models"
)

// Aggregate sums records into totals. Calories are a plain running sum.
// Protein, carbs and fat are rounded to one decimal after every addition, so
// the result depends on record order; ledgers written by earlier versions
// of the tracker report totals computed this way.
func Aggregate(records []models.Record) models.Totals {
	var t models.Totals
	for _, r := range records {
		t.Calories += r.Calories
		t.Protein = RoundTenth(t.Protein + r.Protein)
		t.Carbs = RoundTenth(t.Carbs + r.Carbs)
		t.Fat = RoundTenth(t.Fat + r.Fat)
	}
	return t
}

var half = decimal.New(5, -1)

// RoundTenth rounds v to one decimal place using the exact binary value of
// v, resolving exact ties away from zero: 1.15 is stored as 1.1499... and
// rounds to 1.1, while 0.25 is exact and rounds to 0.3 (and -0.25 to -0.3).
func RoundTenth(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	if v < 0 {
		return -RoundTenth(-v)
	}
	n := exactDecimal(v).Shift(1).Add(half).Floor()
	f, _ := n.Shift(-1).Float64()
	return f
}

// exactDecimal returns the decimal expansion of v with no rounding.
func exactDecimal(v float64) decimal.Decimal {
	frac, exp := math.Frexp(v)
	mant := big.NewInt(int64(frac * (1 << 53)))
	exp -= 53
	if exp >= 0 {
		return decimal.NewFromBigInt(mant.Lsh(mant, uint(exp)), 0)
	}
	// m * 2^-k == m * 5^k * 10^-k
	pow := new(big.Int).Exp(big.NewInt(5), big.NewInt(int64(-exp)), nil)
	return decimal.NewFromBigInt(pow.Mul(pow, mant), int32(exp))
}
