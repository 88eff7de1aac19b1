// README: Common money value object used across modules.
package types

// Money is an amount in whole FCFA (no minor unit in circulation).
type Money struct {
	Amount   int64
	Currency string
}

func FCFA(amount int64) Money {
	return Money{Amount: amount, Currency: "XAF"}
}
