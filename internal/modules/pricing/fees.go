// README: Platform fee economics shared by every monetized flow.
package pricing

import "math"

// PlatformFeeRate is the commission taken on each finalized transaction.
// Rides, withdrawals, subscriptions and artisan provisions all use this one
// rate; it must never be duplicated as a literal at call sites.
const PlatformFeeRate = 0.09

// Fee returns the platform fee for a final price, rounded to the nearest FCFA.
func Fee(finalPrice int64) int64 {
	return int64(math.Round(float64(finalPrice) * PlatformFeeRate))
}

// Charge is the total debited from the requester when funds are escrowed:
// the final price plus the platform fee.
func Charge(finalPrice int64) int64 {
	return finalPrice + Fee(finalPrice)
}

// Refund is what the requester gets back when a dispute resolves in their
// favor. The platform fee is retained ("les frais de plateforme sont
// conservés").
func Refund(finalPrice int64) int64 {
	return finalPrice - Fee(finalPrice)
}

// WithdrawNet is the mobile-money payout for a wallet withdrawal after the
// platform commission.
func WithdrawNet(amount int64) int64 {
	return amount - Fee(amount)
}
