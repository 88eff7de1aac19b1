// README: Fee arithmetic tests pinned to the published commission schedule.
package pricing

import "testing"

func TestFee(t *testing.T) {
	cases := []struct {
		finalPrice int64
		want       int64
	}{
		{1000, 90},
		{500, 45},
		{0, 0},
		{1, 0},    // 0.09 rounds down
		{6, 1},    // 0.54 rounds up
		{10000, 900},
		{48750, 4388}, // 4387.5 rounds half away from zero
	}
	for _, tc := range cases {
		if got := Fee(tc.finalPrice); got != tc.want {
			t.Errorf("Fee(%d) = %d, want %d", tc.finalPrice, got, tc.want)
		}
	}
}

func TestChargeAndRefund(t *testing.T) {
	// finalPrice 1000 -> fee 90, charge 1090, refund 910.
	if got := Charge(1000); got != 1090 {
		t.Errorf("Charge(1000) = %d, want 1090", got)
	}
	if got := Refund(1000); got != 910 {
		t.Errorf("Refund(1000) = %d, want 910", got)
	}
}

func TestWithdrawNet(t *testing.T) {
	// Withdrawing 10000 pays out 9100.
	if got := WithdrawNet(10000); got != 9100 {
		t.Errorf("WithdrawNet(10000) = %d, want 9100", got)
	}
}
