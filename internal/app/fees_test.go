package app

import (
	"testing"

	"github.com/SergejKubat/crypto-sports/internal/domain"
)

func TestFeePolicy_Split(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name              string
		policy            FeePolicy
		total             domain.Amount
		platform, organizer domain.Amount
	}{
		{name: "reference split", policy: DefaultFeePolicy(), total: 20, platform: 2, organizer: 18},
		{name: "rounds down toward platform", policy: DefaultFeePolicy(), total: 15, platform: 1, organizer: 14},
		{name: "zero total", policy: DefaultFeePolicy(), total: 0, platform: 0, organizer: 0},
		{name: "single unit", policy: DefaultFeePolicy(), total: 1, platform: 0, organizer: 1},
		{name: "custom bps", policy: FeePolicy{PlatformBps: 2_500}, total: 100, platform: 25, organizer: 75},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			platform, organizer := tc.policy.Split(tc.total)
			if platform != tc.platform || organizer != tc.organizer {
				t.Fatalf("split %d: got %d/%d, want %d/%d", tc.total, platform, organizer, tc.platform, tc.organizer)
			}
			if platform+organizer != tc.total {
				t.Fatalf("split %d loses money: %d + %d", tc.total, platform, organizer)
			}
		})
	}
}
