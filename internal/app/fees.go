package app

import "github.com/SergejKubat/crypto-sports/internal/domain"

const feeDenominator = 10_000

// FeePolicy is the fixed revenue split applied to every sale.
type FeePolicy struct {
	// PlatformBps is the platform's share in basis points of the total
	// price. The default matches the reference split of 10%.
	PlatformBps int
}

// DefaultFeePolicy returns the 10% platform / 90% organizer split.
func DefaultFeePolicy() FeePolicy {
	return FeePolicy{PlatformBps: 1_000}
}

// Split divides total between the two payees. The platform share rounds
// down and the remainder goes to the organizer, so platform + organizer
// always equals total exactly.
func (p FeePolicy) Split(total domain.Amount) (platform, organizer domain.Amount) {
	platform = total * domain.Amount(p.PlatformBps) / feeDenominator
	return platform, total - platform
}
