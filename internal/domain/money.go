package domain

// Amount is a quantity of money in indivisible base units. All arithmetic
// in the registry is integral; splitting rounds down toward the platform
// and the remainder goes to the organizer, so no unit is ever lost.
type Amount uint64
