package country

import "math/rand/v2"

const (
	MinMultiplier int64 = 1000
	MaxMultiplier int64 = 2000
)

// MultiplierSource yields the random GDP multiplier drawn once per merged record.
type MultiplierSource interface {
	Next() int64
}

// RandomMultiplier draws uniformly from [MinMultiplier, MaxMultiplier].
type RandomMultiplier struct{}

func (RandomMultiplier) Next() int64 {
	return MinMultiplier + rand.Int64N(MaxMultiplier-MinMultiplier+1)
}
