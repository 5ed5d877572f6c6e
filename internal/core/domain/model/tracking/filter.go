package tracking

import "time"

const (
	// DefaultMinDisplacementMeters is the default displacement threshold for
	// event-driven sampling: fixes closer than this to the previously
	// delivered fix are dropped.
	DefaultMinDisplacementMeters float64 = 50

	// DefaultMinInterval is the default time threshold for event-driven
	// sampling: fixes arriving sooner than this after the previously
	// delivered fix are dropped.
	DefaultMinInterval = 30 * time.Second
)

// SubscriptionFilter is the admission rule applied to streamed fixes before
// they are delivered to a subscriber. A zero threshold disables that
// constraint.
type SubscriptionFilter struct {
	MinDisplacementMeters float64
	MinInterval           time.Duration
}

// DefaultSubscriptionFilter returns the filter used for delivery tracking:
// at least 50 meters of displacement and at least 30 seconds between
// delivered fixes.
func DefaultSubscriptionFilter() SubscriptionFilter {
	return SubscriptionFilter{
		MinDisplacementMeters: DefaultMinDisplacementMeters,
		MinInterval:           DefaultMinInterval,
	}
}

// Admits reports whether next should be delivered given the previously
// delivered fix. The first fix (prev == nil) is always admitted. Both the
// displacement and the interval constraint must be satisfied.
func (f SubscriptionFilter) Admits(prev *Fix, next Fix) bool {
	if prev == nil {
		return true
	}

	if f.MinInterval > 0 && next.CapturedAt.Sub(prev.CapturedAt) < f.MinInterval {
		return false
	}

	if f.MinDisplacementMeters > 0 {
		meters, err := prev.Point.DistanceTo(next.Point)
		if err != nil || meters < f.MinDisplacementMeters {
			return false
		}
	}

	return true
}
