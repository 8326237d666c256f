package fulfillment

import (
	"fmt"
	"math/rand/v2"
)

// TrackingNumberPrefix is the fixed numeric prefix carried by every
// synthesized tracking number.
const TrackingNumberPrefix = "9400"

// NewTrackingNumber synthesizes a carrier tracking number: the fixed
// prefix followed by twelve digits.
func NewTrackingNumber() string {
	return fmt.Sprintf("%s%012d", TrackingNumberPrefix, rand.Uint64N(1_000_000_000_000))
}
