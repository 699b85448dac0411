package testkit

import "time"

var referenceTime = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used across test
// fixtures in this module, so that tests composed from different packages
// agree on "now" without each one hardcoding its own timestamp.
func ReferenceTime() time.Time {
	return referenceTime
}
