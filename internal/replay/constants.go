package replay

import "time"

// Squad shape.
const (
	squadSize    = 15
	startersSize = 11
)

// Worker configuration constants.
const (
	workerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	historyPollInterval = 50 * time.Millisecond
	percentMultiplier   = 100
)
