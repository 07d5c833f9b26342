package push

import "time"

// SetSleepForTest replaces the retry sleep so backoff tests run instantly.
func SetSleepForTest(c *Client, sleep func(time.Duration)) {
	c.sleep = sleep
}
