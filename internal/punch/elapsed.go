package punch

import (
	"fmt"
	"time"
)

// FormatElapsed renders d as HH:MM:SS for the timer label. Hours are not
// wrapped at 24; negative durations render as zero.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
