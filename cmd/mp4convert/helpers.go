package main

import (
	"fmt"
	"time"
)

func formatDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "0s"
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Hour:
		return d.Round(time.Second).String()
	default:
		return fmt.Sprintf("%.1fh", d.Hours())
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
