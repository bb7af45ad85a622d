package domain

import "math"

type UsageClass string

const (
	UsageAvailable UsageClass = "available"
	UsageWarning   UsageClass = "warning"
	UsageAtLimit   UsageClass = "at-limit"
)

// ClassifyUsage reports at-limit when usage meets the quota and warning above 80% of it.
func ClassifyUsage(usage, quota int) UsageClass {
	switch {
	case usage >= quota:
		return UsageAtLimit
	case usage*5 > quota*4:
		return UsageWarning
	default:
		return UsageAvailable
	}
}

func UsagePercent(usage, quota int) int {
	if quota <= 0 {
		return 0
	}

	return int(math.Round(float64(usage) / float64(quota) * 100))
}
