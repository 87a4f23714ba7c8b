package utils

import "fmt"

const sizeUnitStep = 1024.0

// sizeUnits lists the units tried in order before falling through to sizeLastUnit.
var sizeUnits = []string{"B", "KB", "MB", "GB"}

const sizeLastUnit = "TB"

// FormatFileSize converts a byte length into a one-decimal human-readable string
// such as "100.0 B" or "1.5 KB".
func FormatFileSize(bytes int64) string {
	value := float64(bytes)
	for _, unit := range sizeUnits {
		if value < sizeUnitStep {
			return fmt.Sprintf("%.1f %s", value, unit)
		}
		value /= sizeUnitStep
	}
	return fmt.Sprintf("%.1f %s", value, sizeLastUnit)
}

// FormatSizeSuffix returns the " (N.N UNIT)" suffix appended to sized entries.
func FormatSizeSuffix(bytes int64) string {
	return " (" + FormatFileSize(bytes) + ")"
}
