/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
)

var sizeUnits = []string{"kB", "MB", "GB", "TB", "PB", "EB"}

// humanReadableSize formats a byte count in SI units for log lines.
func humanReadableSize(bytes int64) string {
	if bytes < 1000 {
		return fmt.Sprintf("%d B", bytes)
	}

	size := float64(bytes) / 1000
	unit := 0
	for size >= 1000 && unit < len(sizeUnits)-1 {
		size /= 1000
		unit++
	}

	return fmt.Sprintf("%.1f %s", size, sizeUnits[unit])
}
