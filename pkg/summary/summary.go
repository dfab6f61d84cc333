package summary

import (
	"fmt"
	"time"
)

const bytesPerMB = 1024 * 1024

// Summary is a point-in-time view of both stores. It is never cached.
type Summary struct {
	ActiveEntries  []string  `json:"active_entries" yaml:"active_entries"`
	RecycleEntries []string  `json:"recycle_entries" yaml:"recycle_entries"`
	ActiveBytes    int64     `json:"active_bytes" yaml:"active_bytes"`
	RecycleBytes   int64     `json:"recycle_bytes" yaml:"recycle_bytes"`
	Skipped        []string  `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	GeneratedAt    time.Time `json:"generated_at" yaml:"generated_at"`
}

// ActiveMB formats ActiveBytes as megabytes with two decimals.
func (s Summary) ActiveMB() string { return FormatMB(s.ActiveBytes) }

// RecycleMB formats RecycleBytes as megabytes with two decimals.
func (s Summary) RecycleMB() string { return FormatMB(s.RecycleBytes) }

// FormatMB renders a byte count in MiB with two decimals, e.g. "1.50".
func FormatMB(n int64) string {
	return fmt.Sprintf("%.2f", float64(n)/bytesPerMB)
}
