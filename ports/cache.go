package ports

import (
	"goprofile/domain/core"
	"goprofile/domain/profile"
)

// ReportCache stores profile reports addressed by fingerprint. Both
// operations are best-effort: a lookup miss and a failed store are normal
// outcomes, never request failures.
type ReportCache interface {
	Lookup(fp core.Fingerprint) (*profile.Report, bool)
	Store(fp core.Fingerprint, report *profile.Report) bool
}
