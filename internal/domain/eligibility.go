package domain

import "time"

type VerdictSource string

const (
	VerdictSourceLocal  VerdictSource = "local"
	VerdictSourceRemote VerdictSource = "remote"
)

// EligibilityVerdict caches the outcome of a premium ownership check. A local
// verdict is a trust-on-first-write copy of an earlier remote verdict or of a
// raw payment signature; it is only re-verified on explicit refresh.
type EligibilityVerdict struct {
	Address   string        `json:"address"`
	Verified  bool          `json:"verified"`
	Source    VerdictSource `json:"source"`
	CheckedAt time.Time     `json:"checked_at"`
}
