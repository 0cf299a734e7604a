// Package limits holds upload ceilings and always-enforced safety caps.
package limits

import "fmt"

// MB is the unit for the per-category upload ceilings.
const MB int64 = 1 << 20

// Platform safety caps. These guard against resource exhaustion and apply
// in every deployment mode; user configuration can never raise them.
const (
	DefaultMaxImagePixels    int64 = 100_000_000
	DefaultMaxImageDimension int64 = 16_384
	DefaultMaxArchiveEntries int64 = 10_000
	DefaultMaxBodyBytes      int64 = 256 * MB
)

// Mode distinguishes hosted deployments (ceilings are mandatory) from
// self-hosted ones (ceilings are advisory).
type Mode string

const (
	ModeHosted     Mode = "hosted"
	ModeSelfHosted Mode = "self-hosted"
)

// ParseMode maps a config string to a Mode, defaulting to self-hosted.
func ParseMode(raw string) Mode {
	if raw == string(ModeHosted) {
		return ModeHosted
	}
	return ModeSelfHosted
}

// Limits carries the per-category upload ceilings in MB (zero = unset) and
// the always-enforced safety caps.
type Limits struct {
	MaxImageMB int64
	MaxVideoMB int64
	MaxAudioMB int64

	MaxImagePixels    int64
	MaxImageDimension int64
	MaxArchiveEntries int64
	MaxBodyBytes      int64
}

// Default returns the platform limits with all safety caps set and no
// per-category ceilings.
func Default() Limits {
	return Limits{
		MaxImagePixels:    DefaultMaxImagePixels,
		MaxImageDimension: DefaultMaxImageDimension,
		MaxArchiveEntries: DefaultMaxArchiveEntries,
		MaxBodyBytes:      DefaultMaxBodyBytes,
	}
}

// CapViolationError reports a request exceeding an always-enforced safety
// cap. It is fatal to the operation it guards and is never rendered as an
// inline diagnostic.
type CapViolationError struct {
	Cap   string
	Value int64
	Limit int64
}

func (e *CapViolationError) Error() string {
	return fmt.Sprintf("%s %d exceeds the enforced cap of %d", e.Cap, e.Value, e.Limit)
}

// CheckPixels verifies an image's pixel count and dimensions against the
// safety caps.
func (l Limits) CheckPixels(width, height int64) error {
	if l.MaxImageDimension > 0 {
		if width > l.MaxImageDimension {
			return &CapViolationError{Cap: "image width", Value: width, Limit: l.MaxImageDimension}
		}
		if height > l.MaxImageDimension {
			return &CapViolationError{Cap: "image height", Value: height, Limit: l.MaxImageDimension}
		}
	}
	if l.MaxImagePixels > 0 && width*height > l.MaxImagePixels {
		return &CapViolationError{Cap: "image pixel count", Value: width * height, Limit: l.MaxImagePixels}
	}
	return nil
}

// CheckArchiveEntries verifies an archive's entry count against the safety cap.
func (l Limits) CheckArchiveEntries(count int64) error {
	if l.MaxArchiveEntries > 0 && count > l.MaxArchiveEntries {
		return &CapViolationError{Cap: "archive entry count", Value: count, Limit: l.MaxArchiveEntries}
	}
	return nil
}

// CheckBodySize verifies a request body size against the safety cap.
func (l Limits) CheckBodySize(size int64) error {
	if l.MaxBodyBytes > 0 && size > l.MaxBodyBytes {
		return &CapViolationError{Cap: "request body size", Value: size, Limit: l.MaxBodyBytes}
	}
	return nil
}

// Authority owns the platform ceilings and deployment mode. Clamping user
// configuration is the authority's responsibility, not the caller's.
type Authority struct {
	mode     Mode
	platform Limits
}

// NewAuthority creates an authority for the given mode and platform limits.
// Missing safety caps are filled from the defaults so they are always set.
func NewAuthority(mode Mode, platform Limits) *Authority {
	def := Default()
	if platform.MaxImagePixels <= 0 {
		platform.MaxImagePixels = def.MaxImagePixels
	}
	if platform.MaxImageDimension <= 0 {
		platform.MaxImageDimension = def.MaxImageDimension
	}
	if platform.MaxArchiveEntries <= 0 {
		platform.MaxArchiveEntries = def.MaxArchiveEntries
	}
	if platform.MaxBodyBytes <= 0 {
		platform.MaxBodyBytes = def.MaxBodyBytes
	}
	return &Authority{mode: mode, platform: platform}
}

// Mode returns the deployment mode.
func (a *Authority) Mode() Mode {
	return a.mode
}

// Platform returns the platform limits unmodified.
func (a *Authority) Platform() Limits {
	return a.platform
}

// Effective merges user-configured ceilings with the platform limits.
// Hosted mode clamps each user ceiling to min(user, platform); self-hosted
// mode lets a set user ceiling stand on its own. Safety caps always come
// from the platform values regardless of mode.
func (a *Authority) Effective(user Limits) Limits {
	out := a.platform
	out.MaxImageMB = a.clampCeiling(user.MaxImageMB, a.platform.MaxImageMB)
	out.MaxVideoMB = a.clampCeiling(user.MaxVideoMB, a.platform.MaxVideoMB)
	out.MaxAudioMB = a.clampCeiling(user.MaxAudioMB, a.platform.MaxAudioMB)
	return out
}

func (a *Authority) clampCeiling(user, platform int64) int64 {
	if user <= 0 {
		return platform
	}
	if a.mode == ModeHosted && platform > 0 && user > platform {
		return platform
	}
	return user
}
