// Package denoiser decodes the packed outputs of an external denoiser into
// canonical diffuse and specular signals.
//
// The denoiser runs in one of four output modes, selected once per frame.
// Each mode has its own decoder variant; NewDecoder picks the variant from a
// mode-keyed table and wraps it with the family's occlusion convention.
package denoiser

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownMode is returned when parsing an unrecognized mode name
	ErrUnknownMode = errors.New("denoiser: unknown mode")
	// ErrUnknownFamily is returned when parsing an unrecognized family name
	ErrUnknownFamily = errors.New("denoiser: unknown family")
)

// Mode selects the shape of the denoised signal
type Mode int

const (
	ModeNormal Mode = iota
	ModeOcclusion
	ModeSphericalHarmonics
	ModeDirectionalOcclusion
)

var modeNames = map[Mode]string{
	ModeNormal:               "NORMAL",
	ModeOcclusion:            "OCCLUSION",
	ModeSphericalHarmonics:   "SH",
	ModeDirectionalOcclusion: "DIRECTIONAL_OCCLUSION",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode converts a mode name (case-insensitive) into a Mode
func ParseMode(s string) (Mode, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Family selects the denoiser algorithm, which fixes the packing convention
type Family int

const (
	// FamilyReblur packs radiance as YCoCg with a normalized hit distance and
	// provides occlusion
	FamilyReblur Family = iota
	// FamilyRelax packs linear radiance and has no occlusion output
	FamilyRelax
)

var familyNames = map[Family]string{
	FamilyReblur: "REBLUR",
	FamilyRelax:  "RELAX",
}

func (f Family) String() string {
	if name, ok := familyNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Family(%d)", int(f))
}

// ParseFamily converts a family name (case-insensitive) into a Family
func ParseFamily(s string) (Family, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for f, name := range familyNames {
		if name == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFamily, s)
}

// SupportsOcclusion reports whether the family writes an occlusion channel
func (f Family) SupportsOcclusion() bool {
	return f == FamilyReblur
}

// PacksYCoCg reports whether radiance is stored in YCoCg rather than linear RGB
func (f Family) PacksYCoCg() bool {
	return f == FamilyReblur
}
