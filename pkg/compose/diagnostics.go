package compose

import "sync/atomic"

// Diagnostics counts transparent paths that ended without reaching an opaque
// surface. Such paths contribute zero radiance. A nil *Diagnostics is valid
// and counts nothing.
type Diagnostics struct {
	totalInternalReflections atomic.Int64
	exhaustedPaths           atomic.Int64
}

func (d *Diagnostics) addTotalInternalReflection() {
	if d != nil {
		d.totalInternalReflections.Add(1)
	}
}

func (d *Diagnostics) addExhaustedPath() {
	if d != nil {
		d.exhaustedPaths.Add(1)
	}
}

// TotalInternalReflections returns the number of refractions rejected by
// Snell's law
func (d *Diagnostics) TotalInternalReflections() int64 {
	if d == nil {
		return 0
	}
	return d.totalInternalReflections.Load()
}

// ExhaustedPaths returns the number of paths that ran out of bounces
func (d *Diagnostics) ExhaustedPaths() int64 {
	if d == nil {
		return 0
	}
	return d.exhaustedPaths.Load()
}

// Reset zeroes both counters
func (d *Diagnostics) Reset() {
	if d == nil {
		return
	}
	d.totalInternalReflections.Store(0)
	d.exhaustedPaths.Store(0)
}
