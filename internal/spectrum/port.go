package spectrum

import "errors"

// ErrAlreadyAttached is returned when a media source already carries an
// analysis tap.
var ErrAlreadyAttached = errors.New("analyzer already attached")

// Handle identifies an attached analyzer.
type Handle string

// AnalysisPort attaches a frequency analyzer to a media source.
type AnalysisPort interface {
	// Attach installs a tap on media. A source accepts one tap only.
	Attach(media any) (Handle, error)
	// ReadSnapshot returns the current bin magnitudes in [0,255].
	ReadSnapshot(h Handle) []byte
	// Release detaches the analyzer.
	Release(h Handle)
}
