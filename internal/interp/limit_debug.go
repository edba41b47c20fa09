//go:build dustdebug

package interp

// functionCallLimit is the dustdebug-build call-depth ceiling (§4.4),
// lowered so recursion bugs surface in a handful of frames instead of a
// thousand.
func functionCallLimit() int { return 100 }
