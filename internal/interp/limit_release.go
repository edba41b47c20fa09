//go:build !dustdebug

package interp

// functionCallLimit is the release-build call-depth ceiling (§4.4).
func functionCallLimit() int { return 1000 }
