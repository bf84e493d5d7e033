//go:build gofuzz
// +build gofuzz

//go:generate GO111MODULE=off go-fuzz-build github.com/lapwatch/lapwatch-go/

package lapwatch

import (
	"fmt"
	"time"
)

var fuzzProbes = []time.Duration{
	0,
	999 * time.Millisecond,
	time.Hour + 23*time.Minute + 45600*time.Millisecond,
	-3 * time.Second,
}

// Fuzz feeds arbitrary format strings through validation and rendering.
// A format accepted by validation must render without fmt error markers
// for every duration.
func Fuzz(data []byte) int {
	format := string(data)
	hms := len(data)%2 == 0

	if err := validateFormat(format, hms); err != nil {
		return 0
	}

	for _, d := range fuzzProbes {
		rep := newReport(d, reportOptions{hms: hms, format: format})
		if s, err := rep.Render(); err != nil {
			panic(fmt.Sprintf("validated format %q failed on %s: %s", format, d, s))
		}
	}

	return 1
}
