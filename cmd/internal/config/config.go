// Package config turns the sssplay/ssswav command line's --reverb flag into
// a concrete comb.Reverber instance.
package config

import (
	"fmt"

	"github.com/sssplayer/engine/internal/comb"
)

// ReverbFromFlag initializes a comb.Reverber according to the command
// line flag value: none, light, medium or silly, in increasing order of
// delay and decay.
func ReverbFromFlag(reverb string, sampleRate int) (comb.Reverber, error) {
	decayFactor := float32(0.2)
	delayMs := 150

	switch reverb {
	case "none":
		return comb.NewPassThrough(), nil
	case "light":
	case "medium":
		decayFactor = 0.3
		delayMs = 250
	case "silly":
		decayFactor = 0.5
		delayMs = 2500
	default:
		return nil, fmt.Errorf("unrecognized reverb setting %q", reverb)
	}

	return comb.NewCombAdd(10*1024, decayFactor, delayMs, sampleRate), nil
}
