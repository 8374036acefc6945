// Package sss implements a real-time, multi-channel digital audio playback
// engine for Amiga-style tracker music (MOD, 15- and 31-instrument variants).
//
// The design is a direct Go port of Ammon Campbell's "Simple Sound System"
// (sss.c/sss.h/sss_mod.c, 1993/1995): a fixed pool of resampling voices, a
// sample-clock-driven sequencer, and a double-buffered mix driver. Where the
// original returned one of a dozen SSSERR_* codes, this package returns
// sentinel errors instead.
package sss

import "errors"

// Sentinel errors, one per SSSERR_* code in the original sss.h.
var (
	ErrAlreadyInited = errors.New("sss: engine already initialized")
	ErrNotInited     = errors.New("sss: engine not initialized")
	ErrNoMemory      = errors.New("sss: out of memory")
	ErrNoHandles     = errors.New("sss: no free sample handles")
	ErrOpenDevice    = errors.New("sss: could not open audio device")
	ErrOpenCaps      = errors.New("sss: could not query audio device capabilities")
	ErrOpenFormat    = errors.New("sss: no compatible 8-bit PCM format")
	ErrNoTimer       = errors.New("sss: could not start mix timer")
	ErrBadParam      = errors.New("sss: invalid parameter")
	ErrOpenFile      = errors.New("sss: could not open file")
	ErrReadFile      = errors.New("sss: could not read file")

	// ErrUnrecognizedMOD is returned by the MOD loader when neither the
	// 31-instrument signature nor the 15-instrument header shape matches.
	ErrUnrecognizedMOD = errors.New("sss: unrecognized MOD file")
)
