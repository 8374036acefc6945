package sss

import "sync"

// Engine is the top-level handle a host program uses to load a song, start
// playback, drive a mix buffer, and trigger sound effects independent of
// the sequencer. One Engine owns one fixed channel pool; a host wanting to
// mix two songs concurrently needs two Engines.
type Engine struct {
	mu sync.Mutex

	mixRate int
	song    *Song
	seq     *sequencer
	drv     *driver

	inited bool
}

// NewEngine initializes an Engine at the given mix rate. rate must be > 0;
// ErrBadParam is returned otherwise. The Engine starts with no song loaded.
func NewEngine(mixRate int) (*Engine, error) {
	if mixRate <= 0 {
		return nil, ErrBadParam
	}
	e := &Engine{mixRate: mixRate, inited: true}
	e.seq = newSequencer(nil, mixRate)
	e.drv = newDriver(nil, mixRate, e.seq)
	return e, nil
}

// LoadSong replaces the currently loaded song, resetting the sequencer and
// every music channel. Sound-effect channels (0..MusicFirst-1) are left
// untouched so a host's one-shot playback isn't interrupted by a song
// change.
func (e *Engine) LoadSong(song *Song) error {
	if !e.inited {
		return ErrNotInited
	}
	if song == nil {
		return ErrBadParam
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.song = song
	e.seq = newSequencer(song, e.mixRate)
	e.drv.samples = &song.Samples
	e.drv.seq = e.seq
	for i := MusicFirst; i < MaxChannels; i++ {
		e.drv.channels[i].reset()
	}
	e.seq.mode = ModeStopped
	return nil
}

// Play starts the sequencer from its current order/row. Returns
// ErrNotInited if no song is loaded.
func (e *Engine) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.song == nil {
		return ErrNotInited
	}
	e.seq.mode = ModePlaying
	return nil
}

// Pause suspends sequencer advancement without resetting position.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.song == nil {
		return ErrNotInited
	}
	e.seq.mode = ModePaused
	return nil
}

// Stop halts the sequencer and silences every music channel.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.song == nil {
		return ErrNotInited
	}
	e.seq.mode = ModeStopped
	for i := MusicFirst; i < MaxChannels; i++ {
		e.drv.channels[i].active = false
	}
	return nil
}

// Rewind switches the transport into ModeRewinding. Valid only while
// PLAYING or PAUSED; each subsequent mixed frame decrements the song
// counter at 4x rate until it underflows, at which point the song stops
// and resets to the top (see sequencer.tick).
func (e *Engine) Rewind() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.song == nil {
		return ErrNotInited
	}
	if e.seq.mode != ModePlaying && e.seq.mode != ModePaused {
		return ErrBadParam
	}
	e.seq.mode = ModeRewinding
	return nil
}

// FastForward switches the transport into ModeFastForwarding. Valid only
// while PLAYING or PAUSED; each subsequent mixed frame advances the song
// counter and row clock at 4x rate, firing rows early but never skipping
// one.
func (e *Engine) FastForward() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.song == nil {
		return ErrNotInited
	}
	if e.seq.mode != ModePlaying && e.seq.mode != ModePaused {
		return ErrBadParam
	}
	e.seq.mode = ModeFastForwarding
	return nil
}

// SongCounter reports the sequencer's running frame counter, adjusted at
// 4x rate while REWINDING/FASTFORWARDING, for transport status displays.
func (e *Engine) SongCounter() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.seq == nil {
		return 0
	}
	return e.seq.songCounter
}

// SeekTo moves playback directly to order/row, clamped to the loaded
// song's bounds.
func (e *Engine) SeekTo(order, row int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.song == nil {
		return ErrNotInited
	}
	e.seq.seek(order, row)
	return nil
}

// Mode reports the sequencer's current transport state.
func (e *Engine) Mode() PlayMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.song == nil {
		return ModeNoSongLoaded
	}
	return e.seq.mode
}

// Song returns the currently loaded song, or nil if none has been loaded.
func (e *Engine) Song() *Song {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.song
}

// StepAt returns the four Steps at (order, row) in the loaded song, or nil
// if out of range. Intended for status displays that show upcoming and
// preceding rows around the playhead.
func (e *Engine) StepAt(order, row int) *[tracksPerPattern]Step {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.song == nil {
		return nil
	}
	pat := e.song.PatternAt(order)
	if pat == nil || row < 0 || row >= rowsPerPattern {
		return nil
	}
	return &pat[row]
}

// ChannelVolume reports the current volume of a music channel (0-indexed
// within the MusicChannels range), for status displays.
func (e *Engine) ChannelVolume(musicChannel int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if musicChannel < 0 || musicChannel >= MusicChannels {
		return 0
	}
	return e.drv.channels[MusicFirst+musicChannel].volume
}

// MuteChannel silences (or unsilences) a music channel's output without
// touching the sequencer, for the host's interactive mute/solo controls.
func (e *Engine) MuteChannel(musicChannel int, mute bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if musicChannel < 0 || musicChannel >= MusicChannels {
		return
	}
	e.drv.muted[musicChannel] = mute
}

// Position reports the sequencer's current order and row.
func (e *Engine) Position() (order, row int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.seq == nil {
		return 0, 0
	}
	return e.seq.order, e.seq.row
}

// PlayEffect triggers a one-shot sample on a host-controlled effect
// channel (0..MusicFirst-1), independent of whatever the sequencer is
// doing on the music channels. channel must be in that range or
// ErrBadParam is returned. pitch is the engine pitch argument channel.bind
// expects (MOD period already scaled by modPitchScale, or a sample's own
// native rate to play it unshifted); pitch<=0 is rejected rather than
// silently producing a silent voice.
func (e *Engine) PlayEffect(ch int, handle int, volume, pan, pitch int) error {
	if ch < 0 || ch >= MusicFirst {
		return ErrBadParam
	}
	if pitch <= 0 {
		return ErrBadParam
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.drv.samples == nil {
		return ErrNotInited
	}
	s := e.drv.samples.Get(handle)
	if s == nil {
		return ErrBadParam
	}

	c := &e.drv.channels[ch]
	c.bind(handle, s, e.mixRate, pitch)
	c.setVolume(volume)
	c.pan = clampPan(pan)
	return nil
}

// AddSample ingests a sample into the Engine's sample store outside of
// loading a full song, for host-supplied sound effects. See
// SampleStore.Add for the center flag's meaning.
func (e *Engine) AddSample(s Sample, center bool) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.drv.samples == nil {
		return 0, ErrNotInited
	}
	return e.drv.samples.Add(s, center)
}

// MixInto renders n stereo frames of audio into left/right, which must
// each be at least n bytes. Safe to call from an audio callback; a
// concurrent call from another goroutine is rejected rather than
// corrupting the buffer, and is counted in Stats().RecursivePolls.
func (e *Engine) MixInto(left, right []byte, n int) {
	e.drv.mixBuffer(left, right, n)
}

// Stats returns a snapshot of the driver's profiling counters.
func (e *Engine) Stats() Stats {
	return e.drv.stats()
}

func clampPan(p int) int {
	if p < PanLeft {
		return PanLeft
	}
	if p > PanRight {
		return PanRight
	}
	return p
}
