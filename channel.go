package sss

// channel is one mixer voice. Voices are a fixed pool indexed 0..MaxChannels-1;
// nothing here is heap-allocated per note. Channels MusicFirst..MaxChannels-1
// are driven by the sequencer; channels 0..MusicFirst-1 are free for
// host-triggered sound effects (PlayEffect), independent of the sequencer.
type channel struct {
	sample int // handle into the SampleStore, or idleSample
	active bool

	// Playback position is tracked with the "virtual size/offset"
	// technique: vOffset advances by one every output frame, and the
	// actual source index is recovered by off = voffset*size/vsize — an
	// integer division that does the pitch-shift implicitly, with no
	// interpolation (nearest-neighbor resampling).
	vSize   int
	vOffset int

	volume int // 0..MaxVolume-1
	pan    int // PanLeft..PanRight
}

// reset clears a channel to its idle state: no sample bound, centered pan,
// full volume. Matches sss_channel_stop/sss_channel_reset.
func (c *channel) reset() {
	c.sample = idleSample
	c.active = false
	c.vSize = 0
	c.vOffset = 0
	c.volume = MaxVolume - 1
	c.pan = PanCenter
}

// bind attaches a sample to the channel and computes its virtual size via
// two successive rescalings, matching sss_sample_play: first to the
// engine's mix rate (size*mixRate/sampleRate), then by the requested
// playback pitch (*pitch/sampleRate). If the result is <1 the voice goes
// IDLE rather than playing a zero-length note.
func (c *channel) bind(handle int, s *Sample, mixRate, pitch int) {
	c.sample = handle
	c.vOffset = 0
	if s == nil || s.Rate <= 0 || mixRate <= 0 {
		c.vSize = 0
		c.active = false
		return
	}

	vSize := len(s.Data) * mixRate / s.Rate
	vSize = vSize * pitch / s.Rate

	c.vSize = vSize
	c.active = vSize >= 1
}

// mixFrame produces the next stereo pair of attenuated, pan-split signed
// bytes for this channel, or (0, 0, false) if the voice produced no
// audible output this frame (idle, or a loop-closure frame that must be
// skipped per the source's end-of-sample test).
func (c *channel) mixFrame(st *SampleStore) (left, right int8, ok bool) {
	if !c.active || c.sample == idleSample || c.vSize < 1 {
		return 0, 0, false
	}
	s := st.Get(c.sample)
	if s == nil || len(s.Data) == 0 {
		c.active = false
		return 0, 0, false
	}

	size := len(s.Data)
	off := c.vOffset * size / c.vSize

	if off >= size || (s.RepeatLen > 0 && off >= s.RepeatStart+s.RepeatLen) {
		if s.RepeatLen > 2 {
			// Looping sample: wrap back to the loop start and skip this
			// frame for this voice, matching sss.c's mix loop.
			c.vOffset = s.RepeatStart
			return 0, 0, false
		}
		c.active = false
		c.vOffset = 0
		c.vSize = 0
		return 0, 0, false
	}

	raw := int8(s.Data[off])
	x := byte(int(raw) + 128)
	attenuated := scale(x, c.volume)
	left, right = panSplit(attenuated, c.pan)

	c.vOffset++
	return left, right, true
}

// setVolume clamps and assigns a channel's volume, used by the sequencer's
// SET_VOLUME effect and by host PlayEffect calls.
func (c *channel) setVolume(v int) {
	if v < 0 {
		v = 0
	}
	if v > MaxVolume-1 {
		v = MaxVolume - 1
	}
	c.volume = v
}
