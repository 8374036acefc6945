package sss

// Sample is a single ingested waveform: 8-bit signed PCM data plus the
// metadata the channel engine needs to play it back at the right pitch.
type Sample struct {
	Name     string
	Data     []byte // signed 8-bit PCM, mono
	Rate     int    // native sample rate in Hz; MOD samples are always modSampleRate (8000)
	LoopHz   int    // unused placeholder for future loop-point support; always 0 today
	FineTune int8   // MOD finetune nibble, -8..7; carried for round-trip fidelity only, not applied to playback rate
	Volume   int    // default volume 0..MaxVolume-1, applied when a note doesn't override it
	RepeatStart int
	RepeatLen   int
}

// Len reports the number of playable frames in the sample.
func (s *Sample) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Data)
}

// SampleStore is a fixed-size arena of up to MaxSamples samples, addressed
// by integer handle rather than pointer. A zero-value SampleStore is ready
// to use; handles are stable until Delete is called on them.
type SampleStore struct {
	slots [MaxSamples]*Sample
}

// Add ingests a sample and returns its handle. When center is true, data is
// treated as unsigned 8-bit PCM (e.g. decoded from a WAV file) and is
// re-biased by subtracting 128 from every byte so it matches the signed
// convention the rest of the engine assumes; MOD-sourced payloads are
// already signed and pass center=false.
func (st *SampleStore) Add(s Sample, center bool) (int, error) {
	handle := -1
	for i := range st.slots {
		if st.slots[i] == nil {
			handle = i
			break
		}
	}
	if handle < 0 {
		return 0, ErrNoHandles
	}

	if center {
		biased := make([]byte, len(s.Data))
		for i, b := range s.Data {
			biased[i] = byte(int(b) - 128)
		}
		s.Data = biased
	}

	cp := s
	st.slots[handle] = &cp
	return handle, nil
}

// Delete frees a sample handle. Deleting an already-free or out-of-range
// handle is a no-op error, never a panic.
func (st *SampleStore) Delete(handle int) error {
	if handle < 0 || handle >= MaxSamples || st.slots[handle] == nil {
		return ErrBadParam
	}
	st.slots[handle] = nil
	return nil
}

// Get returns the sample bound to handle, or nil if the handle is free or
// out of range.
func (st *SampleStore) Get(handle int) *Sample {
	if handle < 0 || handle >= MaxSamples {
		return nil
	}
	return st.slots[handle]
}
