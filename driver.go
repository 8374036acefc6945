package sss

import (
	"sync"
	"sync/atomic"
)

// AudioSink is the external contract a host provides to receive mixed
// audio. Implementations (e.g. internal/portaudiosink) own the actual
// device. The driver holds no sink and never calls Submit; hosts pull
// mixed audio through Engine.MixInto.
type AudioSink interface {
	// QueryFormats reports the sample rates the sink can accept.
	QueryFormats() []int
	Open(rate int) error
	Submit(left, right []byte) error
	Reset() error
	Close() error
}

// driver owns the fixed channel pool and produces mixed stereo output a
// buffer at a time. The original engine guarded re-entrant poll calls with
// a plain busy flag; this reimplementation uses a mutex try-lock instead,
// so a concurrent poll is rejected without mixing, as before, but without
// the flag's data race.
type driver struct {
	mu sync.Mutex

	mixRate  int
	channels [MaxChannels]channel
	muted    [MusicChannels]bool
	samples  *SampleStore
	seq      *sequencer

	pollCount          int
	recursivePollCount atomic.Int64 // bumped by rejected callers that don't hold mu
	writeCount         int
	idlePollCount      int
}

// newDriver builds a driver for the given sample store, mix rate and
// sequencer. All channels start idle.
func newDriver(st *SampleStore, mixRate int, seq *sequencer) *driver {
	d := &driver{mixRate: mixRate, samples: st, seq: seq}
	for i := range d.channels {
		d.channels[i].reset()
	}
	return d
}

// mixBuffer renders n stereo frames into left/right, which must each have
// length >= n. It is the engine's single point of re-entrancy risk: if a
// poll is already running, the call is counted as recursive and returns
// without mixing, matching the original's busy-guard semantics but via a
// try-lock instead of a flag race.
func (d *driver) mixBuffer(left, right []byte, n int) {
	if !d.mu.TryLock() {
		d.recursivePollCount.Add(1)
		return
	}
	defer d.mu.Unlock()

	d.pollCount++

	anyActive := false
	for i := 0; i < n; i++ {
		if d.seq != nil && d.seq.tick() {
			d.triggerRow()
		}

		var accL, accR int
		for c := range d.channels {
			ch := &d.channels[c]
			if !ch.active {
				continue
			}
			if c >= MusicFirst && d.muted[c-MusicFirst] {
				continue
			}
			anyActive = true
			l, r, ok := ch.mixFrame(d.samples)
			if !ok {
				continue
			}
			accL += int(l)
			accR += int(r)
		}
		left[i] = clampByte(accL)
		right[i] = clampByte(accR)
	}

	if !anyActive {
		d.idlePollCount++
	} else {
		d.writeCount++
	}
}

// triggerRow is called once the sequencer's tick() reports a row boundary
// was just crossed, and binds/retriggers each music channel from the new
// current row. A track's note-on (which sets the sample's default volume)
// is applied before its effect, so a SET_VOLUME on the same step wins.
func (d *driver) triggerRow() {
	row := d.seq.currentRow()
	if row == nil {
		return
	}
	for track := 0; track < tracksPerPattern && track < MusicChannels; track++ {
		st := row[track]
		ch := &d.channels[MusicFirst+track]

		if st.Sample > 0 {
			s := d.samples.Get(st.Sample - 1)
			pitch := periodToRate(st.Period)
			ch.bind(st.Sample-1, s, d.mixRate, pitch)
			if s != nil {
				ch.setVolume(s.Volume)
			}
		}

		d.seq.applyEffect(st, ch)
	}
}

// clampByte folds a signed mix accumulator back into the unsigned 8-bit
// PCM range: >>2 gives ~6dB of headroom across simultaneous voices (a
// fixed policy, not scaled by how many channels are active), then +127
// re-centers on silence, saturating instead of wrapping on overflow.
func clampByte(v int) byte {
	v = (v >> 2) + 127
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return byte(v)
}

// Stats is a snapshot of the driver's profiling counters, exposed to hosts
// via Engine.Stats() for status displays and for tests asserting the
// busy-guard actually rejects re-entrant polls.
type Stats struct {
	Polls          int
	RecursivePolls int
	Writes         int
	IdlePolls      int
}

func (d *driver) stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Stats{
		Polls:          d.pollCount,
		RecursivePolls: int(d.recursivePollCount.Load()),
		Writes:         d.writeCount,
		IdlePolls:      d.idlePollCount,
	}
}
