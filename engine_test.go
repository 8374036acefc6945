package sss

import "testing"

func buildPlayableSong() *Song {
	song := &Song{
		Title:   "engine test",
		Orders:  []int{0},
		Restart: 0,
	}
	song.Patterns = make([]Pattern, 1)
	song.Patterns[0][0][0] = Step{Sample: 1, Period: 428, Effect: EffectSetVolume, Param: 15}

	data := make([]byte, 64)
	for i := range data {
		data[i] = byte(i * 4)
	}
	song.Samples.Add(Sample{Name: "s1", Data: data, Rate: modSampleRate, Volume: 15}, false)
	return song
}

func TestEngineRequiresPositiveMixRate(t *testing.T) {
	if _, err := NewEngine(0); err != ErrBadParam {
		t.Errorf("NewEngine(0) = %v, want ErrBadParam", err)
	}
	if _, err := NewEngine(-1); err != ErrBadParam {
		t.Errorf("NewEngine(-1) = %v, want ErrBadParam", err)
	}
}

func TestEnginePlayWithoutSongFails(t *testing.T) {
	e, err := NewEngine(44100)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Play(); err != ErrNotInited {
		t.Errorf("Play() without a loaded song = %v, want ErrNotInited", err)
	}
}

func TestEngineLoadAndPlayAdvancesSequencer(t *testing.T) {
	e, _ := NewEngine(44100)
	song := buildPlayableSong()
	if err := e.LoadSong(song); err != nil {
		t.Fatal(err)
	}
	if err := e.Play(); err != nil {
		t.Fatal(err)
	}
	if e.Mode() != ModePlaying {
		t.Fatalf("Mode() = %v, want ModePlaying", e.Mode())
	}
	// Speed the row clock up so the test doesn't need millions of frames,
	// but keep it slow enough that the single-order song (64 rows) doesn't
	// run to its end and stop inside the first buffer.
	e.seq.stepDelay = 100

	left := make([]byte, 256)
	right := make([]byte, 256)

	sawNonZeroRow := false
	for i := 0; i < 10; i++ {
		e.MixInto(left, right, len(left))
		_, row := e.Position()
		if row != 0 {
			sawNonZeroRow = true
		}
	}
	if !sawNonZeroRow {
		t.Error("expected the sequencer to advance past row 0 after mixing several buffers")
	}
}

// TestEngineSingleOrderSongStopsAtEnd covers scenario S1: a one-order song
// runs to the end of its order list and transitions straight to
// ModeStopped with position reset, rather than looping forever.
func TestEngineSingleOrderSongStopsAtEnd(t *testing.T) {
	e, _ := NewEngine(44100)
	song := buildPlayableSong()
	e.LoadSong(song)
	e.Play()
	e.seq.stepDelay = 1 // the song has a single order/pattern; race to its end

	left := make([]byte, 64)
	right := make([]byte, 64)

	for i := 0; i < rowsPerPattern+4; i++ {
		e.MixInto(left, right, len(left))
		if e.Mode() == ModeStopped {
			break
		}
	}

	if e.Mode() != ModeStopped {
		t.Fatalf("Mode() = %v, want ModeStopped once the order list is exhausted", e.Mode())
	}
	order, row := e.Position()
	if order != 0 || row != 0 {
		t.Errorf("Position() = (%d, %d), want (0, 0) after the song stops", order, row)
	}
}

func TestEngineStopSilencesMusicChannels(t *testing.T) {
	e, _ := NewEngine(44100)
	song := buildPlayableSong()
	e.LoadSong(song)
	e.Play()

	left := make([]byte, 256)
	right := make([]byte, 256)
	e.MixInto(left, right, len(left))

	if err := e.Stop(); err != nil {
		t.Fatal(err)
	}
	if e.Mode() != ModeStopped {
		t.Errorf("Mode() after Stop = %v, want ModeStopped", e.Mode())
	}
	for i := MusicFirst; i < MaxChannels; i++ {
		if e.drv.channels[i].active {
			t.Errorf("music channel %d still active after Stop", i)
		}
	}
}

func TestEnginePlayEffectRejectsMusicChannelRange(t *testing.T) {
	e, _ := NewEngine(44100)
	song := buildPlayableSong()
	e.LoadSong(song)

	if err := e.PlayEffect(MusicFirst, 0, 10, PanCenter, modSampleRate); err != ErrBadParam {
		t.Errorf("PlayEffect on a music channel = %v, want ErrBadParam", err)
	}
	if err := e.PlayEffect(-1, 0, 10, PanCenter, modSampleRate); err != ErrBadParam {
		t.Errorf("PlayEffect with negative channel = %v, want ErrBadParam", err)
	}
}

func TestEnginePlayEffectOnFreeChannelIndependentOfSequencer(t *testing.T) {
	e, _ := NewEngine(44100)
	song := buildPlayableSong()
	e.LoadSong(song)
	// Do not call Play(): the sequencer stays stopped, but PlayEffect
	// should still be able to trigger a sound on an effect channel.
	if err := e.PlayEffect(0, 0, MaxVolume-1, PanCenter, modSampleRate); err != nil {
		t.Fatalf("PlayEffect: %v", err)
	}

	left := make([]byte, 16)
	right := make([]byte, 16)
	e.MixInto(left, right, len(left))

	silent := true
	for _, b := range left {
		if b != 127 {
			silent = false
			break
		}
	}
	if silent {
		t.Error("expected the effect channel to produce non-silent output while the sequencer is stopped")
	}
}

func TestEngineMixIntoRejectsReentrantCall(t *testing.T) {
	e, _ := NewEngine(44100)
	song := buildPlayableSong()
	e.LoadSong(song)
	e.Play()

	// Stats() takes the driver lock itself, so read it before holding it.
	before := e.Stats().RecursivePolls
	if !e.drv.mu.TryLock() {
		t.Fatal("expected to acquire the driver lock for this test")
	}

	left := make([]byte, 16)
	right := make([]byte, 16)
	e.MixInto(left, right, len(left)) // should be rejected as recursive

	e.drv.mu.Unlock()

	after := e.Stats().RecursivePolls
	if after != before+1 {
		t.Errorf("RecursivePolls = %d, want %d", after, before+1)
	}
}

func TestEnginePlayEffectRejectsNonPositivePitch(t *testing.T) {
	e, _ := NewEngine(44100)
	song := buildPlayableSong()
	e.LoadSong(song)

	if err := e.PlayEffect(0, 0, MaxVolume-1, PanCenter, 0); err != ErrBadParam {
		t.Errorf("PlayEffect with pitch=0 = %v, want ErrBadParam", err)
	}
	if err := e.PlayEffect(0, 0, MaxVolume-1, PanCenter, -1); err != ErrBadParam {
		t.Errorf("PlayEffect with negative pitch = %v, want ErrBadParam", err)
	}
}

func TestEngineRewindRequiresPlayingOrPaused(t *testing.T) {
	e, _ := NewEngine(44100)
	song := buildPlayableSong()
	e.LoadSong(song)

	if err := e.Rewind(); err != ErrBadParam {
		t.Errorf("Rewind while stopped = %v, want ErrBadParam", err)
	}

	e.Play()
	if err := e.Rewind(); err != nil {
		t.Fatalf("Rewind while playing: %v", err)
	}
	if e.Mode() != ModeRewinding {
		t.Errorf("Mode() after Rewind = %v, want ModeRewinding", e.Mode())
	}
}

// TestEngineRewindStopsOnUnderflow covers scenario S6 end to end through
// the Engine: rewinding past the start of the song stops it and resets
// position, with SongCounter() reaching zero.
func TestEngineRewindStopsOnUnderflow(t *testing.T) {
	e, _ := NewEngine(44100)
	song := buildPlayableSong()
	e.LoadSong(song)
	e.Play()

	left := make([]byte, 4)
	right := make([]byte, 4)
	e.MixInto(left, right, len(left)) // accumulate a little songCounter

	if err := e.Rewind(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 1000 && e.Mode() == ModeRewinding; i++ {
		e.MixInto(left, right, len(left))
	}

	if e.Mode() != ModeStopped {
		t.Fatalf("Mode() after rewinding past the start = %v, want ModeStopped", e.Mode())
	}
	if e.SongCounter() != 0 {
		t.Errorf("SongCounter() after underflow = %d, want 0", e.SongCounter())
	}
	order, row := e.Position()
	if order != 0 || row != 0 {
		t.Errorf("Position() after rewind underflow = (%d, %d), want (0, 0)", order, row)
	}
}

func TestEngineFastForwardAdvancesSongCounterFaster(t *testing.T) {
	e, _ := NewEngine(44100)
	song := buildPlayableSong()
	e.LoadSong(song)
	e.Play()

	left := make([]byte, 8)
	right := make([]byte, 8)
	e.MixInto(left, right, len(left))
	playingCount := e.SongCounter()

	if err := e.FastForward(); err != nil {
		t.Fatal(err)
	}
	e.MixInto(left, right, len(left))
	ffCount := e.SongCounter()

	if ffCount-playingCount != 4*len(left) {
		t.Errorf("songCounter delta while fast-forwarding = %d, want %d", ffCount-playingCount, 4*len(left))
	}
}

func TestEngineSeekToClampsToSongBounds(t *testing.T) {
	e, _ := NewEngine(44100)
	song := buildPlayableSong()
	e.LoadSong(song)

	if err := e.SeekTo(50, 50); err != nil {
		t.Fatal(err)
	}
	order, row := e.Position()
	if order != 0 {
		t.Errorf("order = %d, want clamped to 0 (only order)", order)
	}
	if row != 50 {
		t.Errorf("row = %d, want 50 (already inside a %d-row pattern, so not clamped)", row, rowsPerPattern)
	}
}
