package comb

import "testing"

func TestCombAppliesDecayedEcho(t *testing.T) {
	left := make([]byte, 40)
	right := make([]byte, 40)
	left[0] = 255 // a single impulse above center (128)
	right[0] = 255

	c := NewComb(left, right, 0.5, 5, 1000) // delayOffset = 5 frames

	outL := make([]byte, 40)
	outR := make([]byte, 40)
	n := c.GetAudio(outL, outR)
	if n != 40 {
		t.Fatalf("GetAudio returned %d, want 40", n)
	}

	if outL[5] == 128 {
		t.Error("expected a decayed echo of the impulse at the delay offset, got silence")
	}
	if outL[5] != outR[5] {
		t.Errorf("left/right channels should be processed identically for identical input, got %d vs %d", outL[5], outR[5])
	}
}

func TestCombAddStreamingMatchesOneShot(t *testing.T) {
	const n = 64
	left := make([]byte, n)
	right := make([]byte, n)
	for i := range left {
		left[i] = byte(128 + i%50)
		right[i] = byte(128 + i%50)
	}

	oneShot := NewComb(left, right, 0.4, 2, 1000)
	oneShotL := make([]byte, n)
	oneShotR := make([]byte, n)
	oneShot.GetAudio(oneShotL, oneShotR)

	streaming := NewCombAdd(n, 0.4, 2, 1000)
	streaming.InputSamples(left, right)
	streamL := make([]byte, n)
	streamR := make([]byte, n)
	got := streaming.GetAudio(streamL, streamR)
	if got != n {
		t.Fatalf("GetAudio returned %d, want %d", got, n)
	}

	for i := range oneShotL {
		if oneShotL[i] != streamL[i] {
			t.Errorf("left[%d]: one-shot=%d streaming=%d", i, oneShotL[i], streamL[i])
		}
	}
}

func TestCombAddReportsFramesNeededBeforeEcho(t *testing.T) {
	c := NewCombAdd(16, 0.5, 10, 1000) // delayOffset = 10 frames

	rem := c.InputSamples(make([]byte, 4), make([]byte, 4))
	if rem != 6 {
		t.Errorf("after feeding 4/10 frames, want 6 remaining, got %d", rem)
	}

	rem = c.InputSamples(make([]byte, 6), make([]byte, 6))
	if rem != 0 {
		t.Errorf("after feeding all 10 frames, want 0 remaining, got %d", rem)
	}
}

func TestPassThroughReturnsInputUnchanged(t *testing.T) {
	p := NewPassThrough()

	left := []byte{10, 20, 30}
	right := []byte{200, 210, 220}
	p.InputSamples(left, right)

	outL := make([]byte, 3)
	outR := make([]byte, 3)
	n := p.GetAudio(outL, outR)
	if n != 3 {
		t.Fatalf("GetAudio returned %d, want 3", n)
	}
	for i := range left {
		if outL[i] != left[i] || outR[i] != right[i] {
			t.Errorf("frame %d: got (%d,%d), want (%d,%d)", i, outL[i], outR[i], left[i], right[i])
		}
	}
}
