// Package comb implements a comb-filter reverb for 8-bit unsigned stereo
// PCM, the post-mix format the engine's driver produces. It is adapted
// from a 16-bit interleaved comb filter: same delay-and-decay technique,
// retargeted to separate left/right byte streams and signed-centered
// arithmetic instead of int16 samples.
package comb

// Reverber is the optional post-mix stage a host can install between the
// engine's driver and its AudioSink. NewPassThrough satisfies it with no
// processing at all.
type Reverber interface {
	InputSamples(left, right []byte) int
	GetAudio(left, right []byte) int
}

// Comb applies reverb to a fixed block of stereo audio at construction
// time; it cannot accept more data afterward.
type Comb struct {
	delayOffset int
	readPos     int
	left, right []byte
}

// NewComb builds a Comb over copies of left and right, adding the decayed
// echo at a delay of delayMs milliseconds (delayMs*sampleRate/1000 frames)
// during construction.
func NewComb(left, right []byte, decay float32, delayMs, sampleRate int) *Comb {
	c := &Comb{
		delayOffset: (delayMs * sampleRate) / 1000,
		left:        append([]byte(nil), left...),
		right:       append([]byte(nil), right...),
	}

	for i := 0; i+c.delayOffset < len(c.left); i++ {
		c.left[i+c.delayOffset] = addDecayed(c.left[i+c.delayOffset], c.left[i], decay)
		c.right[i+c.delayOffset] = addDecayed(c.right[i+c.delayOffset], c.right[i], decay)
	}

	return c
}

// GetAudio copies up to len(left) frames of processed audio out.
func (c *Comb) GetAudio(left, right []byte) int {
	n := len(left)
	if c.readPos+n > len(c.left) {
		n = len(c.left) - c.readPos
	}
	if n <= 0 {
		return 0
	}
	copy(left, c.left[c.readPos:c.readPos+n])
	copy(right, c.right[c.readPos:c.readPos+n])
	c.readPos += n
	return n
}

// CombAdd is a streaming comb filter: it can be fed audio incrementally
// and retains every sample fed to it, with no upper bound on memory used.
type CombAdd struct {
	Comb
	writePos int
	decay    float32
}

// NewCombAdd builds a streaming comb filter, preallocating space for
// initialSize frames.
func NewCombAdd(initialSize int, decay float32, delayMs, sampleRate int) *CombAdd {
	return &CombAdd{
		Comb: Comb{
			delayOffset: (delayMs * sampleRate) / 1000,
			left:        make([]byte, 0, initialSize),
			right:       make([]byte, 0, initialSize),
		},
		decay: decay,
	}
}

// InputSamples feeds new stereo audio into the filter and applies decay to
// every frame that has now aged past delayOffset. It returns the number
// of frames still needed before reverb starts being audible.
func (c *CombAdd) InputSamples(left, right []byte) int {
	c.left = append(c.left, left...)
	c.right = append(c.right, right...)

	if len(c.left) > c.delayOffset {
		ns := len(c.left) - (c.delayOffset + c.writePos)
		for i := 0; i < ns; i++ {
			idx := i + c.delayOffset + c.writePos
			src := i + c.writePos
			c.left[idx] = addDecayed(c.left[idx], c.left[src], c.decay)
			c.right[idx] = addDecayed(c.right[idx], c.right[src], c.decay)
		}
		c.writePos += ns
	}

	rem := c.delayOffset - len(c.left)
	if rem < 0 {
		rem = 0
	}
	return rem
}

// GetAudio drains up to len(left) frames of processed audio.
func (c *CombAdd) GetAudio(left, right []byte) int {
	wanted := len(left)
	have := len(c.left) - c.readPos
	if wanted > have {
		wanted = have
	}
	if wanted > 0 {
		copy(left, c.left[c.readPos:c.readPos+wanted])
		copy(right, c.right[c.readPos:c.readPos+wanted])
		c.readPos += wanted
	}
	return wanted
}

// addDecayed adds a decayed copy of src onto dst, treating both as
// unsigned 8-bit PCM centered on 128, and saturates instead of wrapping.
func addDecayed(dst, src byte, decay float32) byte {
	v := int(dst) + int(float32(int(src)-128)*decay)
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return byte(v)
}

// PassThrough is a Reverber that performs no processing, used when a host
// selects reverb mode "none".
type PassThrough struct {
	left, right []byte
	readPos     int
}

// NewPassThrough builds a no-op Reverber.
func NewPassThrough() *PassThrough {
	return &PassThrough{}
}

func (p *PassThrough) InputSamples(left, right []byte) int {
	p.left = append(p.left, left...)
	p.right = append(p.right, right...)
	return 0
}

func (p *PassThrough) GetAudio(left, right []byte) int {
	wanted := len(left)
	have := len(p.left) - p.readPos
	if wanted > have {
		wanted = have
	}
	if wanted > 0 {
		copy(left, p.left[p.readPos:p.readPos+wanted])
		copy(right, p.right[p.readPos:p.readPos+wanted])
		p.readPos += wanted
	}
	return wanted
}
