package sss

// volumeTable is a precomputed attenuation LUT: volumeTable[v][x] scales an
// unsigned 8-bit sample byte x by volume level v (0..MaxVolume-1), producing
// a signed result centered on zero. The one entry that would exceed int8
// (x=255 at full volume, 128) saturates at 127. Built once at package init
// rather than per-mix, mirroring build_volume_tables() in the original engine.
var volumeTable [MaxVolume][256]int8

func init() {
	for v := 0; v < MaxVolume; v++ {
		for x := 0; x < 256; x++ {
			val := ((x - 127) * v) / (MaxVolume - 1)
			if val > 127 {
				val = 127
			}
			volumeTable[v][x] = int8(val)
		}
	}
}

// scale applies volume level v to a raw unsigned 8-bit sample byte (already
// biased into 0..255), returning a signed attenuated value ready for the
// pan re-indexing stage.
func scale(x byte, v int) int8 {
	if v < 0 {
		v = 0
	}
	if v >= MaxVolume {
		v = MaxVolume - 1
	}
	return volumeTable[v][x]
}

// panSplit re-indexes an already volume-attenuated sample through the same
// table a second time, once per output channel: lut[15-pan][s+128] for
// left, lut[pan][s+128] for right. This is the engine's two-stage lookup
// (attenuate by volume, then again by pan) rather than independent gain
// fractions, matching sss.c's mix loop.
func panSplit(s int8, pan int) (left, right int8) {
	if pan < PanLeft {
		pan = PanLeft
	}
	if pan > PanRight {
		pan = PanRight
	}
	x := byte(int(s) + 128)
	left = volumeTable[PanRight-pan][x]
	right = volumeTable[pan][x]
	return left, right
}
