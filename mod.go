package sss

import "encoding/binary"

// MOD file layout constants, from sss_mod.c.
const (
	mod31SongNameLen  = 20
	mod31InstNameLen  = 22
	mod31NumInst      = 31
	mod15NumInst      = 15
	mod31OrderListOff = 20 + mod31NumInst*30 // title + 31 instrument headers
	mod31NumOrdersOff = mod31OrderListOff
	mod31RestartOff   = mod31OrderListOff + 1
	mod31OrdersOff    = mod31OrderListOff + 2
	mod31SigOff       = mod31OrdersOff + 128
	mod31HeaderSize   = mod31SigOff + 4

	mod15HeaderSize = 20 + mod15NumInst*30 + 1 + 1 + 128
)

// signatures recognized at byte offset mod31SigOff in a 31-instrument MOD.
var mod31Signatures = map[string]int{
	"M.K.": 4,
	"M!K!": 4,
	"FLT4": 4,
	"FLT8": 8,
	"4CHN": 4,
	"6CHN": 6,
	"8CHN": 8,
}

// instHeader is one instrument's metadata entry in the MOD header.
type instHeader struct {
	Name        string
	LengthWords uint16
	FineTune    int8
	Volume      uint8
	RepeatStart uint16
	RepeatLen   uint16
}

// NewSongFromBytes parses a MOD file, probing first for the 31-instrument
// signature and falling back to the older 15-instrument layout. It returns
// ErrUnrecognizedMOD if neither shape matches.
func NewSongFromBytes(data []byte) (*Song, error) {
	if len(data) >= mod31HeaderSize {
		sigBytes := data[mod31SigOff : mod31SigOff+4]
		if _, ok := mod31Signatures[string(sigBytes)]; ok {
			return load31(data)
		}
	}
	if len(data) >= mod15HeaderSize {
		return load15(data)
	}
	return nil, ErrUnrecognizedMOD
}

func load31(data []byte) (*Song, error) {
	title := trimCString(data[0:mod31SongNameLen])

	insts := make([]instHeader, mod31NumInst)
	off := mod31SongNameLen
	for i := 0; i < mod31NumInst; i++ {
		insts[i] = parseInstHeader31(data[off : off+30])
		off += 30
	}

	numOrders := int(data[mod31NumOrdersOff])
	if numOrders > 128 {
		numOrders = 128
	}
	restart := int(data[mod31RestartOff])

	orderBytes := data[mod31OrdersOff : mod31OrdersOff+128]
	maxPattern := 0
	orders := make([]int, numOrders)
	for i := 0; i < numOrders; i++ {
		orders[i] = int(orderBytes[i])
		if orders[i] > maxPattern {
			maxPattern = orders[i]
		}
	}

	sigBytes := string(data[mod31SigOff : mod31SigOff+4])
	numChannels := mod31Signatures[sigBytes]

	patOff := mod31HeaderSize
	numPatterns := maxPattern + 1
	patterns, err := parsePatterns(data, patOff, numPatterns, numChannels)
	if err != nil {
		return nil, err
	}

	sampleOff := patOff + numPatterns*rowsPerPattern*numChannels*4
	st := SampleStore{}
	for i, ih := range insts {
		length := int(ih.LengthWords) * 2
		var sampleData []byte
		if sampleOff+length <= len(data) {
			sampleData = data[sampleOff : sampleOff+length]
		}
		sampleOff += length

		vol := int(ih.Volume)
		if vol > MaxVolume-1 {
			vol = MaxVolume - 1
		}
		_, addErr := st.Add(Sample{
			Name:        ih.Name,
			Data:        append([]byte(nil), sampleData...),
			Rate:        modSampleRate,
			FineTune:    ih.FineTune,
			Volume:      vol,
			RepeatStart: int(ih.RepeatStart) * 2,
			RepeatLen:   int(ih.RepeatLen) * 2,
		}, false)
		if addErr != nil && addErr != ErrNoHandles {
			return nil, addErr
		}
		_ = i
	}

	return &Song{
		Title:    title,
		Samples:  st,
		Patterns: patterns,
		Orders:   orders,
		Restart:  restart,
	}, nil
}

func load15(data []byte) (*Song, error) {
	title := trimCString(data[0:mod31SongNameLen])

	insts := make([]instHeader, mod15NumInst)
	off := mod31SongNameLen
	for i := 0; i < mod15NumInst; i++ {
		insts[i] = parseInstHeader31(data[off : off+30])
		off += 30
	}

	numOrdersOff := off
	numOrders := int(data[numOrdersOff])
	if numOrders > 128 {
		numOrders = 128
	}
	restart := int(data[numOrdersOff+1])
	ordersOff := numOrdersOff + 2

	orderBytes := data[ordersOff : ordersOff+128]
	maxPattern := 0
	orders := make([]int, numOrders)
	for i := 0; i < numOrders; i++ {
		orders[i] = int(orderBytes[i])
		if orders[i] > maxPattern {
			maxPattern = orders[i]
		}
	}

	const numChannels = 4
	patOff := ordersOff + 128
	numPatterns := maxPattern + 1
	patterns, err := parsePatterns(data, patOff, numPatterns, numChannels)
	if err != nil {
		return nil, err
	}

	sampleOff := patOff + numPatterns*rowsPerPattern*numChannels*4
	st := SampleStore{}
	for _, ih := range insts {
		length := int(ih.LengthWords) * 2
		var sampleData []byte
		if sampleOff+length <= len(data) {
			sampleData = data[sampleOff : sampleOff+length]
		}
		sampleOff += length

		vol := int(ih.Volume)
		if vol > MaxVolume-1 {
			vol = MaxVolume - 1
		}
		_, addErr := st.Add(Sample{
			Name:        ih.Name,
			Data:        append([]byte(nil), sampleData...),
			Rate:        modSampleRate,
			FineTune:    ih.FineTune,
			Volume:      vol,
			RepeatStart: int(ih.RepeatStart) * 2,
			RepeatLen:   int(ih.RepeatLen) * 2,
		}, false)
		if addErr != nil && addErr != ErrNoHandles {
			return nil, addErr
		}
	}

	return &Song{
		Title:    title,
		Samples:  st,
		Patterns: patterns,
		Orders:   orders,
		Restart:  restart,
	}, nil
}

func parseInstHeader31(b []byte) instHeader {
	name := trimCString(b[0:22])
	lengthWords := binary.BigEndian.Uint16(b[22:24])
	fineTuneNibble := b[24] & 0x0F
	fineTune := int8(fineTuneNibble)
	if fineTune > 7 {
		fineTune -= 16
	}
	volume := b[25]
	repeatStart := binary.BigEndian.Uint16(b[26:28])
	repeatLen := binary.BigEndian.Uint16(b[28:30])
	return instHeader{
		Name:        name,
		LengthWords: lengthWords,
		FineTune:    fineTune,
		Volume:      volume,
		RepeatStart: repeatStart,
		RepeatLen:   repeatLen,
	}
}

// parsePatterns reads numPatterns patterns of numChannels tracks each,
// always normalizing to Pattern's fixed 4-track shape: in MOD variants with
// more than 4 channels, track ch is stored in slot ch%4, so a later track
// overwrites the earlier one sharing its slot. The sequencer drives only
// tracksPerPattern voices regardless of the source format's channel count.
func parsePatterns(data []byte, off, numPatterns, numChannels int) ([]Pattern, error) {
	patterns := make([]Pattern, numPatterns)
	cursor := off
	for p := 0; p < numPatterns; p++ {
		for row := 0; row < rowsPerPattern; row++ {
			for ch := 0; ch < numChannels; ch++ {
				if cursor+4 > len(data) {
					return nil, ErrReadFile
				}
				b := data[cursor : cursor+4]
				cursor += 4

				sampleHi := b[0] & 0xF0
				period := int(b[0]&0x0F)<<8 | int(b[1])
				sampleLo := b[2] & 0xF0
				effectNibble := b[2] & 0x0F
				param := int(b[3])

				sampleNum := int(sampleHi) | int(sampleLo>>4)
				eff, p2 := decodeEffect(effectNibble, param)

				dst := ch % tracksPerPattern
				patterns[p][row][dst] = Step{
					Sample: sampleNum,
					Period: period,
					Effect: eff,
					Param:  p2,
				}
			}
		}
	}
	return patterns, nil
}

// decodeEffect maps the MOD subset of effect nibbles this engine supports
// (0xB jump, 0xD pattern break, 0xF tempo, 0xC volume) onto the package's
// Effect type; anything else is EffectNone, matching spec's stated effect
// scope (no porta/vibrato/arpeggio).
func decodeEffect(nibble byte, param int) (Effect, int) {
	switch nibble {
	case 0xB:
		return EffectJump, param
	case 0xD:
		return EffectPatternBreak, (param>>4)*10 + param&0x0F
	case 0xF:
		return EffectSetTempo, param
	case 0xC:
		return EffectSetVolume, param
	default:
		return EffectNone, 0
	}
}

// modSampleRate is the fixed rate every MOD sample is assumed to have been
// recorded at; the format carries no actual per-sample rate field.
const modSampleRate = 8000

func trimCString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
