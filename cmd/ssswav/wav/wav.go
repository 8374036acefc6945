// Package wav is a minimal WAV file writer that doesn't need to know the
// amount of audio data up front: it seeks back and patches the RIFF/data
// chunk sizes once writing is finished.
// See http://soundfile.sapp.org/doc/WaveFormat/ for the format reference.
package wav

import (
	"encoding/binary"
	"errors"
	"io"
)

const wavTypePCM = 1

// ErrInvalidChunkHeaderLength means the provided chunk name was not 4
// characters.
var ErrInvalidChunkHeaderLength = errors.New("chunk header name is not 4 characters")

// Writer writes an 8-bit unsigned stereo PCM WAV file to WS, the engine's
// native mix output format, so frames pass through unconverted.
type Writer struct {
	WS io.WriteSeeker
}

type format struct {
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// NewWriter returns a Writer that writes a WAV header and then sample
// data to ws as frames arrive via WriteFrame.
func NewWriter(ws io.WriteSeeker, sampleRate int) (*Writer, error) {
	writer := &Writer{WS: ws}

	if err := writer.writeChunkHeader("RIFF", 0); err != nil {
		return nil, err
	}
	if _, err := ws.Write([]byte("WAVE")); err != nil {
		return nil, err
	}

	if err := writer.writeChunkHeader("fmt ", 16); err != nil {
		return nil, err
	}
	f := format{AudioFormat: wavTypePCM, Channels: 2, SampleRate: uint32(sampleRate), BitsPerSample: 8}
	f.ByteRate = uint32(sampleRate) * 2
	f.BlockAlign = 2
	if err := binary.Write(ws, binary.LittleEndian, f); err != nil {
		return nil, err
	}

	if err := writer.writeChunkHeader("data", 0); err != nil {
		return nil, err
	}

	return writer, nil
}

// WriteFrame writes interleaved unsigned 8-bit stereo frames (left[i],
// right[i], left[i+1], right[i+1], ...) built from the engine's separate
// left/right mix buffers.
func (w *Writer) WriteFrame(left, right []byte) error {
	interleaved := make([]byte, 2*len(left))
	for i := range left {
		interleaved[2*i] = left[i]
		interleaved[2*i+1] = right[i]
	}
	_, err := w.WS.Write(interleaved)
	return err
}

// Finish patches the RIFF and data chunk size fields now that the total
// length is known. Must be called after all frames have been written.
func (w *Writer) Finish() (int64, error) {
	wlen, err := w.WS.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}

	if _, err := w.WS.Seek(4, io.SeekStart); err != nil {
		return 0, err
	}
	if err := binary.Write(w.WS, binary.LittleEndian, int32(wlen-8)); err != nil {
		return 0, err
	}

	if _, err := w.WS.Seek(40, io.SeekStart); err != nil {
		return 0, err
	}
	if err := binary.Write(w.WS, binary.LittleEndian, int32(wlen-44)); err != nil {
		return 0, err
	}

	return wlen, nil
}

func (w *Writer) writeChunkHeader(chunk string, initialSize int) error {
	if len(chunk) != 4 {
		return ErrInvalidChunkHeaderLength
	}
	if n, err := w.WS.Write([]byte(chunk)); n != 4 || err != nil {
		return err
	}
	return binary.Write(w.WS, binary.LittleEndian, int32(initialSize))
}
