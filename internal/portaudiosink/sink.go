// Package portaudiosink implements sss.AudioSink on top of PortAudio,
// binding the engine's mixed 8-bit PCM output to the host's default audio
// device.
package portaudiosink

import (
	"github.com/gordonklaus/portaudio"
)

// commonRates is the set of sample rates this sink is willing to open the
// default device at; PortAudio itself will reject anything the device
// doesn't actually support.
var commonRates = []int{44100, 48000, 22050, 11025, 8000}

// Sink streams int16 stereo frames to the default PortAudio output
// device, built by upconverting the engine's 8-bit mix output. PortAudio
// must already be initialized (portaudio.Initialize) before Open is
// called, and terminated by the caller after Close.
type Sink struct {
	stream   *portaudio.Stream
	rate     int
	callback func(out []int16)
}

// NewSink builds a Sink that calls fillFrames to produce each buffer of
// interleaved stereo int16 samples PortAudio asks for.
func NewSink(fillFrames func(out []int16)) *Sink {
	return &Sink{callback: fillFrames}
}

// QueryFormats reports the sample rates this sink is prepared to open.
func (s *Sink) QueryFormats() []int {
	return commonRates
}

// Open starts a PortAudio output stream at the given rate using the
// default output device.
func (s *Sink) Open(rate int) error {
	stream, err := portaudio.OpenDefaultStream(0, 2, float64(rate), portaudio.FramesPerBufferUnspecified, s.callback)
	if err != nil {
		return err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return err
	}
	s.stream = stream
	s.rate = rate
	return nil
}

// Submit is unused for this sink: PortAudio pulls audio via the callback
// passed to NewSink rather than being pushed to.
func (s *Sink) Submit(left, right []byte) error {
	return nil
}

// Reset stops and restarts the stream, dropping any buffered audio.
func (s *Sink) Reset() error {
	if s.stream == nil {
		return nil
	}
	if err := s.stream.Stop(); err != nil {
		return err
	}
	return s.stream.Start()
}

// Close stops and releases the PortAudio stream.
func (s *Sink) Close() error {
	if s.stream == nil {
		return nil
	}
	if err := s.stream.Stop(); err != nil {
		return err
	}
	return s.stream.Close()
}
