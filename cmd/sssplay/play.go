package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/fatih/color"
	"github.com/gordonklaus/portaudio"

	sss "github.com/sssplayer/engine"
	"github.com/sssplayer/engine/internal/comb"
	"github.com/sssplayer/engine/internal/portaudiosink"
)

var (
	white   = color.New(color.FgWhite).SprintfFunc()
	cyan    = color.New(color.FgCyan).SprintfFunc()
	magenta = color.New(color.FgMagenta).SprintfFunc()
	yellow  = color.New(color.FgYellow).SprintfFunc()
	blue    = color.New(color.FgHiBlue).SprintFunc()
	green   = color.New(color.FgGreen).SprintfFunc()
)

const (
	escape     = "\x1b["
	hideCursor = escape + "?25l"
	showCursor = escape + "?25h"
)

const (
	patternRowsBefore = 4
	patternRowsAfter  = 4
	uiLineCount       = 7
)

// AudioPlayer wires the engine to a PortAudio output stream and renders a
// live terminal status display while it plays.
type AudioPlayer struct {
	engine *sss.Engine
	song   *sss.Song
	reverb comb.Reverber
	sink   *portaudiosink.Sink

	scratchL, scratchR []byte

	uiWriter        io.Writer
	selectedChannel int
	soloChannel     int
	lastOrder       int
	lastRow         int
	haveLast        bool

	ctx            context.Context
	cancelFn       context.CancelFunc
	wg             sync.WaitGroup
	stopOnce       sync.Once
	terminated     bool
	keyboardDoneCh chan struct{}
}

// NewAudioPlayer builds an AudioPlayer bound to engine/song, optionally
// discarding UI output entirely (noUI).
func NewAudioPlayer(engine *sss.Engine, song *sss.Song, reverb comb.Reverber, noUI bool) *AudioPlayer {
	var uiw io.Writer = os.Stdout
	if noUI {
		uiw = io.Discard
	}

	ctx, cancel := context.WithCancel(context.Background())

	ap := &AudioPlayer{
		engine:         engine,
		song:           song,
		reverb:         reverb,
		scratchL:       make([]byte, 16*1024),
		scratchR:       make([]byte, 16*1024),
		uiWriter:       uiw,
		soloChannel:    -1,
		ctx:            ctx,
		cancelFn:       cancel,
		keyboardDoneCh: make(chan struct{}),
	}
	ap.sink = portaudiosink.NewSink(ap.streamCallback)
	return ap
}

// Run starts the audio stream, the keyboard and signal handlers, and loops
// rendering the UI until the player is stopped.
func (ap *AudioPlayer) Run() error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}

	if err := ap.setupAudioStream(); err != nil {
		return err
	}

	ap.setupSignalHandlers()
	ap.setupKeyboardHandlers()

	fmt.Fprint(ap.uiWriter, hideCursor)
	if len(ap.song.Title) > 0 {
		fmt.Fprintln(ap.uiWriter, ap.song.Title)
	}

	for {
		select {
		case <-ap.ctx.Done():
			goto exit
		default:
		}

		order, row := ap.engine.Position()
		if !ap.haveLast || order != ap.lastOrder || row != ap.lastRow {
			ap.renderUI(order, row)
			ap.lastOrder, ap.lastRow, ap.haveLast = order, row, true
		}
	}

exit:
	fmt.Fprint(ap.uiWriter, showCursor)

	select {
	case <-ap.keyboardDoneCh:
	case <-time.After(500 * time.Millisecond):
	}

	ap.wg.Wait()
	return nil
}

func (ap *AudioPlayer) setupAudioStream() error {
	return ap.sink.Open(*flagHz)
}

// streamCallback is called by PortAudio to fill out with interleaved
// stereo int16 samples. The engine mixes into 8-bit unsigned scratch
// buffers, which are fed through the reverb stage and finally upconverted
// to signed 16-bit for the audio device.
func (ap *AudioPlayer) streamCallback(out []int16) {
	n := len(out) / 2
	left := ap.scratchL[:n]
	right := ap.scratchR[:n]

	switch ap.engine.Mode() {
	case sss.ModePlaying, sss.ModeRewinding, sss.ModeFastForwarding:
		ap.engine.MixInto(left, right, n)
	default:
		for i := range left {
			left[i], right[i] = 128, 128
		}
	}

	ap.reverb.InputSamples(left, right)
	got := ap.reverb.GetAudio(left, right)

	for i := 0; i < got; i++ {
		out[i*2] = (int16(left[i]) - 128) << 8
		out[i*2+1] = (int16(right[i]) - 128) << 8
	}
	for i := got; i < n; i++ {
		out[i*2], out[i*2+1] = 0, 0
	}
}

func (ap *AudioPlayer) setupSignalHandlers() {
	sigch := make(chan os.Signal, 5)
	signal.Notify(sigch, syscall.SIGINT)

	ap.wg.Add(1)
	go func() {
		defer ap.wg.Done()
		select {
		case <-ap.ctx.Done():
		case <-sigch:
			ap.Stop()
		}
	}()
}

func (ap *AudioPlayer) setupKeyboardHandlers() {
	ap.wg.Add(1)
	go func() {
		defer ap.wg.Done()
		keyboard.Listen(func(key keys.Key) (stop bool, err error) {
			if key.Code == keys.CtrlC || key.Code == keys.Escape {
				ap.Stop()
				return true, nil
			}
			ap.handleKeyPress(key)
			return false, nil
		})
		close(ap.keyboardDoneCh)
	}()
}

func (ap *AudioPlayer) handleKeyPress(key keys.Key) {
	switch key.Code {
	case keys.Left:
		if ap.selectedChannel > 0 {
			ap.selectedChannel--
		}
	case keys.Right:
		if ap.selectedChannel < sss.MusicChannels-1 {
			ap.selectedChannel++
		}
	case keys.Space:
		if ap.engine.Mode() == sss.ModePlaying {
			ap.engine.Pause()
		} else {
			ap.engine.Play()
		}
	case keys.RuneKey:
		if len(key.Runes) == 0 {
			return
		}
		switch key.Runes[0] {
		case 's':
			ap.engine.Stop()
		case 'q':
			ap.engine.MuteChannel(ap.selectedChannel, true)
		case 'u':
			ap.engine.MuteChannel(ap.selectedChannel, false)
		case 'r':
			if ap.engine.Mode() == sss.ModeRewinding {
				ap.engine.Play()
			} else {
				ap.engine.Rewind()
			}
		case 'f':
			if ap.engine.Mode() == sss.ModeFastForwarding {
				ap.engine.Play()
			} else {
				ap.engine.FastForward()
			}
		}
	}
}

// Stop tears down the audio stream and PortAudio exactly once, whether
// called from the SIGINT handler or the keyboard quit keys. It is not
// called when the song reaches its end.
func (ap *AudioPlayer) Stop() {
	ap.stopOnce.Do(func() {
		ap.engine.Stop()
		ap.cancelFn()

		ap.sink.Close()
		if !ap.terminated {
			portaudio.Terminate()
			ap.terminated = true
		}
		fmt.Fprint(ap.uiWriter, showCursor)
	})
}

func (ap *AudioPlayer) renderUI(order, row int) {
	fmt.Fprintf(ap.uiWriter, "%s %02X %s %02X/%02X\n",
		blue("row"), row, blue("order"), order, ap.song.NumOrders())

	for ch := 0; ch < sss.MusicChannels; ch++ {
		marker := ' '
		if ch == ap.selectedChannel {
			marker = '*'
		}
		fmt.Fprintf(ap.uiWriter, "%s%2d%c vol %s ", green(""), ch+1, marker, cyan("%2d", ap.engine.ChannelVolume(ch)))
	}
	fmt.Fprintln(ap.uiWriter)

	for i := -patternRowsBefore; i <= patternRowsAfter; i++ {
		ap.renderNoteRow(order, row+i, i == 0)
	}

	fmt.Fprintf(ap.uiWriter, escape+"%dF", uiLineCount)
}

func (ap *AudioPlayer) renderNoteRow(order, row int, isCurrent bool) {
	steps := ap.engine.StepAt(order, row)
	if steps == nil {
		fmt.Fprintln(ap.uiWriter)
		return
	}

	if isCurrent {
		fmt.Fprint(ap.uiWriter, ">>> ")
	} else {
		fmt.Fprint(ap.uiWriter, "    ")
	}

	for i, st := range steps {
		fmt.Fprint(ap.uiWriter, white("%3d", st.Period), " ", cyan("%2X", st.Sample), " ", magenta("%X", st.Effect), yellow("%02X", st.Param))
		if i < len(steps)-1 {
			fmt.Fprint(ap.uiWriter, "|")
		}
	}

	if isCurrent {
		fmt.Fprint(ap.uiWriter, " <<<")
	}
	fmt.Fprintln(ap.uiWriter)
}
