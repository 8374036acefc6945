// Command sssplay plays a MOD file through the default audio device, with
// an interactive transport (space to play/pause, s to stop, r to rewind,
// f to fast-forward, arrows to pick a channel, q to mute it, u to unmute
// it, Esc or Ctrl-C to quit) and a live status line.
package main

import (
	"flag"
	"log"
	"os"

	sss "github.com/sssplayer/engine"
	"github.com/sssplayer/engine/cmd/internal/config"
)

var (
	flagHz       = flag.Int("hz", 44100, "output hz")
	flagReverb   = flag.String("reverb", "none", "reverb mode: none, light, medium, silly")
	flagStartOrd = flag.Int("start", 0, "starting order in the MOD, clamped to song max")
	flagNoUI     = flag.Bool("noui", false, "disable the live status display")
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("sssplay: ")
	flag.Parse()

	if len(flag.Args()) == 0 {
		log.Fatal("missing MOD filename")
	}

	modF, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}

	song, err := sss.NewSongFromBytes(modF)
	if err != nil {
		log.Fatal(err)
	}

	engine, err := sss.NewEngine(*flagHz)
	if err != nil {
		log.Fatal(err)
	}
	if err := engine.LoadSong(song); err != nil {
		log.Fatal(err)
	}
	if err := engine.SeekTo(*flagStartOrd, 0); err != nil {
		log.Fatal(err)
	}

	reverb, err := config.ReverbFromFlag(*flagReverb, *flagHz)
	if err != nil {
		log.Fatal(err)
	}

	ap := NewAudioPlayer(engine, song, reverb, *flagNoUI)

	if err := engine.Play(); err != nil {
		log.Fatal(err)
	}

	if err := ap.Run(); err != nil {
		log.Fatal(err)
	}
}
