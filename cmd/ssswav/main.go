// Command ssswav renders a MOD file to an 8-bit PCM WAV file, stopping
// once the song ends or the play order loops back to where it started.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	sss "github.com/sssplayer/engine"
	"github.com/sssplayer/engine/cmd/internal/config"
	"github.com/sssplayer/engine/cmd/ssswav/wav"
)

const outputHz = 44100
const chunkFrames = 2048

func main() {
	log.SetFlags(0)
	log.SetPrefix("ssswav: ")

	wavOut := flag.String("wav", "", "output WAV file path")
	reverbMode := flag.String("reverb", "none", "reverb mode: none, light, medium, silly")
	flag.Parse()

	if len(flag.Args()) == 0 {
		log.Fatal("missing MOD filename")
	}
	if *wavOut == "" {
		log.Fatal("no -wav option provided")
	}

	modF, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}

	song, err := sss.NewSongFromBytes(modF)
	if err != nil {
		log.Fatal(err)
	}

	engine, err := sss.NewEngine(outputHz)
	if err != nil {
		log.Fatal(err)
	}
	if err := engine.LoadSong(song); err != nil {
		log.Fatal(err)
	}

	reverb, err := config.ReverbFromFlag(*reverbMode, outputHz)
	if err != nil {
		log.Fatal(err)
	}

	wavF, err := os.Create(*wavOut)
	if err != nil {
		log.Fatal(err)
	}
	defer wavF.Close()

	wavW, err := wav.NewWriter(wavF, outputHz)
	if err != nil {
		log.Fatal(err)
	}

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, syscall.SIGINT)
	stopped := false
	go func() {
		<-sigch
		stopped = true
	}()

	if err := engine.Play(); err != nil {
		log.Fatal(err)
	}

	left := make([]byte, chunkFrames)
	right := make([]byte, chunkFrames)

	startOrder, _ := engine.Position()
	lastOrder := startOrder
	leftStart := false

	for !stopped {
		engine.MixInto(left, right, chunkFrames)
		reverb.InputSamples(left, right)
		got := reverb.GetAudio(left, right)
		if got > 0 {
			if err := wavW.WriteFrame(left[:got], right[:got]); err != nil {
				log.Fatal(err)
			}
		}

		order, _ := engine.Position()
		if order != lastOrder {
			fmt.Printf("%d/%d\n", order+1, song.NumOrders())
			lastOrder = order
		}
		if order != startOrder {
			leftStart = true
		}
		if leftStart && order == startOrder {
			break
		}
		if engine.Mode() == sss.ModeStopped {
			break
		}
	}

	if _, err := wavW.Finish(); err != nil {
		log.Fatal(err)
	}
}
