// Command sssdump parses a MOD file and prints its pattern data to stdout,
// for debugging a song's effect usage without playing it.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"

	sss "github.com/sssplayer/engine"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("sssdump: ")

	if len(os.Args) <= 1 {
		log.Fatal("missing song filename")
	}

	songF, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}

	song, err := sss.NewSongFromBytes(songF)
	if err != nil {
		log.Fatal(err)
	}

	cyan := color.New(color.FgCyan).SprintfFunc()
	magenta := color.New(color.FgMagenta).SprintfFunc()
	yellow := color.New(color.FgYellow).SprintfFunc()

	fmt.Printf("%q - %d orders, %d patterns\n", song.Title, song.NumOrders(), len(song.Patterns))

	for p := range song.Patterns {
		fmt.Printf("pattern %d\n", p)
		pat := &song.Patterns[p]
		for row := range pat {
			fmt.Printf("%02X ", row)
			for _, st := range pat[row] {
				fmt.Print(cyan("%2d", st.Sample), " ", st.Period, " ", magenta("%X", st.Effect), yellow("%02X", st.Param), "  ")
			}
			fmt.Println()
		}
	}
}
