package main

import (
	"flag"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	flag.Parse()

	if *cpuProfileFlag != "" {
		stop, err := startCPUProfile(*cpuProfileFlag)
		if err != nil {
			log.Fatalf("CPU profile setup failed: %v", err)
		}
		defer stop()
	}

	seed := *seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Printf("Simulation seed: %d", seed)

	g := newGame(seed)
	if *autoWalkFlag > 0 {
		g.enableAutoWalk(*autoWalkFlag)
	}

	ebiten.SetWindowSize(screenW*windowScale, screenH*windowScale)
	ebiten.SetWindowTitle("Acoustic Reflections")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatalf("Game loop failed: %v", err)
	}
}
