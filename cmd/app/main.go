package main

import (
	"github.com/VICHiNG16/MusicDuel/internal/app"
	"github.com/VICHiNG16/MusicDuel/internal/config"
)

func main() {
	app.Go(config.Load())
}
