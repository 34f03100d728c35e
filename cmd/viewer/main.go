package main

import (
	"flag"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/joho/godotenv"
	"github.com/milk9111/ogmo/assets"
	"github.com/milk9111/ogmo/logger"
)

func main() {
	project := flag.String("project", "", "path to an .ogmo project (embedded sample when empty)")
	level := flag.String("level", "", "level file to show")
	assetDir := flag.String("assets", "", "extra directory searched for images")
	watch := flag.Bool("watch", false, "reload the level when it changes on disk")
	flag.Parse()

	_ = godotenv.Load()
	logger.Init()
	log := logger.Log

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("ogmo viewer")
	if icon, err := assets.DecodeImage("decals/moss.png"); err == nil {
		ebiten.SetWindowIcon([]image.Image{icon})
	}

	sessions, err := openSessionStore("ogmo_viewer")
	if err != nil {
		log.WithError(err).Warn("viewer state will not be kept")
	}

	game, err := NewGame(viewerConfig{
		project:  *project,
		level:    *level,
		assetDir: *assetDir,
		watch:    *watch,
	}, sessions, log)
	if err != nil {
		log.WithError(err).Fatal("viewer")
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.WithError(err).Fatal("viewer")
	}
}
