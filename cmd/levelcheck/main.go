package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/milk9111/ogmo/levels"
	"github.com/milk9111/ogmo/logger"
)

func main() {
	project := flag.String("project", "", "path to an .ogmo project (embedded sample when empty)")
	strict := flag.Bool("strict", false, "fail on entities without a prefab")
	textures := flag.Bool("textures", false, "load tileset images and report missing tiles")
	assetDir := flag.String("assets", "", "extra directory searched for images")
	watch := flag.Bool("watch", false, "re-check whenever a level or project file changes")
	flag.Parse()

	_ = godotenv.Load()
	logger.Init()
	log := logger.Log

	cfg := config{
		project:  *project,
		levels:   flag.Args(),
		strict:   *strict,
		textures: *textures,
		assetDir: *assetDir,
	}
	c, err := newChecker(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("prefabs")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	_, err = c.run(ctx)
	if err != nil {
		log.WithError(err).Error("check failed")
	}
	if !*watch {
		if err != nil {
			os.Exit(1)
		}
		return
	}
	if cfg.project == "" {
		log.Fatal("-watch needs -project")
	}

	dirs := map[string]bool{filepath.Dir(cfg.project): true}
	for _, l := range cfg.levels {
		dirs[filepath.Dir(l)] = true
	}
	watchDirs := make([]string, 0, len(dirs))
	for d := range dirs {
		watchDirs = append(watchDirs, d)
	}
	watcher, err := levels.NewWatcher(watchDirs)
	if err != nil {
		log.WithError(err).Fatal("watch")
	}
	defer watcher.Close()

	log.WithField("dirs", watchDirs).Info("watching")
	for {
		select {
		case <-ctx.Done():
			return
		case name, ok := <-watcher.Events:
			if !ok {
				return
			}
			log.WithField("file", name).Info("changed")
			if _, err := c.run(ctx); err != nil {
				log.WithError(err).Error("check failed")
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.WithError(err).Warn("watcher")
		}
	}
}
