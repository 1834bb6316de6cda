package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
)

var baseDir string

func main() {
	debugFlag := flag.Bool("debug", false, "enable debug logging")
	worldFlag := flag.String("world", "", "world folder to start in")
	pickMaps := flag.Bool("pickmaps", false, "prompt for the Maps folder if it cannot be found")
	flag.Parse()

	baseDir = os.Getenv("PWD")
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			log.Fatalf("working directory: %v", err)
		}
		baseDir = wd
	}

	loadSettings()
	setupLogging(*debugFlag)
	setDebugLogging(*debugFlag)

	defer func() {
		if r := recover(); r != nil {
			logError("panic: %v\n%s", r, debug.Stack())
			panic(r)
		}
	}()

	initHUDPalette()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	initDiscordRPC(ctx)

	g, err := newGame(baseDir, *worldFlag, *pickMaps)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	runGame(ctx, g)
}
