package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"
)

var (
	errorLogger *log.Logger
	debugLogger *log.Logger
	doDebug     bool

	// warnLimiter throttles per-frame warnings so a malformed map cannot
	// flood the log at 60 ticks per second.
	warnLimiter = rate.NewLimiter(rate.Every(time.Second), 5)
)

func setupLogging(debug bool) {
	logDir := filepath.Join(baseDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		fmt.Printf("could not create log directory: %v\n", err)
	}
	ts := time.Now().Format("20060102-150405")

	errPath := filepath.Join(logDir, fmt.Sprintf("error-%s.log", ts))
	errFile, err := os.Create(errPath)
	var errWriter io.Writer = os.Stdout
	if err == nil {
		errWriter = io.MultiWriter(os.Stdout, errFile)
	}
	errorLogger = log.New(errWriter, "", log.LstdFlags)
	log.SetOutput(errWriter)

	setDebugLogging(debug)
}

func setDebugLogging(debug bool) {
	doDebug = debug
	if !debug {
		debugLogger = nil
		return
	}
	logDir := filepath.Join(baseDir, "logs")
	ts := time.Now().Format("20060102-150405")
	dbgPath := filepath.Join(logDir, fmt.Sprintf("debug-%s.log", ts))
	dbgFile, err := os.Create(dbgPath)
	var dbgWriter io.Writer = os.Stdout
	if err == nil {
		dbgWriter = io.MultiWriter(os.Stdout, dbgFile)
	}
	debugLogger = log.New(dbgWriter, "", log.LstdFlags)
}

func logError(format string, v ...interface{}) {
	if errorLogger != nil {
		errorLogger.Printf(format, v...)
		return
	}
	log.Printf(format, v...)
}

func logDebug(format string, v ...interface{}) {
	if debugLogger != nil {
		debugLogger.Printf(format, v...)
	}
}

// logWarnThrottled is for warnings that can repeat every tick, like a bad
// portal entry hit during collision scans.
func logWarnThrottled(format string, v ...interface{}) {
	if warnLimiter.Allow() {
		logError(format, v...)
	}
}
