package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/njchilds90/htmlclean/internal/config"
)

var logFile *os.File

func setupLog(env config.Env, debug bool) error {
	closeLog()
	log.SetOutput(os.Stderr)
	log.SetLevel(log.WarnLevel)
	if debug {
		log.SetLevel(log.DebugLevel)
	}
	if env.LogFile == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(env.LogFile), 0o755); err != nil {
		return fmt.Errorf("log file: %w", err)
	}
	f, err := os.OpenFile(env.LogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("log file: %w", err)
	}
	log.SetOutput(f)
	logFile = f
	return nil
}

func closeLog() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
		log.SetOutput(os.Stderr)
	}
}
