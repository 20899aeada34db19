package main

import (
	"os"

	"github.com/avstrong/resort/internal/app"
	"github.com/avstrong/resort/internal/config"
	"github.com/avstrong/resort/internal/logger"
)

func main() {
	var exitCode int

	conf, err := config.Load()
	if err != nil {
		logger.NewWithHandler(os.Stderr, "text", "info").LogErrorf("Failed to load config: %v", err.Error())
		os.Exit(1)
	}

	l := logger.NewWithHandler(os.Stdout, conf.LogFormat, conf.LogLevel)

	if err := app.Run(l, conf); err != nil {
		l.LogErrorf("Failed to run app: %v", err.Error())

		exitCode = 1
	}

	os.Exit(exitCode)
}
