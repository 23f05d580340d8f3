package main

import (
	"log/slog"
	"os"

	console "github.com/phsym/console-slog"
)

func main() {
	Execute()
}

// logLevel is shared by every logger the CLI creates so the daemon can change
// verbosity on reload.
var logLevel = new(slog.LevelVar)

func initLogger(level slog.Level) {
	logLevel.Set(level)
	slog.SetDefault(slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		Level: logLevel,
	})))
}
