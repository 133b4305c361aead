package main

import (
	"log/slog"

	"github.com/zerosync-co/tintdiff/cmd"
	"github.com/zerosync-co/tintdiff/internal/logging"
)

func main() {
	defer logging.RecoverPanic("main", func() {
		slog.Error("Application terminated due to unhandled panic")
	})

	cmd.Execute()
}
