package main

import (
	"os"

	"github.com/capturekit/outboxtest/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
