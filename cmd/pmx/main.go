// pmx manages prompt profiles and serves them to MCP clients.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ppiankov/pmx/internal/cli"
)

func main() {
	// stdout carries the MCP stream; logs go to stderr.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	cli.Execute()
}
