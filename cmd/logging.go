package cmd

import (
	"github.com/df07/go-hybrid-composer/pkg/log"
	"github.com/urfave/cli"
)

var logger = log.New("composer")

// setupLogging applies --log-level, then lets -v/-vv raise verbosity further
func setupLogging(ctx *cli.Context) error {
	if name := ctx.GlobalString("log-level"); name != "" {
		level, err := log.ParseLevel(name)
		if err != nil {
			return err
		}
		log.SetLevel(level)
	}

	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
	return nil
}
