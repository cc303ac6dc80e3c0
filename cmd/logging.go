package cmd

import (
	"github.com/urfave/cli"

	"github.com/phoekz/raydiance-sub000/pkg/log"
)

var logger = log.New("raydiance")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
