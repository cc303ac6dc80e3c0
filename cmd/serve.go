package cmd

import (
	"github.com/urfave/cli"

	"github.com/phoekz/raydiance-sub000/pkg/renderer"
	"github.com/phoekz/raydiance-sub000/web/server"
)

// Serve progressive renders over HTTP.
func Serve(ctx *cli.Context) error {
	setupLogging(ctx)

	params := renderer.DefaultParams()
	params.MaxBounceCount = ctx.Int("bounces")
	params.NumWorkers = ctx.Int("workers")
	if err := params.Validate(); err != nil {
		return err
	}

	logger.Noticef("visit http://localhost:%d/api/scenes to list scenes", ctx.Int("port"))
	return server.NewServer(ctx.Int("port"), params).Start()
}
