package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/phoekz/raydiance-sub000/cmd"
	"github.com/phoekz/raydiance-sub000/pkg/log"
)

var logger = log.New("raydiance")

func newApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	renderFlags := []cli.Flag{
		cli.IntFlag{
			Name:  "bounces",
			Value: 5,
			Usage: "maximum number of bounces per path",
		},
		cli.IntFlag{
			Name:  "workers",
			Value: 0,
			Usage: "number of render workers, 0 uses every cpu",
		},
	}

	app := cli.NewApp()
	app.Name = "raydiance"
	app.Usage = "progressive cpu path tracer"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a still frame",
			Description: `
Render a built-in scene, optionally with an extra PLY mesh, until the requested
number of samples per pixel has accumulated. The output format is chosen by the
file extension: .png, .tiff or .bmp.`,
			Flags: append([]cli.Flag{
				cli.StringFlag{
					Name:  "scene, s",
					Value: "default",
					Usage: "built-in scene name",
				},
				cli.StringFlag{
					Name:  "ply",
					Usage: "add a mesh loaded from a PLY file",
				},
				cli.StringFlag{
					Name:  "texture",
					Usage: "base color image for the PLY mesh",
				},
				cli.IntFlag{
					Name:  "width",
					Value: 512,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 512,
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "spp",
					Value: 64,
					Usage: "samples per pixel",
				},
				cli.Float64Flag{
					Name:  "exposure",
					Value: 4.0,
					Usage: "exposure in stops, radiance is scaled by 1/2^stops",
				},
				cli.BoolTFlag{
					Name:  "tonemap",
					Usage: "apply the ACES filmic tonemapping curve",
				},
				cli.StringFlag{
					Name:  "sampler",
					Value: "cosine",
					Usage: "hemisphere sampler: uniform or cosine",
				},
				cli.Float64Flag{
					Name:  "sun-elevation",
					Value: 45,
					Usage: "sun elevation in degrees",
				},
				cli.Float64Flag{
					Name:  "sun-azimuth",
					Value: 0,
					Usage: "sun azimuth in degrees",
				},
				cli.Float64Flag{
					Name:  "turbidity",
					Value: 3,
					Usage: "sky turbidity between 1 and 10",
				},
				cli.Int64Flag{
					Name:  "salt",
					Value: 0,
					Usage: "random sequence salt",
				},
				cli.BoolFlag{
					Name:  "normals",
					Usage: "visualize shading normals instead of radiance",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.png",
					Usage: "image filename for the rendered frame",
				},
			}, renderFlags...),
			Action: cmd.RenderFrame,
		},
		{
			Name:   "scenes",
			Usage:  "list built-in scenes",
			Action: cmd.ListScenes,
		},
		{
			Name:  "serve",
			Usage: "stream progressive renders over http",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "port, p",
					Value: 8080,
					Usage: "port to serve on",
				},
			}, renderFlags...),
			Action: cmd.Serve,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
