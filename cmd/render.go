package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/urfave/cli"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/phoekz/raydiance-sub000/pkg/core"
	"github.com/phoekz/raydiance-sub000/pkg/loaders"
	"github.com/phoekz/raydiance-sub000/pkg/renderer"
	"github.com/phoekz/raydiance-sub000/pkg/scene"
)

// ErrUnsupportedFormat is returned for output files with an unknown extension
var ErrUnsupportedFormat = errors.New("cmd: unsupported image format")

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, err := loadScene(ctx)
	if err != nil {
		return err
	}

	params := renderer.DefaultParams()
	params.SamplesPerPixel = ctx.Int("spp")
	params.MaxBounceCount = ctx.Int("bounces")
	params.NumWorkers = ctx.Int("workers")

	in, err := renderInput(ctx)
	if err != nil {
		return err
	}

	r, err := renderer.Create(params, sc, nil)
	if err != nil {
		return err
	}
	defer r.Terminate()

	if err := r.SendInput(in); err != nil {
		return err
	}

	var out renderer.Output
	for {
		if out, err = r.RecvOutput(); err != nil {
			return err
		}
		logger.Infof("sample %d/%d", out.SampleIndex, out.SampleCount)
		if out.Done() {
			break
		}
	}
	if err := r.Terminate(); err != nil && !errors.Is(err, renderer.ErrTerminated) {
		return err
	}

	start := time.Now()
	imgFile := ctx.String("out")
	if err := writeImage(imgFile, out.RGBA()); err != nil {
		return err
	}
	logger.Infof("wrote frame to %s in %d ms", imgFile, time.Since(start).Milliseconds())

	displayRenderStats(renderer.NewRenderStats(&out))
	return nil
}

// loadScene creates the selected built-in scene and adds the optional PLY mesh
func loadScene(ctx *cli.Context) (*scene.Scene, error) {
	sc, err := scene.Builtin(ctx.String("scene"))
	if err != nil {
		return nil, err
	}

	plyFile := ctx.String("ply")
	if plyFile == "" {
		if ctx.String("texture") != "" {
			return nil, errors.New("--texture requires --ply")
		}
		return sc, nil
	}

	data, err := loaders.LoadPLY(plyFile)
	if err != nil {
		return nil, err
	}

	b := scene.ExtendScene(sc)
	material := b.Material(filepath.Base(plyFile), scene.ModelDisney, scene.DefaultMaterialValues())
	if textureFile := ctx.String("texture"); textureFile != "" {
		texture, err := loaders.LoadTexture(textureFile, false)
		if err != nil {
			return nil, err
		}
		b.SetBaseColorTexture(material, b.Texture(texture))
	}
	b.Mesh(data.Mesh(filepath.Base(plyFile), mgl32.Ident4(), material))

	return b.Scene(), nil
}

// renderInput converts the command flags into a renderer input
func renderInput(ctx *cli.Context) (renderer.Input, error) {
	in := renderer.DefaultInput(ctx.Int("width"), ctx.Int("height"))

	hemisphere, err := core.ParseHemisphereSampler(ctx.String("sampler"))
	if err != nil {
		return renderer.Input{}, err
	}
	in.Hemisphere = hemisphere
	in.Exposure = core.Exposure{Stops: ctx.Float64("exposure")}
	in.Tonemap = ctx.BoolT("tonemap")
	in.VisualizeNormals = ctx.Bool("normals")
	in.Salt = uint64(ctx.Int64("salt"))
	in.Sky.Elevation = ctx.Float64("sun-elevation") * math.Pi / 180
	in.Sky.Azimuth = ctx.Float64("sun-azimuth") * math.Pi / 180
	in.Sky.Turbidity = ctx.Float64("turbidity")
	return in, nil
}

// writeImage encodes img in the format given by the file extension
func writeImage(filename string, img image.Image) error {
	var encode func(f *os.File) error
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		encode = func(f *os.File) error { return png.Encode(f, img) }
	case ".tif", ".tiff":
		encode = func(f *os.File) error { return tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate}) }
	case ".bmp":
		encode = func(f *os.File) error { return bmp.Encode(f, img) }
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func displayRenderStats(stats renderer.RenderStats) {
	var buf bytes.Buffer
	stats.WriteTable(&buf)
	logger.Noticef("frame statistics\n%s", buf.String())
}
