package renderer

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/phoekz/raydiance-sub000/pkg/core"
	"github.com/phoekz/raydiance-sub000/pkg/geometry"
	"github.com/phoekz/raydiance-sub000/pkg/integrator"
	"github.com/phoekz/raydiance-sub000/pkg/log"
	"github.com/phoekz/raydiance-sub000/pkg/scene"
	"github.com/phoekz/raydiance-sub000/pkg/sky"
)

var defaultLogger = log.New("renderer")

// Raytracer renders a scene progressively on its own goroutine. The owner
// sends Inputs and receives one Output per completed sample pass. Inputs are
// coalesced: only the most recent pending one is rendered.
type Raytracer struct {
	params Params
	scene  *scene.Scene
	bvh    *geometry.BVH // Built by the render goroutine when nil
	logger log.Logger

	sendMu     sync.Mutex
	input      chan Input
	output     chan Output
	terminate  chan struct{}
	done       chan struct{}
	terminated atomic.Bool
	once       sync.Once
	err        error // Written by the render goroutine before done is closed
}

// renderState is everything derived from the current input
type renderState struct {
	received    Input // As sent by the owner, compared against new inputs
	input       Input // With the dynamic overlay expanded for rendering
	integrator  *integrator.PathTracingIntegrator
	tiles       []Tile
	accumulator []core.Vec3
	sampleIndex int
	stats       geometry.HitStats
	started     time.Time
}

// Create validates the scene and starts the render goroutine. The scene must
// not be modified afterwards. logger may be nil.
func Create(params Params, sc *scene.Scene, logger log.Logger) (*Raytracer, error) {
	return CreateWithBVH(params, sc, nil, logger)
}

// CreateWithBVH is Create with a BVH already built over sc.Triangles(), so
// owners that render one scene many times build it once. bvh may be nil.
func CreateWithBVH(params Params, sc *scene.Scene, bvh *geometry.BVH, logger log.Logger) (*Raytracer, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = defaultLogger
	}

	r := &Raytracer{
		params:    params,
		scene:     sc,
		bvh:       bvh,
		logger:    logger,
		input:     make(chan Input, 1),
		output:    make(chan Output, params.OutputBuffer),
		terminate: make(chan struct{}),
		done:      make(chan struct{}),
	}

	go func() {
		defer close(r.done)
		r.err = r.run()
		if r.err != nil {
			r.logger.Errorf("render goroutine failed: %v", r.err)
		}
	}()
	return r, nil
}

// SendInput queues in for rendering without blocking, replacing any input
// the render goroutine has not picked up yet.
func (r *Raytracer) SendInput(in Input) error {
	if r.terminated.Load() {
		return ErrTerminated
	}
	if err := in.Validate(r.scene); err != nil {
		return err
	}
	in = in.Clone()

	r.sendMu.Lock()
	defer r.sendMu.Unlock()
	for {
		select {
		case r.input <- in:
			return nil
		default:
		}
		// Drop the stale input
		select {
		case <-r.input:
		default:
		}
	}
}

// RecvOutput blocks until the next output is available. Outputs are buffered
// up to Params.OutputBuffer; an owner that falls further behind loses the
// oldest snapshots, so consecutive outputs may skip sample indices.
func (r *Raytracer) RecvOutput() (Output, error) {
	select {
	case out := <-r.output:
		return out, nil
	case <-r.done:
	}

	// Deliver whatever was produced before the goroutine exited
	select {
	case out := <-r.output:
		return out, nil
	default:
		return Output{}, r.exitError()
	}
}

// TryRecvOutput returns the next output if one is ready. It returns an error
// only once the render goroutine has exited and all outputs were received.
func (r *Raytracer) TryRecvOutput() (Output, bool, error) {
	select {
	case out := <-r.output:
		return out, true, nil
	default:
	}

	select {
	case <-r.done:
		return Output{}, false, r.exitError()
	default:
		return Output{}, false, nil
	}
}

// Terminate stops the render goroutine after its current sample pass and
// waits for it to exit. It returns the error the goroutine failed with, if any.
func (r *Raytracer) Terminate() error {
	r.once.Do(func() {
		r.terminated.Store(true)
		close(r.terminate)
	})
	<-r.done
	return r.err
}

func (r *Raytracer) exitError() error {
	if r.terminated.Load() && r.err == nil {
		return ErrTerminated
	}
	if r.err != nil {
		return fmt.Errorf("%w: %w", ErrRenderThreadExited, r.err)
	}
	return ErrRenderThreadExited
}

// run is the render loop. Termination is checked once per sample pass.
func (r *Raytracer) run() error {
	bvh := r.bvh
	if bvh == nil {
		start := time.Now()
		var buildStats geometry.BuildStats
		bvh, buildStats = geometry.NewBVHWithStats(r.scene.Triangles())
		r.logger.Infof("built bvh over %d triangles in %v: %d nodes, %d leaves, depth %d",
			len(bvh.Triangles), time.Since(start), buildStats.Nodes, buildStats.Leaves, buildStats.MaxDepth)
	}

	pool := NewWorkerPool(r.params.workers())
	var state *renderState

	for {
		select {
		case <-r.terminate:
			r.logger.Info("terminating raytracer")
			return nil
		default:
		}

		// Get latest input, blocking while there is nothing left to render
		var latest *Input
		idle := state == nil || state.sampleIndex >= r.params.SamplesPerPixel
		if idle {
			select {
			case in := <-r.input:
				latest = &in
			case <-r.terminate:
				r.logger.Info("terminating raytracer")
				return nil
			}
		} else {
			select {
			case in := <-r.input:
				latest = &in
			default:
			}
		}

		// If the input has changed, reset state
		if latest != nil && (state == nil || !latest.Equal(&state.received)) {
			next, err := r.reset(*latest, bvh)
			if err != nil {
				return err
			}
			state = next
			r.logger.Infof("reset raytracer with new input: %dx%d", state.input.Width, state.input.Height)
		}
		if state == nil || state.sampleIndex >= r.params.SamplesPerPixel {
			continue
		}

		if err := r.renderPass(pool, state); err != nil {
			return err
		}
	}
}

// reset derives the render state for a new input
func (r *Raytracer) reset(in Input, bvh *geometry.BVH) (*renderState, error) {
	received := in
	if in.Dynamic.IsZero() {
		in.Dynamic = scene.NewDynamicScene(r.scene)
	}

	skyModel, err := sky.New(in.Sky)
	if err != nil {
		return nil, err
	}

	cam := &r.scene.Cameras[in.Camera]
	camera := geometry.NewCamera(cam.Transform, in.CameraTransform, cam.YFov, cam.ZNear, cam.ZFar, in.Width, in.Height)

	state := &renderState{
		received:    received,
		input:       in,
		tiles:       NewTileGrid(in.Width, in.Height, TileSize),
		accumulator: make([]core.Vec3, in.Width*in.Height),
		started:     time.Now(),
	}
	state.integrator = integrator.NewPathTracingIntegrator(r.scene, bvh, &state.input.Dynamic, skyModel, camera, integrator.Settings{
		Hemisphere:       in.Hemisphere,
		MaxBounceCount:   r.params.MaxBounceCount,
		VisualizeNormals: in.VisualizeNormals,
		Salt:             in.Salt,
	})
	return state, nil
}

// renderPass takes one sample per pixel, merges it and emits a snapshot
func (r *Raytracer) renderPass(pool *WorkerPool, state *renderState) error {
	tileRenderer := NewTileRenderer(state.integrator)
	sampleIndex := state.sampleIndex

	results, err := pool.RenderPass(context.Background(), state.tiles, func(tile Tile) TileResult {
		return tileRenderer.RenderTile(tile, sampleIndex)
	})
	if err != nil {
		return err
	}

	for _, result := range results {
		mergeTile(state.accumulator, state.input.Width, result)
		state.stats.Add(result.Stats)
	}
	state.sampleIndex++

	out := Output{
		Image:       resolve(state.accumulator, state.sampleIndex, state.input),
		Width:       state.input.Width,
		Height:      state.input.Height,
		SampleIndex: state.sampleIndex,
		SampleCount: r.params.SamplesPerPixel,
		Stats:       state.stats,
		Elapsed:     time.Since(state.started),
	}
	r.send(out)

	if out.Done() {
		stats := NewRenderStats(&out)
		r.logger.Noticef("rendering took %.03f s, %.03f rays/s", out.Elapsed.Seconds(), stats.RaysPerSecond())
		r.logger.Debugf("stats: %+v", out.Stats)
	}
	return nil
}

// send queues out, dropping the oldest pending output when the owner falls behind
func (r *Raytracer) send(out Output) {
	for {
		select {
		case r.output <- out:
			return
		default:
		}
		select {
		case <-r.output:
		default:
		}
	}
}

// resolve normalizes the accumulated samples and applies exposure and tonemapping
func resolve(accumulator []core.Vec3, sampleCount int, in Input) []core.Vec3 {
	normalization := 1.0 / float64(sampleCount)
	image := make([]core.Vec3, len(accumulator))
	for i, sum := range accumulator {
		c := in.Exposure.Expose(sum.Multiply(normalization))
		if in.Tonemap {
			c = core.Tonemap(c)
		}
		image[i] = c
	}
	return image
}
