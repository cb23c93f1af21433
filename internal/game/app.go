package game

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"voxelstream/internal/graphics/renderer"
	"voxelstream/internal/input"
	"voxelstream/internal/profiling"
	"voxelstream/internal/streaming"
	"voxelstream/internal/world"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// slowFrame is the processing time above which a frame is logged.
const slowFrame = 16 * time.Millisecond

const placeBlock = world.BlockTypeStone

// App drives the per-frame loop: events, camera, streaming, render, pacing.
type App struct {
	window  *glfw.Window
	input   *input.InputManager
	backend *renderer.Backend
	world   *streaming.World
	log     *slog.Logger

	fpsLimiter *FPSLimiter
	lastTime   time.Time

	captured      bool
	showProfiling bool
	frames        int
	lastFPSCheck  time.Time
}

func NewApp(window *glfw.Window, im *input.InputManager, backend *renderer.Backend, w *streaming.World, fpsLimit int, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	a := &App{
		window:       window,
		input:        im,
		backend:      backend,
		world:        w,
		log:          logger,
		fpsLimiter:   NewFPSLimiter(fpsLimit),
		lastTime:     time.Now(),
		captured:     true,
		lastFPSCheck: time.Now(),
	}

	im.SetCallbacks(window)
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		backend.UpdateViewport(width, height)
	})
	fbw, fbh := window.GetFramebufferSize()
	backend.UpdateViewport(fbw, fbh)

	return a
}

// Run loops until the window closes or streaming fails.
func (a *App) Run() error {
	for !a.window.ShouldClose() {
		if err := a.tick(); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) tick() error {
	profiling.ResetFrame()
	startTick := time.Now() // Measure pure processing time
	dt := float32(startTick.Sub(a.lastTime).Seconds())
	a.lastTime = startTick

	func() { defer profiling.Track("glfw.PollEvents")(); glfw.PollEvents() }()
	a.handleActions()

	if a.captured {
		cam := a.backend.Camera()
		cam.Look(a.input.MouseDelta())
		cam.Move(a.input.Movement(), dt)
	}

	if err := a.world.Update(a.backend.ViewPosition()); err != nil {
		return fmt.Errorf("streaming update: %w", err)
	}

	a.backend.Render()
	func() { defer profiling.Track("glfw.SwapBuffers")(); a.window.SwapBuffers() }()

	// Check if frame took too long
	if d := time.Since(startTick); d > slowFrame {
		a.log.Warn("slow frame", "took", d, "top", profiling.TopN(5))
	}

	a.frames++
	if time.Since(a.lastFPSCheck) >= time.Second {
		st := a.world.Stats()
		rs := a.backend.Stats()
		a.log.Debug("frame stats",
			"fps", a.frames,
			"center", st.Center,
			"loaded", st.Loaded,
			"inflight", st.InFlight,
			"draws", rs.DrawCalls,
			"culled", rs.Culled)
		if a.showProfiling {
			a.log.Info("profile", "top", profiling.TopN(8))
		}
		a.frames = 0
		a.lastFPSCheck = time.Now()
	}

	a.input.PostUpdate() // Clear "JustPressed" flags
	a.fpsLimiter.Wait()
	return nil
}

func (a *App) handleActions() {
	if a.input.JustPressed(input.ActionReleaseCursor) && a.captured {
		a.captured = false
		a.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
	if a.input.JustPressed(input.ActionMouseLeft) {
		if a.captured {
			a.editBlock(false)
		} else {
			a.captured = true
			a.window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
			a.input.ResetCursor()
		}
	}
	if a.input.JustPressed(input.ActionMouseRight) && a.captured {
		a.editBlock(true)
	}
	if a.input.JustPressed(input.ActionToggleProfiling) {
		a.showProfiling = !a.showProfiling
	}
	if a.input.JustPressed(input.ActionRenderDistanceUp) {
		a.world.SetRenderDistance(a.world.RenderDistance() + 1)
		a.log.Info("render distance", "chunks", a.world.RenderDistance())
	}
	if a.input.JustPressed(input.ActionRenderDistanceDown) {
		a.world.SetRenderDistance(a.world.RenderDistance() - 1)
		a.log.Info("render distance", "chunks", a.world.RenderDistance())
	}
}

// editBlock breaks the targeted block, or places one against the face the ray
// entered through.
func (a *App) editBlock(place bool) {
	cam := a.backend.Camera()
	hit := world.Raycast(cam.Position, cam.Front(), world.MinReachDistance, world.MaxReachDistance,
		func(x, y, z int) bool { return !a.world.Block(x, y, z).IsTransparent() })
	if !hit.Hit {
		return
	}
	target, bt := hit.HitPosition, world.BlockTypeAir
	if place {
		target, bt = hit.AdjacentPosition, placeBlock
	}
	if !a.world.SetBlock(target[0], target[1], target[2], bt) {
		a.log.Debug("block edit rejected", "pos", target)
	}
}
