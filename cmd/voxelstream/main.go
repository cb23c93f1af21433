package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"time"

	"voxelstream/internal/config"
	"voxelstream/internal/game"
	"voxelstream/internal/graphics"
	"voxelstream/internal/graphics/renderer"
	"voxelstream/internal/input"
	"voxelstream/internal/streaming"
	"voxelstream/internal/world"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xlab/closer"
)

func init() {
	// GLFW and GL calls must stay on the main thread
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (default $"+config.EnvConfigPath+")")
	seed := flag.Int64("seed", 0, "terrain seed")
	renderDistance := flag.Int("render-distance", 0, "render distance in chunks")
	workers := flag.Int("workers", 0, "terrain generation workers")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Only flags given on the command line override the file.
	var o config.Overrides
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			o.Seed = seed
		case "render-distance":
			o.RenderDistance = renderDistance
		case "workers":
			o.Workers = workers
		}
	})
	cfg.Apply(o)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	level, _ := config.ParseLevel(cfg.Log.Level)
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	if err := run(cfg, log); err != nil {
		log.Error("voxelstream stopped", "error", err)
		os.Exit(1)
	}
	closer.Close()
}

func run(cfg *config.Config, log *slog.Logger) error {
	// Validate textures before any GPU resource exists.
	layers := graphics.PlaceholderLayers(16)
	if len(cfg.Render.Textures) > 0 {
		var err error
		if layers, err = graphics.LoadTextureLayers(cfg.Render.Textures); err != nil {
			return fmt.Errorf("textures: %w", err)
		}
	}
	if err := layers.Require(world.TextureLayerCount); err != nil {
		return fmt.Errorf("textures: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := streaming.NewMetrics(reg)
	if cfg.Metrics.Enabled {
		srv := serveMetrics(cfg.Metrics.Addr, reg, log)
		closer.Bind(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		})
	}

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("init glfw: %w", err)
	}
	defer glfw.Terminate()

	window, err := game.SetupWindow(cfg.Render, "voxelstream")
	if err != nil {
		return err
	}
	defer window.Destroy()

	camera := graphics.NewCamera(cfg.Render.Width, cfg.Render.Height)
	camera.FOV = cfg.Render.FOV

	backend, err := renderer.NewBackend(camera, log.With("component", "renderer"))
	if err != nil {
		return err
	}
	defer backend.Close()

	texture, err := backend.LoadTextureArray(layers, "blocks")
	if err != nil {
		return err
	}

	w := streaming.New(cfg.Terrain.NewGenerator(), backend, streaming.Options{
		RenderDistance: cfg.World.RenderDistance,
		Texture:        texture,
		Metrics:        metrics,
		Logger:         log.With("component", "world"),
		Streamer: streaming.StreamerOptions{
			Workers:         cfg.World.Workers,
			JobQueueSize:    cfg.World.JobQueueSize,
			ResultQueueSize: cfg.World.ResultQueueSize,
		},
	})
	defer w.Close()

	log.Info("starting",
		"terrain", cfg.Terrain.Kind,
		"seed", cfg.Terrain.Seed,
		"render_distance", cfg.World.RenderDistance,
		"workers", cfg.World.Workers)

	app := game.NewApp(window, input.NewInputManager(), backend, w, cfg.Render.FPSLimit, log.With("component", "app"))
	return app.Run()
}

func serveMetrics(addr string, reg *prometheus.Registry, log *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server", "error", err)
		}
	}()
	return srv
}
