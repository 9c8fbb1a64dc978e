package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ctscan/pkg/config"
	"ctscan/pkg/imageio"
	"ctscan/pkg/radon"
	"ctscan/pkg/runlog"
	"ctscan/pkg/visualization"
)

func main() {
	// Parse command line arguments
	inputPath := flag.String("input", "", "Image to scan")
	configPath := flag.String("config", "config.yaml", "YAML configuration file")
	writeConfig := flag.Bool("write-config", false, "Write the default configuration to -config and exit")
	sinogramPath := flag.String("sinogram", "sinogram.png", "Output sinogram image")
	reconPath := flag.String("reconstruction", "reconstruction.png", "Output reconstruction image")
	emitters := flag.Int("emitters", 0, "Number of emitter/detector pairs (overrides config)")
	span := flag.Float64("span", 0, "Angular span of the emitters in degrees (overrides config)")
	step := flag.Float64("step", 0, "Rotation step in degrees (overrides config)")
	useFilter := flag.Bool("filter", false, "Apply the ramp filter before backprojection (overrides config)")
	numCores := flag.Int("cores", 0, "Number of CPU cores to use (overrides config)")
	batch := flag.Int("batch", 0, "Rotation steps per advance call (overrides config)")
	resize := flag.Int("resize", 0, "Resize the input so its longer side has this many pixels")
	dbPath := flag.String("db", "", "SQLite run history (overrides config)")
	history := flag.Int("history", 0, "List the last N recorded runs and exit")
	flag.Parse()

	if *writeConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		fmt.Printf("Default configuration written to %s\n", *configPath)
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// explicitly set flags win over the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "emitters":
			cfg.Scan.Emitters = *emitters
		case "span":
			cfg.Scan.AngularSpan = *span
		case "step":
			cfg.Scan.RotationStep = *step
		case "filter":
			cfg.Scan.UseFilter = *useFilter
		case "cores":
			cfg.Processing.NumCores = *numCores
		case "batch":
			cfg.Processing.BatchSize = *batch
		case "db":
			cfg.Storage.DatabasePath = *dbPath
		}
	})

	setupLogging(cfg)

	if *history > 0 {
		printHistory(cfg.Storage.DatabasePath, *history)
		return
	}

	if *inputPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	img, err := imageio.Load(*inputPath)
	if err != nil {
		log.Fatalf("Failed to load input: %v", err)
	}
	if size := *resize; size > 0 {
		b := img.Bounds()
		w, h := b.Dx(), b.Dy()
		if w >= h {
			w, h = size, max(1, h*size/w)
		} else {
			w, h = max(1, w*size/h), size
		}
		img = imageio.Resize(img, w, h)
	}

	scanCfg := cfg.ScanConfig()
	scanner, err := radon.NewFromImage(img, scanCfg, radon.WithWorkers(cfg.Processing.NumCores))
	if err != nil {
		log.Fatalf("Failed to configure scan: %v", err)
	}

	fmt.Println("================================")
	fmt.Println("CT SCAN SIMULATION")
	fmt.Println("================================")
	fmt.Printf("Input: %s (%dx%d)\n", *inputPath, img.Bounds().Dx(), img.Bounds().Dy())
	fmt.Printf("Emitters: %d, span: %.1f°, step: %.2f°, iterations: %d, filter: %v\n",
		cfg.Scan.Emitters, cfg.Scan.AngularSpan, cfg.Scan.RotationStep, scanner.Iterations(), cfg.Scan.UseFilter)

	var viewer *visualization.Viewer
	if cfg.Output.SaveIntermediaryResults {
		viewer = visualization.NewViewer(cfg.Output.IntermediaryDir)
		if err := viewer.SetScale(max(cfg.Output.FrameScale, 1)); err != nil {
			log.Fatalf("Invalid frame scale: %v", err)
		}
	}
	convergence := visualization.NewConvergence("Reconstruction RMSE")

	batchSize := max(cfg.Processing.BatchSize, 1)
	every := max(cfg.Output.SnapshotEvery, 1)
	frame := 0
	snapshot := func(call int) {
		if viewer == nil || call%every != 0 {
			return
		}
		if err := viewer.SaveFrame(scanner, frame); err != nil {
			log.Printf("Warning: Failed to save frame %d: %v", frame, err)
		}
		frame++
	}

	startTime := time.Now()

	fmt.Println("Step 1: Generating sinogram...")
	for call := 1; ; call++ {
		n, err := scanner.AdvanceProjection(batchSize)
		if err != nil {
			log.Fatalf("Projection failed: %v", err)
		}
		if n == 0 {
			break
		}
		snapshot(call)
	}

	fmt.Println("Step 2: Backprojecting...")
	for call := 1; ; call++ {
		n, err := scanner.AdvanceReconstruction(batchSize)
		if err != nil {
			log.Fatalf("Reconstruction failed: %v", err)
		}
		if n == 0 {
			break
		}
		convergence.Add(scanner.Progress().Reconstructed, scanner.RMSE())
		snapshot(call)
	}
	processingTime := time.Since(startTime)

	if err := imageio.Save(scanner.SinogramImage(), *sinogramPath); err != nil {
		log.Fatalf("Failed to save sinogram: %v", err)
	}
	if err := imageio.Save(scanner.ReconstructionImage(), *reconPath); err != nil {
		log.Fatalf("Failed to save reconstruction: %v", err)
	}
	if cfg.Output.ConvergencePlot != "" {
		if err := convergence.Save(cfg.Output.ConvergencePlot); err != nil {
			log.Printf("Warning: Failed to save convergence plot: %v", err)
		}
	}

	report := scanner.Evaluate()
	fmt.Printf("\nScan %s in %.2f seconds\n", scanner.Stage(), processingTime.Seconds())
	fmt.Printf("Sinogram saved to: %s\n", *sinogramPath)
	fmt.Printf("Reconstruction saved to: %s\n\n", *reconPath)

	fmt.Printf("Quality Metrics:\n")
	fmt.Printf("================\n")
	fmt.Printf("Mean Squared Error (MSE): %.3f\n", report.MSE)
	fmt.Printf("Root Mean Square Error (RMSE): %.3f\n", report.RMSE)
	fmt.Printf("Peak Signal-to-Noise Ratio (PSNR): %.2f dB\n", report.PSNR)
	fmt.Printf("Structural Similarity Index (SSIM): %.3f\n", report.SSIM)
	fmt.Printf("Correlation: %.3f\n", report.Correlation)
	fmt.Printf("Mutual Information (MI): %.3f\n", report.MI)

	if viewer != nil {
		fmt.Printf("\nIntermediary frames saved to: %s\n", cfg.Output.IntermediaryDir)
	}

	if cfg.Storage.DatabasePath != "" {
		store, err := runlog.Open(cfg.Storage.DatabasePath)
		if err != nil {
			log.Fatalf("Failed to open run history: %v", err)
		}
		defer store.Close()

		run, err := store.Record(runlog.Run{
			Input:      *inputPath,
			Config:     scanCfg,
			Iterations: scanner.Iterations(),
			Quality:    report,
			Duration:   processingTime,
		})
		if err != nil {
			log.Printf("Warning: Failed to record run: %v", err)
			return
		}
		fmt.Printf("Run recorded as %s\n", run.ID)
	}
}

// setupLogging routes scanner logs to stderr at the configured level
func setupLogging(cfg *config.Config) {
	if !cfg.Output.Verbose {
		return
	}

	level := slog.LevelInfo
	switch strings.ToLower(cfg.Output.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	radon.SetLogger(slog.New(handler))
}

func printHistory(path string, limit int) {
	if path == "" {
		log.Fatalf("No run history configured, use -db or storage.databasePath")
	}

	store, err := runlog.Open(path)
	if err != nil {
		log.Fatalf("Failed to open run history: %v", err)
	}
	defer store.Close()

	runs, err := store.List(limit)
	if err != nil {
		log.Fatalf("Failed to list runs: %v", err)
	}

	fmt.Printf("%-36s  %-19s  %-24s  %5s  %6s  %9s  %8s\n",
		"RUN", "DATE", "INPUT", "STEPS", "FILTER", "RMSE", "TIME")
	for _, r := range runs {
		fmt.Printf("%-36s  %-19s  %-24s  %5d  %6v  %9.3f  %8s\n",
			r.ID,
			r.CreatedAt.Format(time.DateTime),
			filepath.Base(r.Input),
			r.Iterations,
			r.Config.UseFilter,
			r.Quality.RMSE,
			r.Duration.Round(time.Millisecond),
		)
	}
}
