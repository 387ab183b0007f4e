package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dmoren/go-sphere-tracer/pkg/integrator"
	"github.com/dmoren/go-sphere-tracer/pkg/renderer"
	"github.com/dmoren/go-sphere-tracer/pkg/scene"
)

func main() {
	// Parse command line flags
	sceneType := flag.String("scene", "default", "Scene type: 'default' or 'cover'")
	width := flag.Int("width", 400, "Image width in pixels (height follows the scene aspect ratio)")
	samples := flag.Int("samples", 0, "Samples per pixel (0 uses the scene default)")
	depth := flag.Int("depth", 0, "Maximum ray bounce depth (0 uses the scene default)")
	seed := flag.Int64("seed", 42, "Random seed for sampling and scene generation")
	output := flag.String("output", "", "Output file ('-' writes PPM to stdout, empty picks a timestamped name)")
	format := flag.String("format", "png", "Output format: 'png' or 'ppm'")
	mode := flag.String("mode", "path", "Shading mode: 'path' or 'normal'")
	workers := flag.Int("workers", 0, "Number of render workers (0 renders serially)")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Sphere Path Tracer")
		fmt.Println("Usage: sphere-tracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		fmt.Println("  default - Three spheres (diffuse, hollow glass, metal) on a ground sphere")
		fmt.Println("  cover   - Field of random small spheres around three large ones")
		fmt.Println()
		fmt.Println("Output defaults to output/<scene_type>/render_<timestamp>.<format>")
		return
	}

	selectedScene, err := createScene(*sceneType, *width, *seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	height := selectedScene.Height()
	raytracer := renderer.NewRaytracer(selectedScene, *width, height, renderer.NewDefaultLogger())

	// Command line overrides on top of the scene's sampling defaults
	config := selectedScene.GetSamplingConfig()
	if *samples > 0 {
		config.SamplesPerPixel = *samples
	}
	if *depth > 0 {
		config.MaxDepth = *depth
	}
	config.Seed = *seed
	raytracer.SetSamplingConfig(config)

	if *mode == "normal" {
		raytracer.SetIntegrator(integrator.NewNormalShader(selectedScene.GetBackgroundColors()))
	}

	startTime := time.Now()
	var img *image.RGBA
	var stats renderer.RenderStats
	if *workers > 0 {
		img, stats = raytracer.RenderParallel(*workers)
	} else {
		img, stats = raytracer.RenderPass()
	}
	renderTime := time.Since(startTime)

	fmt.Fprintf(os.Stderr, "Render completed in %v (%d pixels, %.1f samples/pixel)\n",
		renderTime, stats.TotalPixels, stats.AverageSamples)

	if err := saveImage(img, *sceneType, *output, *format); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// createScene builds the scene selected on the command line
func createScene(sceneType string, width int, seed int64) (*scene.Scene, error) {
	overrides := renderer.CameraConfig{Width: width}

	switch sceneType {
	case "default":
		return scene.NewDefaultScene(overrides), nil
	case "cover":
		return scene.NewCoverScene(seed, overrides), nil
	default:
		return nil, fmt.Errorf("unknown scene type: %s (expected 'default' or 'cover')", sceneType)
	}
}

// saveImage writes the rendered image in the requested format. An output
// of "-" streams PPM to stdout regardless of the format flag.
func saveImage(img *image.RGBA, sceneType, output, format string) error {
	if output == "-" {
		return renderer.WritePPM(os.Stdout, img)
	}

	if output == "" {
		outputDir := filepath.Join("output", sceneType)
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("error creating output directory: %w", err)
		}
		timestamp := time.Now().Format("20060102_150405")
		output = filepath.Join(outputDir, fmt.Sprintf("render_%s.%s", timestamp, format))
	}

	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	defer file.Close()

	if err := encodeImage(file, img, format); err != nil {
		return fmt.Errorf("error saving %s: %w", format, err)
	}

	fmt.Fprintf(os.Stderr, "Render saved as %s\n", output)
	return nil
}

func encodeImage(w io.Writer, img *image.RGBA, format string) error {
	switch format {
	case "png":
		return png.Encode(w, img)
	case "ppm":
		return renderer.WritePPM(w, img)
	default:
		return fmt.Errorf("unknown format: %s (expected 'png' or 'ppm')", format)
	}
}
