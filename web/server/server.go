package server

import (
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dmoren/go-sphere-tracer/pkg/integrator"
	"github.com/dmoren/go-sphere-tracer/pkg/renderer"
	"github.com/dmoren/go-sphere-tracer/pkg/scene"
)

// Server handles web requests for the sphere tracer
type Server struct {
	port   int
	logger *log.Logger
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	return &Server{port: port, logger: log.Default()}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string `json:"scene"`   // Scene name ("default" or "cover")
	Width   int    `json:"width"`   // Image width (height follows the scene aspect ratio)
	Samples int    `json:"samples"` // Samples per pixel
	Depth   int    `json:"depth"`   // Maximum ray bounce depth
	Seed    int64  `json:"seed"`    // Random seed
	Mode    string `json:"mode"`    // Shading mode ("path" or "normal")
	Workers int    `json:"workers"` // Render workers (0 renders serially)
}

// Handler returns the HTTP handler with all routes registered
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir("static/")))
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/health", s.handleHealth)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleScenes lists the available scenes with their sampling defaults
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	type sceneInfo struct {
		Name            string `json:"name"`
		Description     string `json:"description"`
		SamplesPerPixel int    `json:"samplesPerPixel"`
		MaxDepth        int    `json:"maxDepth"`
	}

	scenes := []sceneInfo{}
	for _, name := range []string{"default", "cover"} {
		sc := createScene(name, 400, 42)
		config := sc.GetSamplingConfig()
		info := sceneInfo{
			Name:            name,
			SamplesPerPixel: config.SamplesPerPixel,
			MaxDepth:        config.MaxDepth,
		}
		switch name {
		case "default":
			info.Description = "Three spheres (diffuse, hollow glass, metal) on a ground sphere"
		case "cover":
			info.Description = "Field of random small spheres around three large ones"
		}
		scenes = append(scenes, info)
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{"scenes": scenes})
}

// handleRender renders the requested scene and returns a finished PNG
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	sceneObj := createScene(req.Scene, req.Width, req.Seed)
	if sceneObj == nil {
		http.Error(w, "Unknown scene: "+req.Scene, http.StatusBadRequest)
		return
	}

	height := sceneObj.Height()
	raytracer := renderer.NewRaytracer(sceneObj, req.Width, height, s.logger)

	config := sceneObj.GetSamplingConfig()
	config.SamplesPerPixel = req.Samples
	config.MaxDepth = req.Depth
	config.Seed = req.Seed
	raytracer.SetSamplingConfig(config)

	if req.Mode == "normal" {
		raytracer.SetIntegrator(integrator.NewNormalShader(sceneObj.GetBackgroundColors()))
	}

	startTime := time.Now()
	var img *image.RGBA
	var stats renderer.RenderStats
	if req.Workers > 0 {
		img, stats = raytracer.RenderParallel(req.Workers)
	} else {
		img, stats = raytracer.RenderPass()
	}
	s.logger.Printf("Rendered %s (%dx%d, %.1f samples/pixel) in %v",
		req.Scene, req.Width, height, stats.AverageSamples, time.Since(startTime))

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if err := png.Encode(w, img); err != nil {
		s.logger.Printf("Error encoding PNG: %v", err)
	}
}

// parseRenderRequest parses and validates request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	req := &RenderRequest{Mode: "path"}

	if sceneName := r.URL.Query().Get("scene"); sceneName != "" {
		req.Scene = sceneName
	} else {
		req.Scene = "default"
	}

	if mode := r.URL.Query().Get("mode"); mode != "" {
		if mode != "path" && mode != "normal" {
			return nil, fmt.Errorf("invalid mode: %s", mode)
		}
		req.Mode = mode
	}

	var err error
	if req.Width, err = parseIntParam(r.URL.Query(), "width", 400, 16, 2000); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(r.URL.Query(), "samples", 25, 1, 1000); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(r.URL.Query(), "depth", 25, 1, 200); err != nil {
		return nil, err
	}
	if req.Workers, err = parseIntParam(r.URL.Query(), "workers", 0, 0, 64); err != nil {
		return nil, err
	}

	seed := int64(42)
	if value := r.URL.Query().Get("seed"); value != "" {
		if seed, err = strconv.ParseInt(value, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid seed: %s", value)
		}
	}
	req.Seed = seed

	if req.Width > 1000 && req.Samples > 100 {
		s.logger.Printf("Render warning: large image with high samples may render slowly")
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene creates a scene based on the scene name
func createScene(sceneName string, width int, seed int64) *scene.Scene {
	overrides := renderer.CameraConfig{Width: width}
	switch sceneName {
	case "default":
		return scene.NewDefaultScene(overrides)
	case "cover":
		return scene.NewCoverScene(seed, overrides)
	default:
		return nil
	}
}
