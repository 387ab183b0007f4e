package renderer

import (
	"image"
	"math/rand"
	"runtime"
	"sync"
)

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID     int             // Unique tile identifier
	Bounds image.Rectangle // Pixel bounds (x0,y0,x1,y1)
	Random *rand.Rand      // Tile-specific random generator for deterministic results
}

// NewTile creates a new tile with the specified bounds and a generator
// seeded deterministically from the render seed and tile ID
func NewTile(id int, bounds image.Rectangle, baseSeed int64) *Tile {
	return &Tile{
		ID:     id,
		Bounds: bounds,
		Random: rand.New(rand.NewSource(baseSeed + int64(id))),
	}
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int, baseSeed int64) []*Tile {
	var tiles []*Tile
	tileID := 0

	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1), baseSeed))
			tileID++
		}
	}

	return tiles
}

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile       *Tile
	PixelStats [][]PixelStats // Shared pixel stats array to write to
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TileID int
	Stats  RenderStats
}

// WorkerPool manages parallel tile rendering. The scene is read-only for
// the whole render, so workers share the raytracer without locking; each
// tile owns its random stream.
type WorkerPool struct {
	taskQueue   chan TileTask
	resultQueue chan TileResult
	raytracer   *Raytracer
	numWorkers  int
	wg          sync.WaitGroup
}

// NewWorkerPool creates a worker pool with the specified number of
// workers (0 = CPU count)
func NewWorkerPool(raytracer *Raytracer, maxTiles, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	return &WorkerPool{
		taskQueue:   make(chan TileTask, maxTiles),
		resultQueue: make(chan TileResult, maxTiles),
		raytracer:   raytracer,
		numWorkers:  numWorkers,
	}
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.run()
	}
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
}

// SubmitTask submits a tile task to the worker pool
func (wp *WorkerPool) SubmitTask(task TileTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed tile result
func (wp *WorkerPool) GetResult() (TileResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (wp *WorkerPool) run() {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		// Tiles have non-overlapping bounds, so writing to the shared
		// pixel stats array is safe without locking
		stats := wp.raytracer.RenderBounds(task.Tile.Bounds, task.PixelStats, task.Tile.Random)
		wp.resultQueue <- TileResult{TileID: task.Tile.ID, Stats: stats}
	}
}

// Tile size for parallel rendering
const defaultTileSize = 64

// RenderParallel renders the image with a pool of tile workers and
// assembles the result. Output is identical in structure to RenderPass;
// per-pixel sample streams come from per-tile generators instead of the
// single serial stream.
func (rt *Raytracer) RenderParallel(numWorkers int) (*image.RGBA, RenderStats) {
	tiles := NewTileGrid(rt.width, rt.height, defaultTileSize, rt.config.Seed)

	pixelStats := make([][]PixelStats, rt.height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, rt.width)
	}

	pool := NewWorkerPool(rt, len(tiles), numWorkers)
	pool.Start()
	rt.logger.Printf("Rendering %d tiles with %d workers...\n", len(tiles), pool.GetNumWorkers())

	for _, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile, PixelStats: pixelStats})
	}

	stats := RenderStats{TotalPixels: rt.width * rt.height}
	for range tiles {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		stats.TotalSamples += result.Stats.TotalSamples
	}
	pool.Stop()
	rt.logger.Printf("Done.\n")

	// Assemble the image from the shared pixel stats
	img := image.NewRGBA(image.Rect(0, 0, rt.width, rt.height))
	for y := 0; y < rt.height; y++ {
		for x := 0; x < rt.width; x++ {
			img.SetRGBA(x, y, rt.vec3ToColor(pixelStats[y][x].GetColor()))
		}
	}

	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	return img, stats
}
