// Command ttf2meshctl decodes a TrueType font and emits 2D or 3D triangle
// meshes for a set of glyphs, one worker per glyph bounded by a pool (spec
// §5's "trivially parallelize at the grain of one glyph per worker").
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sync"

	"github.com/fetisov/ttf2mesh"
	"github.com/fetisov/ttf2mesh/internal/config"
	"github.com/fetisov/ttf2mesh/internal/logging"
)

var (
	fontFile   = flag.String("font", "", "path to the TTF file to load")
	configFile = flag.String("config", "", "path to a ttf2meshctl.toml config file")
	chars      = flag.String("chars", "A", "characters to mesh, one glyph per rune")
	mode       = flag.String("mode", "2d", "mesh mode: 2d or 3d")
	outDir     = flag.String("out", ".", "directory to write <hex code point>.json mesh files to (e.g. 0041.json)")
)

type meshJob struct {
	r rune
}

type meshResult struct {
	r    rune
	err  error
	data []byte
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel)

	if *fontFile == "" {
		log.Fatal("missing -font")
	}
	data, err := os.ReadFile(*fontFile)
	if err != nil {
		log.WithError(err).Fatal("read font file")
	}

	font, err := ttf2mesh.LoadFont(data, false)
	if err != nil {
		log.WithError(err).Fatal("load font")
	}

	jobs := make(chan meshJob)
	results := make(chan meshResult)

	var wg sync.WaitGroup
	workers := cfg.Workers.Count
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				results <- meshGlyphImpl(font, job.r, cfg)
			}
		}()
	}

	go func() {
		for _, r := range *chars {
			jobs <- meshJob{r: r}
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	exitCode := 0
	for res := range results {
		if res.err != nil {
			logging.WithGlyph(log, -1, res.r).WithError(res.err).Error("mesh glyph")
			exitCode = 1
			continue
		}
		path := fmt.Sprintf("%s/%04x.json", *outDir, res.r)
		if err := os.WriteFile(path, res.data, 0o644); err != nil {
			log.WithError(err).Error("write mesh file")
			exitCode = 1
			continue
		}
		log.WithField("path", path).Info("wrote mesh")
	}
	os.Exit(exitCode)
}

func meshGlyphImpl(font *ttf2mesh.Font, r rune, cfg config.Config) meshResult {
	idx, ok := ttf2mesh.FindGlyph(font, r)
	if !ok {
		return meshResult{r: r, err: fmt.Errorf("no glyph for %q", r)}
	}
	glyph := &font.Glyphs[idx]

	features := ttf2mesh.Features{IgnoreMesherWarnings: cfg.Mesh.IgnoreMesherWarnings}

	if *mode == "3d" {
		m, err := ttf2mesh.ToMesh3D(glyph, cfg.Mesh.Quality, features, cfg.Mesh.Depth3D)
		if err != nil {
			return meshResult{r: r, err: err}
		}
		b, err := json.Marshal(m)
		return meshResult{r: r, data: b, err: err}
	}

	m, err := ttf2mesh.ToMesh2D(glyph, cfg.Mesh.Quality, features)
	if err != nil {
		return meshResult{r: r, err: err}
	}
	b, err := json.Marshal(m)
	return meshResult{r: r, data: b, err: err}
}
