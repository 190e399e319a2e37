// Command glcanvasdemo renders a demo scene with glcanvas, either
// headless to a PNG file or in a window.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/glcanvas"
	"github.com/gogpu/glcanvas/driver"
)

func main() {
	var (
		width    = flag.Int("width", 800, "image width")
		height   = flag.Int("height", 600, "image height")
		output   = flag.String("output", "demo.png", "output file")
		window   = flag.Bool("window", false, "show the scene in a window instead of writing a file")
		software = flag.Bool("software", false, "rasterise on the CPU")
		config   = flag.String("config", "", "render loop TOML config for -window")
		verbose  = flag.Bool("v", false, "log pipeline events")
	)
	flag.Parse()

	if *verbose {
		glcanvas.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	s, err := newScene()
	if err != nil {
		log.Fatalf("Failed to load font: %v", err)
	}

	if !*window {
		if err := renderPNG(s, *output, *width, *height, *software); err != nil {
			log.Fatalf("Failed to render: %v", err)
		}
		log.Printf("Demo saved to %s (%dx%d)\n", *output, *width, *height)
		return
	}

	cfg := driver.DefaultConfig()
	if *config != "" {
		if cfg, err = driver.LoadConfig(*config); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if err := runWindow(s, cfg, *width, *height); err != nil {
		log.Fatalf("Window failed: %v", err)
	}
}
