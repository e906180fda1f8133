package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-stg/internal/core"
	"github.com/vovakirdan/tui-stg/internal/fontraster"
	"github.com/vovakirdan/tui-stg/internal/glyph"
	"github.com/vovakirdan/tui-stg/internal/gpu"
	"github.com/vovakirdan/tui-stg/internal/platform/tui"
	"github.com/vovakirdan/tui-stg/internal/render"
)

var (
	flagFontFamily    string
	flagFontSize      int
	flagGlyphsPremult bool
)

var glyphsCmd = &cobra.Command{
	Use:   "glyphs <text>...",
	Short: "Rasterize text through the glyph atlas",
	Long: `Rasterize text with the configured font, cache every glyph as a texture
and print the result at its native size, one pixel per half cell.
The arguments are joined with spaces; "\n" starts a new line.

Examples:
  stg glyphs "fps: 60"
  stg glyphs --size 16 "Hello\nworld"
  stg glyphs --family /usr/share/fonts/noto/NotoSansCJK-Regular.ttc "日本語"`,
	Args: cobra.MinimumNArgs(1),
	Run:  runGlyphs,
}

func init() {
	glyphsCmd.Flags().StringVar(&flagFontFamily, "family", "", "Font family or TTF/OTF/TTC path (default from config)")
	glyphsCmd.Flags().IntVar(&flagFontSize, "size", 0, "Pixel height (default from config)")
	glyphsCmd.Flags().BoolVar(&flagGlyphsPremult, "premultiplied", false, "Upload glyphs with premultiplied alpha")
}

func runGlyphs(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fatalf("%v", err)
	}
	logger := stderrLogger(cfg)

	desc := cfg.Font
	if flagFontFamily != "" {
		desc.Family = flagFontFamily
	}
	if flagFontSize > 0 {
		desc.Size = flagFontSize
	}
	text := strings.ReplaceAll(strings.Join(args, " "), `\n`, "\n")

	dev := gpu.NewDevice()
	atlas, err := glyph.New(dev, fontraster.Opener, desc, flagGlyphsPremult, glyph.WithLogger(logger))
	if err != nil {
		fatalf("%v", err)
	}
	defer atlas.Close()

	w, h, err := measure(atlas, text)
	if err != nil {
		atlas.Close()
		fatalf("%v", err)
	}

	comp, err := render.New(render.Options{
		Width:   w,
		Height:  h,
		FOV:     cfg.Render.FOV,
		CameraZ: cfg.Render.CameraZ,
		Clear:   core.Color{A: 1},
		Text:    core.White(),
	}, nil, atlas)
	if err != nil {
		atlas.Close()
		fatalf("%v", err)
	}
	if err := comp.DrawString(0, 0, text); err != nil {
		atlas.Close()
		fatalf("%v", err)
	}

	scr := core.NewScreen(w, (h+1)/2)
	comp.Present(scr)
	fmt.Println(tui.RenderScreen(scr))
	fmt.Println()

	tm := atlas.TextMetrics()
	st := atlas.Stats()
	ds := dev.Stats()
	fmt.Printf("font:     %q %dpx (height %d, ascent %d, descent %d)\n",
		desc.Family, desc.Size, tm.Height, tm.Ascent, tm.Descent)
	fmt.Printf("cached:   %d glyphs (%d rasterized, %d whitespace)\n", atlas.Len(), st.Rasterized, st.Whitespace)
	fmt.Printf("lookups:  %d hits, %d misses\n", st.Hits, st.Misses)
	fmt.Printf("textures: %d created, %d views, %d failures\n", ds.Textures, ds.Views, ds.Failures)
}

// measure looks every glyph up and returns the pixel size of the text block.
func measure(atlas *glyph.Atlas, text string) (int, int, error) {
	tm := atlas.TextMetrics()
	w, lineW, lines := 1, 0, 1
	for _, r := range text {
		if r == '\n' {
			lines++
			lineW = 0
			continue
		}
		g, err := atlas.Lookup(r)
		if err != nil {
			return 0, 0, err
		}
		lineW += int(g.Metrics.CellIncX)
		w = max(w, lineW)
	}
	return w, max(lines*tm.Height, 1), nil
}
