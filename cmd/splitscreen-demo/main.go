// Demo: two apps sharing one terminal "screen" through compressed
// partitions. The left app bounces a filled box, the right app sweeps a
// color gradient. Esc or q quits.
package main

import (
	"context"
	"log"
	"math"
	"os"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/splitscreen/core"
	"github.com/lixenwraith/splitscreen/display"
	"github.com/lixenwraith/splitscreen/sim"
)

const chunkHeight = 4

var quit atomic.Bool

func main() {
	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("screen init: %v", err)
	}
	defer screen.Fini()

	audioOK := initAudio()
	if audioOK {
		defer speaker.Close()
	}

	w, h := screen.Size()
	w = w &^ 7            // partition widths must be byte-aligned
	h = h - h%chunkHeight // chunk height must divide screen height
	if w < 16 || h < chunkHeight {
		screen.Fini()
		log.Fatal("terminal too small for the demo")
	}

	drv := sim.NewWithSize(screen, core.Size{Width: w, Height: h})
	cfg := display.DefaultConfig()
	cfg.ChunkHeight = chunkHeight
	shared, err := display.NewShared[tcell.Color, tcell.Color](drv, cfg)
	if err != nil {
		screen.Fini()
		log.Fatalf("shared display: %v", err)
	}

	leftWidth := (w / 2) &^ 7
	left := core.Area{X: 0, Y: 0, Width: leftWidth, Height: h}
	right := core.Area{X: leftWidth, Y: 0, Width: w - leftWidth, Height: h}

	if err := shared.LaunchApp(bounceApp, left); err != nil {
		screen.Fini()
		log.Fatalf("launch bounce app: %v", err)
	}
	if err := shared.LaunchApp(gradientApp, right); err != nil {
		screen.Fini()
		log.Fatalf("launch gradient app: %v", err)
	}
	if audioOK {
		playLaunchTone()
	}

	go pollInput(screen)

	err = shared.FlushLoop(context.Background(), func() display.FlushResult {
		drv.Show()
		if quit.Load() {
			return display.Abort
		}
		return display.Continue
	})
	if err != nil {
		screen.Fini()
		log.Fatalf("flush loop: %v", err)
	}
}

func pollInput(screen tcell.Screen) {
	for {
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				quit.Store(true)
				return
			}
		case nil:
			return
		}
	}
}

// bounceApp fills its partition dark and bounces a bright box around it
func bounceApp(p *display.Partition[tcell.Color, tcell.Color]) {
	bounds := p.Bounds()
	p.Clear(tcell.NewRGBColor(20, 20, 40))

	const boxW, boxH = 8, 3
	x, y := 0, 0
	dx, dy := 1, 1
	bg := tcell.NewRGBColor(20, 20, 40)
	box := tcell.NewRGBColor(220, 120, 40)

	for !quit.Load() {
		p.FillArea(core.Area{X: x, Y: y, Width: boxW, Height: boxH}, bg)
		x += dx
		y += dy
		if x <= 0 || x+boxW >= bounds.Width {
			dx = -dx
			x += 2 * dx
		}
		if y <= 0 || y+boxH >= bounds.Height {
			dy = -dy
			y += 2 * dy
		}
		p.FillArea(core.Area{X: x, Y: y, Width: boxW, Height: boxH}, box)
		time.Sleep(50 * time.Millisecond)
	}
}

// gradientApp sweeps a hue rotation across its partition row by row
func gradientApp(p *display.Partition[tcell.Color, tcell.Color]) {
	bounds := p.Bounds()
	phase := 0.0
	for !quit.Load() {
		for y := 0; y < bounds.Height; y++ {
			hue := math.Mod(phase+float64(y)*360.0/float64(bounds.Height), 360.0)
			c := colorful.Hsv(hue, 0.7, 0.8)
			r, g, b := c.RGB255()
			p.FillArea(
				core.Area{X: 0, Y: y, Width: bounds.Width, Height: 1},
				tcell.NewRGBColor(int32(r), int32(g), int32(b)),
			)
		}
		phase = math.Mod(phase+12, 360)
		time.Sleep(100 * time.Millisecond)
	}
}

func initAudio() bool {
	sampleRate := beep.SampleRate(44100)
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		// Non-fatal, demo can run without sound
		log.SetOutput(os.Stderr)
		log.Printf("audio initialization failed: %v", err)
		return false
	}
	return true
}

func playLaunchTone() {
	sampleRate := beep.SampleRate(44100)
	sine, _ := generators.SineTone(sampleRate, 660)
	speaker.Play(beep.Take(sampleRate.N(80*time.Millisecond), sine))
}
