// Package hostterm is the host presentation layer: it blits the emulator's
// framebuffer to a terminal using half-block characters and forwards key
// events to the joypad. This is host machinery, not part of the DMG core.
package hostterm

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/valerio/dmgcore/jeebie"
	"github.com/valerio/dmgcore/jeebie/memory"
	"github.com/valerio/dmgcore/jeebie/video"
)

const frameInterval = time.Second * 100 / 5973 // ~59.73Hz

// Presenter drives the host loop contract: RunFrame, present, poll input.
type Presenter struct {
	screen tcell.Screen
	emu    *jeebie.Emulator
	quit   chan struct{}
	scale  int
}

// New creates a terminal presenter for the given emulator instance. scale is
// the number of terminal cells each Game Boy pixel is blown up into, in
// both directions (1 = no scaling); values below 1 are clamped to 1.
func New(emu *jeebie.Emulator, scale int) (*Presenter, error) {
	if scale < 1 {
		scale = 1
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("hostterm: failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("hostterm: failed to init screen: %w", err)
	}

	return &Presenter{
		screen: screen,
		emu:    emu,
		quit:   make(chan struct{}),
		scale:  scale,
	}, nil
}

// Run drives the emulator at ~59.73Hz, presenting each completed frame and
// polling for key events, until the user quits or the terminal closes.
func (p *Presenter) Run() error {
	defer p.screen.Fini()

	p.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	p.screen.Clear()

	go p.pollInput()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.emu.RunFrame()
			p.present()
		case <-p.quit:
			return nil
		}
	}
}

// pollInput translates terminal key events into joypad press/release pairs.
// Real keyboards don't report key-up for most terminal backends, so each
// key is treated as a momentary press.
func (p *Presenter) pollInput() {
	for {
		ev := p.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				close(p.quit)
				return
			}
			if key, ok := translateKey(ev); ok {
				p.emu.HandleKeyPress(key)
				p.emu.HandleKeyRelease(key)
			}
		case *tcell.EventResize:
			p.screen.Sync()
		}
	}
}

func translateKey(ev *tcell.EventKey) (memory.JoypadKey, bool) {
	switch ev.Key() {
	case tcell.KeyRight:
		return memory.JoypadRight, true
	case tcell.KeyLeft:
		return memory.JoypadLeft, true
	case tcell.KeyUp:
		return memory.JoypadUp, true
	case tcell.KeyDown:
		return memory.JoypadDown, true
	case tcell.KeyEnter:
		return memory.JoypadStart, true
	}
	if ev.Key() == tcell.KeyRune {
		switch ev.Rune() {
		case 'z', 'Z':
			return memory.JoypadA, true
		case 'x', 'X':
			return memory.JoypadB, true
		}
	}
	return 0, false
}

// present converts the 160x144 RGB framebuffer into half-block characters,
// pairing each two scanlines into one terminal row and repeating each
// source pixel scale-by-scale times to blow up the display.
func (p *Presenter) present() {
	fb := p.emu.FrameBuffer()
	pixels := fb.Bytes()

	rows := (video.ScreenHeight / 2) * p.scale
	cols := video.ScreenWidth * p.scale

	for row := 0; row < rows; row++ {
		srcRow := row / p.scale
		topY := srcRow * 2
		bottomY := topY + 1
		for col := 0; col < cols; col++ {
			x := col / p.scale
			topShade := pixelShade(pixels, x, topY)
			bottomShade := pixelShade(pixels, x, bottomY)
			style := tcell.StyleDefault.
				Foreground(grayColor(topShade)).
				Background(grayColor(bottomShade))
			p.screen.SetContent(col, row, '▀', nil, style)
		}
	}

	p.screen.Show()
}

func pixelShade(pixels []uint8, x, y int) uint8 {
	offset := (y*video.ScreenWidth + x) * 3
	return pixels[offset]
}

func grayColor(shade uint8) tcell.Color {
	return tcell.NewRGBColor(int32(shade), int32(shade), int32(shade))
}
