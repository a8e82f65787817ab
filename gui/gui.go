// Package gui renders the emulator into a raylib window with a small
// raygui toolbar for pausing, resetting and speed control.
package gui

import (
	"strconv"

	raygui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/retroenv/retrogolib/log"

	"github.com/guslan/ocho"
)

const (
	pixelSize     = 15
	toolbarGap    = 5
	toolbarHeight = 50
	btnWidth      = 80
	btnHeight     = 40

	windowWidth  = ocho.DisplayCols * pixelSize
	windowHeight = ocho.DisplayRows*pixelSize + toolbarHeight
)

// Keypad map indexed by chip-8 key value:
//
//	1 2 3 4        1 2 3 C
//	Q W E R   ->   4 5 6 D
//	A S D F        7 8 9 E
//	Z X C V        A 0 B F
var keymap = [16]int32{
	rl.KeyX,
	rl.KeyOne, rl.KeyTwo, rl.KeyThree,
	rl.KeyQ, rl.KeyW, rl.KeyE,
	rl.KeyA, rl.KeyS, rl.KeyD,
	rl.KeyZ, rl.KeyC,
	rl.KeyFour, rl.KeyR, rl.KeyF, rl.KeyV,
}

// Frontend implements ocho.Frontend on a raylib window.
type Frontend struct {
	emu    *ocho.Emulator
	logger *log.Logger

	foreground rl.Color
	background rl.Color

	beep    rl.Sound
	playing bool

	speed float32
}

// New opens the window and the audio device. Call Close after the
// emulator has been closed.
func New(config ocho.Config, logger *log.Logger) *Frontend {
	rl.InitWindow(windowWidth, windowHeight, "ocho")
	rl.InitAudioDevice()

	wavData := beepWav()
	wave := rl.LoadWaveFromMemory(".wav", wavData, int32(len(wavData)))
	beep := rl.LoadSoundFromWave(wave)
	rl.UnloadWave(wave)

	return &Frontend{
		logger:     logger,
		foreground: parseColor(config.Foreground, rl.Black),
		background: parseColor(config.Background, rl.RayWhite),
		beep:       beep,
		speed:      float32(config.InstructionsPerSecond),
	}
}

// Attach hands the frontend the emulator it controls from the toolbar.
func (f *Frontend) Attach(emu *ocho.Emulator) {
	f.emu = emu
}

// Draw repaints the window: toolbar on top, one rectangle per lit
// framebuffer cell below it.
func (f *Frontend) Draw(display *ocho.Display) error {
	rl.BeginDrawing()
	rl.ClearBackground(f.background)

	for i, on := range display.Cells() {
		if !on {
			continue
		}
		row := int32(i / ocho.DisplayCols)
		col := int32(i % ocho.DisplayCols)
		rl.DrawRectangle(
			col*pixelSize,
			toolbarHeight+row*pixelSize,
			pixelSize,
			pixelSize,
			f.foreground)
	}

	f.drawToolbar()

	rl.EndDrawing()
	display.MarkClean()
	return nil
}

func (f *Frontend) drawToolbar() {
	rl.DrawRectangle(0, 0, int32(rl.GetScreenWidth()), toolbarHeight, rl.Gray)

	raygui.Label(
		rl.NewRectangle(toolbarGap, toolbarGap, 70, btnHeight),
		strconv.FormatUint(uint64(f.speed), 10)+" Hz",
	)
	f.speed = raygui.Slider(
		rl.NewRectangle(toolbarGap+80, toolbarGap+10, 150, 20),
		"", "",
		f.speed, 60, 1400,
	)

	if f.emu == nil {
		return
	}
	f.emu.SetInstructionsPerSecond(uint(f.speed))

	pauseLabel := raygui.IconText(raygui.ICON_PLAYER_PAUSE, "Pause")
	if f.emu.Paused() {
		pauseLabel = raygui.IconText(raygui.ICON_PLAYER_PLAY, "Resume")
	}
	if raygui.Button(
		rl.NewRectangle(windowWidth-2*(btnWidth+toolbarGap), toolbarGap, btnWidth, btnHeight),
		pauseLabel,
	) {
		if f.emu.Paused() {
			f.emu.Resume()
			f.logger.Info("resuming emulation")
		} else {
			f.emu.Pause()
			f.logger.Info("pausing emulation")
		}
	}

	if raygui.Button(
		rl.NewRectangle(windowWidth-(btnWidth+toolbarGap), toolbarGap, btnWidth, btnHeight),
		raygui.IconText(raygui.ICON_ROTATE, "Reset"),
	) {
		f.emu.Reset()
		f.logger.Info("resetting emulation")
	}
}

// CheckKey reports whether the mapped physical key is held.
func (f *Frontend) CheckKey(key byte) (bool, error) {
	if key > 15 {
		return false, nil
	}
	return rl.IsKeyDown(keymap[key]), nil
}

func (f *Frontend) PlaySound() error {
	rl.PlaySound(f.beep)
	f.playing = true
	return nil
}

func (f *Frontend) StopSound() error {
	if rl.IsSoundPlaying(f.beep) {
		rl.StopSound(f.beep)
	}
	f.playing = false
	return nil
}

func (f *Frontend) ShouldStop() bool {
	return rl.WindowShouldClose()
}

// Step keeps the tone looping: raylib sounds play once, so a finished
// beep is restarted while the sound timer is still running.
func (f *Frontend) Step() error {
	if f.playing && !rl.IsSoundPlaying(f.beep) {
		rl.PlaySound(f.beep)
	}
	return nil
}

// Close releases the audio device and the window.
func (f *Frontend) Close() error {
	rl.UnloadSound(f.beep)
	rl.CloseAudioDevice()
	rl.CloseWindow()
	return nil
}

// parseColor turns an RRGGBB hex string into a raylib color.
func parseColor(hex string, fallback rl.Color) rl.Color {
	if len(hex) != 6 {
		return fallback
	}
	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return fallback
	}
	return rl.NewColor(byte(value>>16), byte(value>>8), byte(value), 255)
}
