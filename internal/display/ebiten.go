package display

import (
	"image"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/junsooki/pixoo64/internal/anim"
)

// EbitenDisplay draws the simulated panel with Ebitengine, scaled up with
// nearest-neighbour filtering so each device pixel stays a sharp square.
type EbitenDisplay struct {
	mu          sync.Mutex
	frame       *image.RGBA
	ebitenImage *ebiten.Image

	title string
	scale int
}

// NewEbitenDisplay creates a window scale times the device width.
func NewEbitenDisplay(title string, scale int) *EbitenDisplay {
	if scale < 1 {
		scale = 1
	}
	return &EbitenDisplay{
		title: title,
		scale: scale,
	}
}

// Render converts and stores the frame (called from the playback goroutine).
func (d *EbitenDisplay) Render(frame anim.Frame, width int) {
	img := frame.Image(width)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frame = img
}

// CurrentFrame returns the last rendered frame, or nil.
func (d *EbitenDisplay) CurrentFrame() *image.RGBA {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frame
}

// Run starts the Ebitengine game loop. Must be called from the main goroutine.
// It returns nil when the window is closed or Escape is pressed.
func (d *EbitenDisplay) Run() error {
	side := anim.Width * d.scale
	ebiten.SetWindowSize(side, side)
	ebiten.SetWindowTitle(d.title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	err := ebiten.RunGame(d)
	if err == ebiten.Termination {
		return nil
	}
	return err
}

// --- ebiten.Game interface ---

func (d *EbitenDisplay) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	return nil
}

func (d *EbitenDisplay) Draw(screen *ebiten.Image) {
	frame := d.CurrentFrame()
	if frame == nil {
		return
	}

	fw, fh := frame.Bounds().Dx(), frame.Bounds().Dy()
	if d.ebitenImage == nil ||
		d.ebitenImage.Bounds().Dx() != fw ||
		d.ebitenImage.Bounds().Dy() != fh {
		d.ebitenImage = ebiten.NewImage(fw, fh)
	}
	d.ebitenImage.WritePixels(frame.Pix)

	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	scale, offsetX, offsetY := aspectFitTransform(float64(sw), float64(sh), float64(fw), float64(fh))

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(offsetX, offsetY)
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(d.ebitenImage, op)
}

func (d *EbitenDisplay) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// aspectFitTransform returns scale and offsets to fit frame into view with letterboxing.
func aspectFitTransform(viewW, viewH, frameW, frameH float64) (scale, offsetX, offsetY float64) {
	scale = math.Min(viewW/frameW, viewH/frameH)
	offsetX = (viewW - frameW*scale) / 2
	offsetY = (viewH - frameH*scale) / 2
	return
}
