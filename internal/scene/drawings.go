package scene

import (
	"time"

	"github.com/junsooki/pixoo64/internal/canvas"
)

const hold = 2 * time.Second

func pixels() Scene {
	return Scene{
		{Name: "rgb pixels", Hold: hold, Draw: func(b *canvas.Buffer) error {
			b.Clear(canvas.Black)
			for i, c := range []canvas.Color{canvas.Red, canvas.Green, canvas.Blue} {
				if err := b.SetPixel(i, i, c); err != nil {
					return err
				}
			}
			return nil
		}},
		{Name: "white", Hold: hold, Draw: func(b *canvas.Buffer) error {
			b.Clear(canvas.White)
			return nil
		}},
		{Name: "yellow diagonal", Hold: hold, Draw: func(b *canvas.Buffer) error {
			// Drawn over the white buffer from the previous step.
			canvas.DrawLine(b, 0, 0, 9, 9, canvas.Yellow)
			return nil
		}},
	}
}

func line(x0, y0, x1, y1 int, c canvas.Color) func(*canvas.Buffer) error {
	return func(b *canvas.Buffer) error {
		b.Clear(canvas.Black)
		canvas.DrawLine(b, x0, y0, x1, y1, c)
		return nil
	}
}

func lines() Scene {
	return Scene{
		{Name: "horizontal", Hold: hold, Draw: line(0, 10, 63, 10, canvas.Red)},
		{Name: "vertical", Hold: hold, Draw: line(20, 0, 20, 63, canvas.Green)},
		{Name: "diagonal", Hold: hold, Draw: line(0, 0, 63, 63, canvas.Blue)},
		{Name: "anti-diagonal", Hold: hold, Draw: line(63, 0, 0, 63, canvas.White)},
	}
}

func circle(r int, outline canvas.Color, fill *canvas.Color) func(*canvas.Buffer) error {
	return func(b *canvas.Buffer) error {
		b.Clear(canvas.Black)
		canvas.DrawCircle(b, 32, 32, r, outline, fill)
		return nil
	}
}

func circles() Scene {
	darkGreen := canvas.RGB(0, 128, 0)
	yellow := canvas.Yellow
	return Scene{
		{Name: "red outline", Hold: hold, Draw: circle(20, canvas.Red, nil)},
		{Name: "green filled", Hold: hold, Draw: circle(15, canvas.Green, &darkGreen)},
		{Name: "blue on yellow", Hold: hold, Draw: circle(10, canvas.Blue, &yellow)},
	}
}

func rect(x0, y0, x1, y1 int, outline canvas.Color, fill *canvas.Color) func(*canvas.Buffer) error {
	return func(b *canvas.Buffer) error {
		b.Clear(canvas.Black)
		canvas.DrawRectangle(b, x0, y0, x1, y1, outline, fill)
		return nil
	}
}

func rectangles() Scene {
	darkGreen := canvas.RGB(0, 128, 0)
	yellow := canvas.Yellow
	return Scene{
		{Name: "red outline", Hold: hold, Draw: rect(10, 10, 54, 54, canvas.Red, nil)},
		{Name: "green filled", Hold: hold, Draw: rect(16, 16, 48, 48, canvas.Green, &darkGreen)},
		{Name: "blue on yellow", Hold: hold, Draw: rect(20, 20, 44, 44, canvas.Blue, &yellow)},
	}
}

func solid(b *canvas.Buffer, x0, y0, x1, y1 int, c canvas.Color) {
	canvas.DrawRectangle(b, x0, y0, x1, y1, c, &c)
}

func windowsFlag(b *canvas.Buffer) error {
	b.Clear(canvas.Black)
	solid(b, 12, 12, 30, 28, canvas.Blue)
	solid(b, 12, 34, 30, 50, canvas.Green)
	solid(b, 34, 12, 52, 28, canvas.Red)
	solid(b, 34, 34, 52, 50, canvas.Yellow)
	canvas.DrawLine(b, 12, 22, 52, 18, canvas.White)
	canvas.DrawLine(b, 12, 40, 52, 36, canvas.White)
	return nil
}

// swissFlag draws a white cross, arms 11 pixels wide and 40 long, on red.
func swissFlag(b *canvas.Buffer) error {
	const (
		armWidth  = 11
		armLength = 40
		centre    = 32
	)
	b.Clear(canvas.Red)
	near, far := centre-armWidth/2, centre+armWidth/2
	start, end := centre-armLength/2, centre+armLength/2
	solid(b, near, start, far, end, canvas.White)
	solid(b, start, near, end, far, canvas.White)
	return nil
}
