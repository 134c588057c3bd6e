package room

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/fogleman/gg"
	"github.com/fogleman/pt/pt"
)

// Scene is everything drawn in a plan view
type Scene struct {
	Room     *Room
	Source   Source
	Listener Listener
}

type View struct {
	Scene Scene
	XSize int
	YSize int
	Plane Plane
	// These cache the values needed to scale and translate from the scene to the requested image size
	scale      float64
	xTranslate float64
	yTranslate float64
}

// NewPlanView returns a view of the horizontal slice through the listener
func NewPlanView(scene Scene, xSize, ySize int) *View {
	return &View{
		Scene: scene,
		XSize: xSize,
		YSize: ySize,
		Plane: MakePlane(scene.Listener.Position, V(0, 0, 1)),
	}
}

func (o View) project(v pt.Vector) Point2D {
	return o.Plane.Project(v)
}

func (scene Scene) BoundingBox(p Plane) (XMin, XMax, YMin, YMax float64) {
	XMin, YMin = math.Inf(1), math.Inf(1)
	XMax, YMax = math.Inf(-1), math.Inf(-1)
	extend := func(pt Point2D) {
		XMin = math.Min(XMin, pt.X)
		XMax = math.Max(XMax, pt.X)
		YMin = math.Min(YMin, pt.Y)
		YMax = math.Max(YMax, pt.Y)
	}
	extend(p.Project(scene.Source.Position))
	listener := p.Project(scene.Listener.Position)
	extend(listener.Translate(-scene.Listener.Radius, -scene.Listener.Radius))
	extend(listener.Translate(scene.Listener.Radius, scene.Listener.Radius))
	if scene.Room != nil && !scene.Room.Empty() {
		for _, path := range p.Outlines(scene.Room.M) {
			for _, pt := range path {
				extend(pt)
			}
		}
	}
	return
}

func (view *View) computeScaleAndTranslation() {
	XMin, XMax, YMin, YMax := view.Scene.BoundingBox(view.Plane)
	view.xTranslate = -XMin
	view.yTranslate = -YMin
	XScale := float64(view.XSize) / (XMax - XMin)
	YScale := float64(view.YSize) / (YMax - YMin)
	view.scale = math.Min(XScale, YScale)
	if math.IsInf(view.scale, 0) || math.IsNaN(view.scale) {
		view.scale = 1
	}
}

func (view *View) getScale() float64 {
	if view.scale == 0 {
		view.computeScaleAndTranslation()
	}
	return view.scale
}

func (o *View) translateAndScale(p Point2D) Point2D {
	s := o.getScale()
	return p.Translate(o.xTranslate, o.yTranslate).Scale(s)
}

// Render draws the room outline, the source, the listener capture sphere and a 1 m
// scale bar.
func (view *View) Render() image.Image {
	c := gg.NewContext(view.XSize, view.YSize)
	c.SetColor(color.White)
	c.Clear()

	c.SetColor(color.Black)
	c.SetLineWidth(2)
	if view.Scene.Room != nil && !view.Scene.Room.Empty() {
		for _, lines := range view.Plane.Outlines(view.Scene.Room.M) {
			for i := 0; i < len(lines)-1; i++ {
				p1 := view.translateAndScale(lines[i])
				p2 := view.translateAndScale(lines[i+1])
				c.DrawLine(p1.X, p1.Y, p2.X, p2.Y)
				c.Stroke()
			}
		}
	}

	scale := view.getScale()
	listenPos := view.translateAndScale(view.project(view.Scene.Listener.Position))
	// Small circle represents the listening position
	c.SetRGB(0, 0, 1)
	c.DrawCircle(listenPos.X, listenPos.Y, 3)
	c.Fill()
	// Large circle represents the capture sphere
	c.DrawCircle(listenPos.X, listenPos.Y, view.Scene.Listener.Radius*scale)
	c.Stroke()

	sourcePos := view.translateAndScale(view.project(view.Scene.Source.Position))
	c.SetRGB(1, 0, 0)
	c.DrawCircle(sourcePos.X, sourcePos.Y, 4)
	c.Fill()

	c.SetColor(color.Black)
	y := float64(view.YSize) - 10
	c.DrawLine(10, y, 10+scale, y)
	c.Stroke()
	c.DrawString("1 m", 14+scale, y)
	return c.Image()
}

// SavePlanView renders view to a PNG file
func (view *View) SavePlanView(filename string) error {
	img := view.Render()
	return gg.SavePNG(filename, img)
}

// PlotResponse saves a chart of the response and its energy decay curve, both in dB
// relative to their peak, against time in ms.
func PlotResponse(filename string, ir ImpulseResponse, sampleRate int, X, Y int) error {
	p := plot.New()
	p.Title.Text = "Impulse response"
	p.X.Label.Text = "Time (ms)"
	p.Y.Label.Text = "Energy (dB)"

	_, peak := ir.Peak()
	if peak <= 0 {
		return fmt.Errorf("response is silent")
	}
	const floor = -90.0
	response := make(plotter.XYs, 0, len(ir))
	for i, v := range ir {
		db := floor
		if v > 0 {
			db = math.Max(floor, toDB(v/peak))
		}
		response = append(response, plotter.XY{X: float64(i) / float64(sampleRate) / MS, Y: db})
	}
	decay := make(plotter.XYs, 0, len(ir))
	for i, db := range EnergyDecayCurve(ir) {
		if math.IsInf(db, -1) {
			break
		}
		decay = append(decay, plotter.XY{X: float64(i) / float64(sampleRate) / MS, Y: math.Max(floor, db)})
	}

	responseLine, err := plotter.NewLine(response)
	if err != nil {
		return err
	}
	responseLine.Color = color.RGBA{B: 255, A: 255}
	p.Add(responseLine)
	p.Legend.Add("arrivals", responseLine)

	if len(decay) > 0 {
		decayLine, err := plotter.NewLine(decay)
		if err != nil {
			return err
		}
		decayLine.Color = color.RGBA{R: 255, A: 255}
		decayLine.Width = vg.Points(2)
		p.Add(decayLine)
		p.Legend.Add("decay", decayLine)
	}
	p.Add(plotter.NewGrid())

	return p.Save(font.Length(X), font.Length(Y), filename)
}
