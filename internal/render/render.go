// Package render draws dashboard figures as SVG or PNG images.
package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"launchdash"
)

type Format string

const (
	SVG Format = "svg"
	PNG Format = "png"

	DefaultWidth  = 800
	DefaultHeight = 480

	emptyMessage = "No launches match the current selection"
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

var palette = []drawing.Color{
	chart.ColorBlue,
	chart.ColorGreen,
	chart.ColorRed,
	chart.ColorOrange,
	chart.ColorCyan,
	chart.ColorYellow,
	chart.ColorAlternateGray,
}

type Size struct {
	Width  int
	Height int
}

func (s Size) normalize() Size {
	if s.Width <= 0 {
		s.Width = DefaultWidth
	}
	if s.Height <= 0 {
		s.Height = DefaultHeight
	}
	return s
}

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case SVG, "":
		return SVG, nil
	case PNG:
		return PNG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

func (f Format) ContentType() string {
	if f == PNG {
		return "image/png"
	}
	return "image/svg+xml"
}

func (f Format) provider() chart.RendererProvider {
	if f == PNG {
		return chart.PNG
	}
	return chart.SVG
}

// Figure renders any dashboard figure.
func Figure(w io.Writer, fig launchdash.Figure, format Format, size Size) error {
	switch f := fig.(type) {
	case launchdash.PieFigure:
		return Pie(w, f, format, size)
	case launchdash.ScatterFigure:
		return Scatter(w, f, format, size)
	default:
		return fmt.Errorf("render: unsupported figure %T", fig)
	}
}

func Pie(w io.Writer, fig launchdash.PieFigure, format Format, size Size) error {
	size = size.normalize()
	if fig.Total() == 0 {
		return placeholder(w, fig.Title, format, size)
	}
	values := make([]chart.Value, 0, len(fig.Slices))
	for i, s := range fig.Slices {
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%d)", s.Label, s.Value),
			Value: float64(s.Value),
			Style: chart.Style{FillColor: palette[i%len(palette)]},
		})
	}
	pie := chart.PieChart{
		Title:  fig.Title,
		Width:  size.Width,
		Height: size.Height,
		Values: values,
	}
	if err := pie.Render(format.provider(), w); err != nil {
		return fmt.Errorf("render pie: %w", err)
	}
	return nil
}

// pointStyle draws markers only, without a connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: drawing.ColorTransparent,
		DotWidth:    4,
		DotColor:    col,
	}
}

func Scatter(w io.Writer, fig launchdash.ScatterFigure, format Format, size Size) error {
	size = size.normalize()
	if fig.PointCount() == 0 {
		return placeholder(w, fig.Title, format, size)
	}
	series := make([]chart.Series, 0, len(fig.Series))
	for i, s := range fig.Series {
		xs := make([]float64, len(s.Points))
		ys := make([]float64, len(s.Points))
		for j, p := range s.Points {
			xs[j] = p.X
			ys[j] = p.Y
		}
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(palette[i%len(palette)]),
		})
	}
	xMin, xMax := fig.RangeX[0], fig.RangeX[1]
	if xMax <= xMin {
		// go-chart rejects an empty range.
		xMin, xMax = xMin-0.5, xMin+0.5
	}
	ch := chart.Chart{
		Title:      fig.Title,
		Width:      size.Width,
		Height:     size.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  fig.XLabel,
			Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
		},
		YAxis: chart.YAxis{
			Name:  fig.YLabel,
			Range: &chart.ContinuousRange{Min: fig.RangeY[0], Max: fig.RangeY[1]},
			Ticks: []chart.Tick{{Value: 0, Label: "0"}, {Value: 1, Label: "1"}},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	if err := ch.Render(format.provider(), w); err != nil {
		return fmt.Errorf("render scatter: %w", err)
	}
	return nil
}

// placeholder draws a blank canvas with the title and a notice, used when a
// selection matches no launches.
func placeholder(w io.Writer, title string, format Format, size Size) error {
	r, err := format.provider()(size.Width, size.Height)
	if err != nil {
		return fmt.Errorf("render placeholder: %w", err)
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("render placeholder: %w", err)
	}
	r.SetFillColor(drawing.ColorWhite)
	r.MoveTo(0, 0)
	r.LineTo(size.Width, 0)
	r.LineTo(size.Width, size.Height)
	r.LineTo(0, size.Height)
	r.Close()
	r.Fill()

	r.SetFont(font)
	r.SetFontColor(drawing.ColorBlack)
	r.SetFontSize(14)
	r.Text(title, 16, 32)
	r.SetFontColor(chart.ColorAlternateGray)
	r.SetFontSize(12)
	r.Text(emptyMessage, 16, size.Height/2)
	return r.Save(w)
}
