// file: figure.go
package launchdash

const (
	FigurePie     = "pie"
	FigureScatter = "scatter"
)

// Figure is a chart description handed to the page or to a renderer.
type Figure interface {
	FigureType() string
}

type PieSlice struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value int    `json:"value"`
}

type PieFigure struct {
	Type   string     `json:"type"`
	Title  string     `json:"title"`
	Site   string     `json:"site"`
	Slices []PieSlice `json:"slices"`
}

func (f PieFigure) FigureType() string { return FigurePie }

func (f PieFigure) Total() int {
	total := 0
	for _, s := range f.Slices {
		total += s.Value
	}
	return total
}

type ScatterPoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	LaunchSite string  `json:"launchSite"`
}

type ScatterSeries struct {
	Name   string         `json:"name"`
	Points []ScatterPoint `json:"points"`
}

type ScatterFigure struct {
	Type   string          `json:"type"`
	Title  string          `json:"title"`
	Site   string          `json:"site"`
	XLabel string          `json:"xLabel"`
	YLabel string          `json:"yLabel"`
	Series []ScatterSeries `json:"series"`
	RangeX [2]float64      `json:"rangeX"`
	RangeY [2]float64      `json:"rangeY"`
}

func (f ScatterFigure) FigureType() string { return FigureScatter }

func (f ScatterFigure) PointCount() int {
	n := 0
	for _, s := range f.Series {
		n += len(s.Points)
	}
	return n
}
