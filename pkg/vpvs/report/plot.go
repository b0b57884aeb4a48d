package report

import (
	"context"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgsvg"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-vpvs/pkg/vpvs/model"
)

const (
	DefaultDPI          = 600
	DefaultWidth        = 6.4 * vg.Inch
	DefaultHeight       = 4.8 * vg.Inch
	DefaultScatterColor = "#0000ff"
	DefaultLineColor    = "#ff0000"
)

// PlotReporter renders the samples and the fitted line to an image file.
// The encoding follows the file extension: .png, .jpg, .jpeg, .tif, .tiff or .svg.
type PlotReporter struct {
	Path          string
	DPI           int
	Width, Height vg.Length
	ScatterColor  string
	LineColor     string
}

// NewPlotReporter validates the output path and colours. Zero DPI and sizes take the defaults.
func NewPlotReporter(path string, dpi int, scatterColor, lineColor string) (*PlotReporter, error) {
	if err := checkExtension(path); err != nil {
		return nil, err
	}

	if dpi <= 0 {
		dpi = DefaultDPI
	}

	if scatterColor == "" {
		scatterColor = DefaultScatterColor
	}

	if lineColor == "" {
		lineColor = DefaultLineColor
	}

	for field, value := range map[string]string{"scatter_color": scatterColor, "line_color": lineColor} {
		if _, err := parseColor(field, value); err != nil {
			return nil, err
		}
	}

	return &PlotReporter{
		Path:         path,
		DPI:          dpi,
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		ScatterColor: scatterColor,
		LineColor:    lineColor,
	}, nil
}

// Report implements Reporter.
func (r *PlotReporter) Report(_ context.Context, data *Data) error {
	plt, err := r.build(data)
	if err != nil {
		return err
	}

	canvas, err := canvasFor(r.Path, r.Width, r.Height, r.DPI)
	if err != nil {
		return err
	}

	plt.Draw(draw.New(canvas))

	file, err := os.Create(r.Path)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", r.Path)
	}
	defer file.Close()

	_, err = canvas.WriteTo(file)
	if err != nil {
		return errors.Wrapf(err, "unable to write plot %s", r.Path)
	}

	return nil
}

func (r *PlotReporter) build(data *Data) (*plot.Plot, error) {
	scatterColor, err := parseColor("scatter_color", r.ScatterColor)
	if err != nil {
		return nil, err
	}

	lineColor, err := parseColor("line_color", r.LineColor)
	if err != nil {
		return nil, err
	}

	samples := make(plotter.XYs, len(data.P))
	for i := range data.P {
		samples[i].X, samples[i].Y = data.P[i], data.S[i]
	}

	predicted := make(plotter.XYs, len(data.XRange))
	for i := range data.XRange {
		predicted[i].X, predicted[i].Y = data.XRange[i], data.YPred[i]
	}

	scatter, err := plotter.NewScatter(samples)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create scatter")
	}

	scatter.GlyphStyle.Color = scatterColor
	scatter.GlyphStyle.Shape = draw.RingGlyph{}

	line, err := plotter.NewLine(predicted)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create fitted line")
	}

	line.LineStyle.Color = lineColor
	line.LineStyle.Width = vg.Points(2)

	plt := plot.New()
	plt.X.Label.Text = "ΔP (s)"
	plt.Y.Label.Text = "ΔS (s)"
	plt.Add(plotter.NewGrid(), scatter, line)
	plt.Legend.Top = true
	plt.Legend.Left = true
	plt.Legend.Add(Equation(data.Fit.Line), scatter)

	return plt, nil
}

type canvasWriter interface {
	vg.CanvasSizer
	io.WriterTo
}

var imageExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".tif": true, ".tiff": true, ".svg": true}

func checkExtension(path string) error {
	if !imageExtensions[strings.ToLower(filepath.Ext(path))] {
		return &model.ConfigurationError{Field: "output", Value: path, Reason: "unsupported image extension"}
	}

	return nil
}

func canvasFor(path string, width, height vg.Length, dpi int) (canvasWriter, error) {
	if err := checkExtension(path); err != nil {
		return nil, err
	}

	newImg := func() *vgimg.Canvas {
		return vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(dpi))
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return vgimg.PngCanvas{Canvas: newImg()}, nil
	case ".jpg", ".jpeg":
		return vgimg.JpegCanvas{Canvas: newImg()}, nil
	case ".tif", ".tiff":
		return vgimg.TiffCanvas{Canvas: newImg()}, nil
	default:
		return vgsvg.New(width, height), nil
	}
}

func parseColor(field, value string) (color.Color, error) {
	parsed, err := colors.Parse(value)
	if err != nil {
		return nil, &model.ConfigurationError{Field: field, Value: value, Reason: err.Error()}
	}

	rgba := parsed.ToRGBA()

	return color.NRGBA{R: rgba.R, G: rgba.G, B: rgba.B, A: uint8(rgba.A * 255)}, nil
}
