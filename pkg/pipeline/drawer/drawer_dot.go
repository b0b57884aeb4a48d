package drawer

import (
	"fmt"
	"os"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-vpvs/pkg/pipeline/measure"
)

// DOTDrawer writes the pipeline graph in Graphviz DOT format.
type DOTDrawer struct {
	graph    graph.Graph[string, string]
	fileName string
}

// NewDOTDrawer creates a drawer writing to fileName.
func NewDOTDrawer(fileName string) *DOTDrawer {
	return &DOTDrawer{
		fileName: fileName,
		graph:    graph.New(graph.StringHash, graph.Directed(), graph.Acyclic()),
	}
}

// AddStep adds a step to the pipeline graph.
func (d *DOTDrawer) AddStep(name string) error {
	err := d.graph.AddVertex(name, graph.VertexAttribute("shape", "box"))
	if err != nil {
		return errors.Wrapf(err, "unable to add vertex %s", name)
	}

	return nil
}

// AddLink adds a link between parent and children steps.
func (d *DOTDrawer) AddLink(parentName, childrenName string) error {
	err := d.graph.AddEdge(parentName, childrenName)
	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentName, childrenName)
	}

	return nil
}

const maxRGB = 240

// AddMeasure labels every step with its average computation time and element count,
// and colours every link from blue (fastest) to red (slowest) by its average waiting time.
func (d *DOTDrawer) AddMeasure(msr measure.Measure) error {
	metrics := msr.AllMetrics()

	var slowest, fastest time.Duration

	first := true

	for _, mt := range metrics {
		for _, elapsed := range mt.AVGTransportDuration() {
			if first || elapsed > slowest {
				slowest = elapsed
			}

			if first || elapsed < fastest {
				fastest = elapsed
			}

			first = false
		}
	}

	for name, mt := range metrics {
		_, properties, err := d.graph.VertexWithProperties(name)
		if errors.Is(err, graph.ErrVertexNotFound) {
			continue
		}

		if err != nil {
			return errors.Wrap(err, "unable to get vertex properties")
		}

		label := name
		if mt.Count() > 0 {
			label += fmt.Sprintf(`\n%s x %d`, mt.AVGDuration(), mt.Count())
		}

		if total := mt.GetTotalDuration(); total > 0 {
			label += `\nend: ` + total.String()
		}

		properties.Attributes["label"] = label

		for input, elapsed := range mt.AVGTransportDuration() {
			colour, err := edgeColour(elapsed, fastest, slowest)
			if err != nil {
				return err
			}

			err = d.graph.UpdateEdge(input, name,
				graph.EdgeAttribute("label", elapsed.String()),
				graph.EdgeAttribute("fontcolor", "blue"),
				graph.EdgeAttribute("color", colour),
			)
			if err != nil && !errors.Is(err, graph.ErrEdgeNotFound) {
				return errors.Wrap(err, "unable to update edge")
			}
		}
	}

	return nil
}

func edgeColour(elapsed, fastest, slowest time.Duration) (string, error) {
	fraction := 1.0
	if slowest > fastest {
		fraction = float64(elapsed-fastest) / float64(slowest-fastest)
	}

	rgb, err := colors.RGB(uint8(maxRGB*fraction), 0, uint8(maxRGB*(1-fraction)))
	if err != nil {
		return "", errors.Wrap(err, "unable to get colour")
	}

	return rgb.ToHEX().String(), nil
}

// Draw writes the graph to the file.
func (d *DOTDrawer) Draw() error {
	file, err := os.Create(d.fileName)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", d.fileName)
	}
	defer file.Close()

	err = draw.DOT(d.graph, file)
	if err != nil {
		return errors.Wrapf(err, "unable to write dot file %s", d.fileName)
	}

	return nil
}

var _ Drawer = (*DOTDrawer)(nil)
