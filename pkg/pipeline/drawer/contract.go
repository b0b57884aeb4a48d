package drawer

import (
	"github.com/askiada/go-vpvs/pkg/pipeline/measure"
)

// Drawer is an interface that defines the methods for drawing a pipeline.
type Drawer interface {
	// AddStep adds a step to the pipeline drawer.
	AddStep(stepName string) error
	// AddLink adds a link between parent and children steps.
	AddLink(parentStepName, childrenStepName string) error
	// AddMeasure annotates the steps and links with their timings.
	AddMeasure(measure measure.Measure) error
	// Draw writes the pipeline graph.
	Draw() error
}
