package model

// Line is s = Intercept + Slope*p.
type Line struct {
	Intercept float64
	Slope     float64
}

// At evaluates the line at x.
func (l Line) At(x float64) float64 {
	return l.Intercept + l.Slope*x
}

// Fit is the outcome of one regression over the full sample set.
type Fit struct {
	Line
	Method  Method
	Samples int
	// Iterations is the number of solver iterations, trials for RANSAC.
	Iterations int
	// Converged is false when an iterative method stopped at its iteration cap.
	Converged bool
	// Weights are the per-sample weights that produced Line. Only set by IRLS.
	Weights []float64
	// Inliers is the consensus set size. Only set by RANSAC.
	Inliers int
}

// Ratio is the Vp/Vs estimate, the slope of the fitted line.
func (f Fit) Ratio() float64 {
	return f.Slope
}
