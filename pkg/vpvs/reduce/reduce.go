// Package reduce removes the common-mode offset of an event-pair group.
package reduce

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/askiada/go-vpvs/pkg/vpvs/model"
)

// Means returns the mean P and S differential times over the stations that have both phases.
// Both are NaN when no station has both.
func Means(g *model.Group) (meanP, meanS float64) {
	stations := g.DualStations()
	if len(stations) == 0 {
		return math.NaN(), math.NaN()
	}

	ps, ss := dualTimes(g, stations)

	return stat.Mean(ps, nil), stat.Mean(ss, nil)
}

// Residuals returns one sample per dual-phase station, in station order, with the group means subtracted.
// A group without dual-phase stations yields no samples.
func Residuals(g *model.Group) []model.Sample {
	stations := g.DualStations()
	if len(stations) == 0 {
		return nil
	}

	ps, ss := dualTimes(g, stations)
	meanP, meanS := stat.Mean(ps, nil), stat.Mean(ss, nil)

	samples := make([]model.Sample, len(stations))
	for i := range stations {
		samples[i] = model.Sample{P: ps[i] - meanP, S: ss[i] - meanS}
	}

	return samples
}

func dualTimes(g *model.Group, stations []string) (ps, ss []float64) {
	ps = make([]float64, len(stations))
	ss = make([]float64, len(stations))

	for i, station := range stations {
		ps[i] = g.P[station]
		ss[i] = g.S[station]
	}

	return ps, ss
}
