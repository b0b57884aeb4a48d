package vpvs

import (
	"github.com/askiada/go-vpvs/pkg/vpvs/model"
	"github.com/askiada/go-vpvs/pkg/vpvs/parser"
	"github.com/askiada/go-vpvs/pkg/vpvs/regression"
)

// Config selects the input layout, the correlation threshold and the estimator.
type Config struct {
	Format     model.Format
	Threshold  float64
	Method     model.Method
	Regression regression.Params
}

// DefaultConfig reads format A with a 0.85 threshold and fits with IRLS.
func DefaultConfig() Config {
	return Config{
		Format:     model.FormatA,
		Threshold:  parser.DefaultThreshold,
		Method:     model.MethodIRLS,
		Regression: regression.DefaultParams(),
	}
}
