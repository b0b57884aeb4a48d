// Package log builds the zap logger shared by the command and the estimator.
package log

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// New returns a development logger when debug is set, a production logger otherwise.
func New(debug bool) (*zap.SugaredLogger, error) {
	var (
		zapLogger *zap.Logger
		err       error
	)

	if debug {
		zapLogger, err = zap.NewDevelopment()
	} else {
		zapLogger, err = zap.NewProduction()
	}

	if err != nil {
		return nil, errors.Wrap(err, "can't initialize zap logger")
	}

	return zapLogger.Sugar(), nil
}
