// Package model provides the data structures shared by the vpvs packages.
// It defines the measurements read from a differential-time file, the event-pair groups they belong to,
// the residual samples fed to the regression, the fitted line, the configuration selectors and the error taxonomy.
package model
