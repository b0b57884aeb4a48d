// Package model provides the data structures of the pipeline package.
// It defines the steps, their descriptions and the interface implemented by pipeline options.
package model
