package model

import "strings"

// Format selects the data line layout.
type Format string

const (
	// FormatA is "station diff cc phase", as written by FDTCC.
	FormatA Format = "A"
	// FormatB is "station t1 t2 cc phase", as in hypoDD dt.cc files. diff = t1 - t2.
	FormatB Format = "B"
)

// Fields is the number of whitespace separated fields of a data line.
func (f Format) Fields() int {
	switch f {
	case FormatA:
		return 4
	case FormatB:
		return 5
	default:
		return 0
	}
}

// ParseFormat accepts A, B and the program names fdtcc and hypodd, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A", "FDTCC":
		return FormatA, nil
	case "B", "HYPODD":
		return FormatB, nil
	default:
		return "", &ConfigurationError{Field: "format", Value: s}
	}
}

// Method selects the regression estimator.
type Method string

const (
	MethodIRLS   Method = "IRLS"
	MethodOLS    Method = "OLS"
	MethodHuber  Method = "HUBER"
	MethodRANSAC Method = "RANSAC"
)

// Methods lists every supported estimator.
var Methods = []Method{MethodIRLS, MethodOLS, MethodHuber, MethodRANSAC}

// ParseMethod is case-insensitive.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Methods {
		if m == known {
			return m, nil
		}
	}

	return "", &ConfigurationError{Field: "method", Value: s}
}
