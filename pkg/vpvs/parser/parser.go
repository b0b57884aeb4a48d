// Package parser reads differential-time files grouped by event pair.
//
// A line containing '#' anywhere opens a new group. Every other non-blank line is a station measurement whose layout
// depends on the configured format. Measurements below the correlation threshold or with an unknown phase are dropped.
package parser

import (
	"bufio"
	"context"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/askiada/go-vpvs/pkg/vpvs/model"
)

// GroupMarker opens a new event-pair group wherever it appears in a line.
const GroupMarker = "#"

// DefaultThreshold is the default minimum cross-correlation coefficient.
const DefaultThreshold = 0.85

// MaxLineSize is the longest line Scan accepts, in bytes.
const MaxLineSize = 1 << 20

// Parser turns lines into measurements and groups.
type Parser struct {
	format    model.Format
	threshold float64
}

// New validates the format and threshold.
func New(format model.Format, threshold float64) (*Parser, error) {
	if format.Fields() == 0 {
		return nil, &model.ConfigurationError{Field: "format", Value: string(format)}
	}

	if math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		return nil, &model.ConfigurationError{
			Field:  "threshold",
			Value:  strconv.FormatFloat(threshold, 'g', -1, 64),
			Reason: "must be finite",
		}
	}

	return &Parser{format: format, threshold: threshold}, nil
}

// Format returns the configured line layout.
func (p *Parser) Format() model.Format {
	return p.format
}

// Threshold returns the configured correlation threshold.
func (p *Parser) Threshold() float64 {
	return p.threshold
}

// ParseLine parses one data line. ok is false when the line is valid but not retained,
// either because its phase is unknown or because its correlation is below the threshold.
func (p *Parser) ParseLine(lineNo int, line string) (model.Measurement, bool, error) {
	fields := strings.Fields(line)
	if len(fields) != p.format.Fields() {
		return model.Measurement{}, false, &model.ParseError{
			Line:   lineNo,
			Text:   line,
			Reason: "expected " + strconv.Itoa(p.format.Fields()) + " fields, got " + strconv.Itoa(len(fields)),
		}
	}

	phase, known := model.ParsePhase(fields[len(fields)-1])
	if !known {
		return model.Measurement{}, false, nil
	}

	// the last numeric field is the correlation, the others are times
	values := make([]float64, len(fields)-2)
	for i, field := range fields[1 : len(fields)-1] {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return model.Measurement{}, false, &model.ParseError{
				Line:   lineNo,
				Text:   line,
				Reason: "field " + strconv.Itoa(i+2) + " is not a number",
			}
		}

		if i < len(values)-1 && (math.IsNaN(v) || math.IsInf(v, 0)) {
			return model.Measurement{}, false, &model.ParseError{
				Line:   lineNo,
				Text:   line,
				Reason: "field " + strconv.Itoa(i+2) + " is not finite",
			}
		}

		values[i] = v
	}

	m := model.Measurement{Station: fields[0], Phase: phase}

	switch p.format {
	case model.FormatA:
		m.DiffTime, m.Correlation = values[0], values[1]
	case model.FormatB:
		m.DiffTime, m.Correlation = values[0]-values[1], values[2]
	}

	// NaN never passes
	if !(m.Correlation >= p.threshold) {
		return m, false, nil
	}

	return m, true, nil
}

// accumulator is the group currently being filled.
type accumulator struct {
	current *model.Group
	count   int
	emit    func(*model.Group) error
}

func (a *accumulator) open(header string) error {
	err := a.flush()
	if err != nil {
		return err
	}

	a.count++
	a.current = model.NewGroup(a.count, header)

	return nil
}

func (a *accumulator) flush() error {
	if a.current == nil {
		return nil
	}

	g := a.current
	a.current = nil

	return a.emit(g)
}

// Scan reads r line by line and calls emit for every completed group, in input order.
// The last group is emitted once the input is exhausted. Scan stops at the first error.
func (p *Parser) Scan(ctx context.Context, r io.Reader, emit func(*model.Group) error) error {
	acc := &accumulator{emit: emit}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), MaxLineSize)
	lineNo := 0

	for scanner.Scan() {
		lineNo++

		select {
		case <-ctx.Done():
			return errors.Wrapf(ctx.Err(), "line %d", lineNo)
		default:
		}

		line := scanner.Text()

		if idx := strings.Index(line, GroupMarker); idx >= 0 {
			header := strings.TrimSpace(line[:idx] + line[idx+len(GroupMarker):])

			err := acc.open(header)
			if err != nil {
				return err
			}

			continue
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		m, ok, err := p.ParseLine(lineNo, line)
		if err != nil {
			return err
		}

		if acc.current == nil {
			return &model.ParseError{Line: lineNo, Text: line, Reason: "measurement before the first group marker"}
		}

		if ok {
			acc.current.Add(m)
		}
	}

	err := scanner.Err()
	if errors.Is(err, bufio.ErrTooLong) {
		return &model.ParseError{Line: lineNo + 1, Reason: "line longer than " + strconv.Itoa(MaxLineSize) + " bytes"}
	}

	if err != nil {
		return errors.Wrap(err, "unable to read input")
	}

	return acc.flush()
}
