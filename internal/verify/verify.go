// Package verify checks the structure of an LSIF dump: ids are
// strictly increasing and dense, and every edge refers only to vertices that
// appear on an earlier line.
package verify

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// maxLineSize bounds a single line; contains edges of large documents are long.
const maxLineSize = 64 * 1024 * 1024

type ViolationKind string

const (
	// ViolationOrder is an id that is not greater than the previous one.
	ViolationOrder ViolationKind = "order"
	// ViolationGap is an id that skips over at least one id.
	ViolationGap ViolationKind = "gap"
	// ViolationReference is an edge endpoint that is not an earlier vertex.
	ViolationReference ViolationKind = "reference"
)

type Violation struct {
	Line    int
	ID      uint64
	Kind    ViolationKind
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("line %d, id %d: %s", v.Line, v.ID, v.Message)
}

type Report struct {
	Items      int
	Vertices   int
	Edges      int
	Violations []Violation
}

// OK reports whether the dump had no violations.
func (r *Report) OK() bool {
	return len(r.Violations) == 0
}

// Count returns the number of violations of one kind.
func (r *Report) Count(kind ViolationKind) int {
	n := 0
	for _, v := range r.Violations {
		if v.Kind == kind {
			n++
		}
	}
	return n
}

type element struct {
	ID       uint64   `json:"id"`
	Type     string   `json:"type"`
	Label    string   `json:"label"`
	OutV     *uint64  `json:"outV"`
	InV      *uint64  `json:"inV"`
	InVs     []uint64 `json:"inVs"`
	Document *uint64  `json:"document"`
}

// Check reads a dump and collects every violation. Only malformed input or a
// read failure returns an error.
func Check(r io.Reader) (*Report, error) {
	report := &Report{}
	vertices := map[uint64]struct{}{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lastID uint64
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}

		var e element
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		report.Items++

		violate := func(kind ViolationKind, format string, args ...interface{}) {
			report.Violations = append(report.Violations, Violation{
				Line:    line,
				ID:      e.ID,
				Kind:    kind,
				Message: fmt.Sprintf(format, args...),
			})
		}

		if report.Items > 1 {
			switch {
			case e.ID <= lastID:
				violate(ViolationOrder, "id not increasing, last id %d", lastID)
			case e.ID != lastID+1:
				violate(ViolationGap, "missing ids %d..%d", lastID+1, e.ID-1)
			}
		}
		if e.ID > lastID {
			lastID = e.ID
		}

		switch e.Type {
		case "vertex":
			report.Vertices++
			vertices[e.ID] = struct{}{}
			continue
		case "edge":
			report.Edges++
		default:
			violate(ViolationReference, "unknown element type %q", e.Type)
			continue
		}

		check := func(field string, id uint64) {
			if _, ok := vertices[id]; !ok {
				violate(ViolationReference, "%s %d not indexed", field, id)
			}
		}
		if e.OutV != nil {
			check("outV", *e.OutV)
		}
		if e.InV != nil {
			check("inV", *e.InV)
		}
		for _, id := range e.InVs {
			check("inVs", id)
		}
		if e.Document != nil {
			check("document", *e.Document)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read dump")
	}

	return report, nil
}
