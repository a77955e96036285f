package void

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knakk/rdf"
)

// Format is an RDF serialization.
type Format int

const (
	Turtle Format = iota
	NTriples
)

func (f Format) String() string {
	switch f {
	case Turtle:
		return "turtle"
	case NTriples:
		return "ntriples"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// RDFFormat returns the knakk/rdf format for f.
func (f Format) RDFFormat() rdf.Format {
	if f == NTriples {
		return rdf.NTriples
	}
	return rdf.Turtle
}

// ParseFormat parses a format name as given on the command line.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "turtle", "ttl":
		return Turtle, nil
	case "ntriples", "nt", "n-triples":
		return NTriples, nil
	}
	return 0, fmt.Errorf("unknown format %q, expected turtle or ntriples", s)
}

// FormatForFile picks the format from a file extension: .nt is N-Triples,
// everything else Turtle.
func FormatForFile(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".nt") {
		return NTriples
	}
	return Turtle
}
