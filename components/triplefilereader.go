package components

import (
	"fmt"
	"io"

	"github.com/flowbase/flowbase"
	"github.com/knakk/rdf"
	"github.com/spf13/afero"

	"github.com/rdfio/rdf2void/void"
)

// BUFSIZE is the buffer size of the channels between processes.
const BUFSIZE = 16

// TripleFileReader is a process that reads RDF files, based on file names it
// receives on the InFileName port, and sends every triple on the OutTriple
// port. Files ending in .nt are read as N-Triples, everything else as Turtle.
// Blank node labels are scoped to the file they occur in.
// On the first error it stops reading and closes OutTriple; the error is then
// available from Err.
type TripleFileReader struct {
	InFileName chan string
	OutTriple  chan rdf.Triple
	fs         afero.Fs
	files      int
	err        error
}

// NewOsTripleFileReader returns an initialized TripleFileReader, with an OS
// (normal) file system
func NewOsTripleFileReader() *TripleFileReader {
	return NewTripleFileReader(afero.NewOsFs())
}

// NewTripleFileReader returns an initialized TripleFileReader, reading from
// the afero file system provided as an argument
func NewTripleFileReader(fileSystem afero.Fs) *TripleFileReader {
	if !flowbase.LogExists {
		flowbase.InitLogWarning()
	}
	return &TripleFileReader{
		InFileName: make(chan string, BUFSIZE),
		OutTriple:  make(chan rdf.Triple, BUFSIZE),
		fs:         fileSystem,
	}
}

// Err returns the error that stopped the reader, if any. Only valid after
// OutTriple has been closed.
func (p *TripleFileReader) Err() error { return p.err }

// Run runs the TripleFileReader process. It does not spawn a separate
// go-routine, so you have to prepend the go keyword when calling it, in order
// to have it run in a separate go-routine.
func (p *TripleFileReader) Run() {
	defer close(p.OutTriple)

	for fileName := range p.InFileName {
		if p.err != nil {
			continue
		}
		p.files++
		flowbase.Debug.Printf("Starting processing file %s\n", fileName)
		n, err := p.readFile(fileName)
		if err != nil {
			p.err = err
			flowbase.Warning.Printf("Stopped reading at %s: %v\n", fileName, err)
			continue
		}
		flowbase.Debug.Printf("Read %d triples from %s\n", n, fileName)
	}
}

func (p *TripleFileReader) readFile(fileName string) (int, error) {
	fh, err := p.fs.Open(fileName)
	if err != nil {
		return 0, err
	}
	defer fh.Close()

	format := void.FormatForFile(fileName)
	dec := rdf.NewTripleDecoder(fh, format.RDFFormat())
	scope := fmt.Sprintf("f%d_", p.files)
	n := 0
	for {
		triple, err := dec.Decode()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("%s: could not decode %s triple %d: %w", fileName, format, n+1, err)
		}
		if triple.Subj == nil || triple.Pred == nil || triple.Obj == nil {
			return n, fmt.Errorf("%s: incomplete triple %d", fileName, n+1)
		}
		if triple, err = scopeBlanks(triple, scope); err != nil {
			return n, fmt.Errorf("%s: triple %d: %w", fileName, n+1, err)
		}
		p.OutTriple <- triple
		n++
	}
}

// scopeBlanks prefixes the labels of the blank nodes in t with scope.
func scopeBlanks(t rdf.Triple, scope string) (rdf.Triple, error) {
	if b, ok := t.Subj.(rdf.Blank); ok {
		nb, err := rdf.NewBlank(scope + b.String())
		if err != nil {
			return t, err
		}
		t.Subj = nb
	}
	if b, ok := t.Obj.(rdf.Blank); ok {
		nb, err := rdf.NewBlank(scope + b.String())
		if err != nil {
			return t, err
		}
		t.Obj = nb
	}
	return t, nil
}
