package badgerstore

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/knakk/rdf"

	"github.com/rdfio/rdf2void/store"
)

const (
	prefixStats     = 'm'
	prefixSPO       = 't'
	prefixPSO       = 'x'
	prefixPredCount = 'c'
	prefixSubjCount = 'n'
	prefixTermToID  = 'd'
	prefixIDToTerm  = 'e'
)

func appendID(b []byte, id store.ID) []byte {
	return binary.BigEndian.AppendUint64(b, uint64(id))
}

func readID(b []byte) store.ID {
	return store.ID(binary.BigEndian.Uint64(b))
}

// indexPrefix returns the longest key prefix of an index for the bound
// leading positions. ids are in index order; a Wildcard ends the prefix.
func indexPrefix(index byte, ids ...store.ID) []byte {
	key := []byte{index}
	for _, id := range ids {
		if id == store.Wildcard {
			break
		}
		key = appendID(key, id)
	}
	return key
}

func spoKey(t store.Triple) []byte {
	return indexPrefix(prefixSPO, t.S, t.P, t.O)
}

func psoKey(t store.Triple) []byte {
	return indexPrefix(prefixPSO, t.P, t.S, t.O)
}

func decodeSPO(key []byte) store.Triple {
	return store.Triple{S: readID(key[1:9]), P: readID(key[9:17]), O: readID(key[17:25])}
}

func decodePSO(key []byte) store.Triple {
	return store.Triple{P: readID(key[1:9]), S: readID(key[9:17]), O: readID(key[17:25])}
}

func predCountKey(p store.ID) []byte {
	return appendID([]byte{prefixPredCount}, p)
}

// subjCountKey keys the triple count of a subject, or of a subject and
// predicate when p is bound.
func subjCountKey(s, p store.ID) []byte {
	return indexPrefix(prefixSubjCount, s, p)
}

func termToIDKey(role store.Role, key string) []byte {
	b := []byte{prefixTermToID, byte(role)}
	return append(b, key...)
}

func idToTermKey(role store.Role, id store.ID) []byte {
	return appendID([]byte{prefixIDToTerm, byte(role)}, id)
}

func encodeStats(s store.Stats) []byte {
	b := make([]byte, 0, 40)
	for _, n := range []int64{s.Triples, s.Subjects, s.Predicates, s.Objects, s.Shared} {
		b = binary.BigEndian.AppendUint64(b, uint64(n))
	}
	return b
}

func decodeStats(b []byte) (store.Stats, error) {
	if len(b) != 40 {
		return store.Stats{}, fmt.Errorf("stats record has %d bytes, want 40", len(b))
	}
	n := func(i int) int64 { return int64(binary.BigEndian.Uint64(b[i*8:])) }
	return store.Stats{Triples: n(0), Subjects: n(1), Predicates: n(2), Objects: n(3), Shared: n(4)}, nil
}

const (
	termIRI     = 'I'
	termBlank   = 'B'
	termLiteral = 'L'
)

var errBadTerm = errors.New("malformed term record")

func appendString(b []byte, s string) []byte {
	b = binary.AppendUvarint(b, uint64(len(s)))
	return append(b, s...)
}

func readString(b []byte) (string, []byte, error) {
	n, w := binary.Uvarint(b)
	if w <= 0 || uint64(len(b)-w) < n {
		return "", nil, errBadTerm
	}
	return string(b[w : w+int(n)]), b[w+int(n):], nil
}

// encodeTerm writes a term as a tag byte followed by its length-prefixed
// parts: the IRI, the blank node label, or lexical form, language and
// datatype of a literal.
func encodeTerm(term rdf.Term) ([]byte, error) {
	switch t := term.(type) {
	case rdf.IRI:
		return appendString([]byte{termIRI}, t.String()), nil
	case rdf.Blank:
		return appendString([]byte{termBlank}, strings.TrimPrefix(t.String(), "_:")), nil
	case rdf.Literal:
		b := appendString([]byte{termLiteral}, t.String())
		b = appendString(b, t.Lang())
		return appendString(b, t.DataType.String()), nil
	}
	return nil, fmt.Errorf("unsupported term %T", term)
}

func decodeTerm(b []byte) (rdf.Term, error) {
	if len(b) == 0 {
		return nil, errBadTerm
	}
	tag, rest := b[0], b[1:]
	first, rest, err := readString(rest)
	if err != nil {
		return nil, err
	}
	switch tag {
	case termIRI:
		return rdf.NewIRI(first)
	case termBlank:
		return rdf.NewBlank(first)
	case termLiteral:
		lang, rest, err := readString(rest)
		if err != nil {
			return nil, err
		}
		dt, _, err := readString(rest)
		if err != nil {
			return nil, err
		}
		if lang != "" {
			return rdf.NewLangLiteral(first, lang)
		}
		if dt == "" {
			return rdf.NewLiteral(first)
		}
		dtIRI, err := rdf.NewIRI(dt)
		if err != nil {
			return nil, err
		}
		return rdf.NewTypedLiteral(first, dtIRI), nil
	}
	return nil, errBadTerm
}
