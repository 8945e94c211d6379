package ingest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/dd0wney/semgraph/pkg/graph"
)

// Dataset is one loaded batch of triples. The ID correlates log lines and
// events across a load; it changes on every load even for the same file.
type Dataset struct {
	ID      string
	Source  string
	Triples []graph.Triple
}

// fields per record: subject, predicate, object, severity
const recordFields = 4

// ReadTriples parses a header-terminated comma-delimited triple table. The
// first line is the header and is always skipped. Rows with fewer than four
// fields are silently dropped — malformed records never reach the core.
// Everything after the third comma belongs to the severity field; a trailing
// carriage return is stripped for files with CRLF line endings.
func ReadTriples(r io.Reader) ([]graph.Triple, error) {
	scanner := bufio.NewScanner(r)

	triples := make([]graph.Triple, 0)
	header := true
	for scanner.Scan() {
		line := scanner.Text()
		if header {
			header = false
			continue
		}

		parts := strings.SplitN(line, ",", recordFields)
		if len(parts) < recordFields {
			continue
		}

		severity := strings.TrimSuffix(parts[3], "\r")
		triples = append(triples, graph.Triple{
			Subject:   parts[0],
			Predicate: parts[1],
			Object:    parts[2],
			Severity:  severity,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading triples: %w", err)
	}

	return triples, nil
}

// LoadFile reads a triple table from disk and wraps it in a Dataset with a
// fresh ID.
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening triple file: %w", err)
	}
	defer f.Close()

	triples, err := ReadTriples(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	return &Dataset{
		ID:      uuid.NewString(),
		Source:  path,
		Triples: triples,
	}, nil
}
