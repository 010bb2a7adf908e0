package graphlink

import (
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vektah/gqlparser/v2/parser"
)

// Document is a parsed GraphQL operation, ready to hand to Query or Mutate.
// The zero value is not usable; build one with ParseDocument or
// MustParseDocument.
type Document struct {
	src        string
	normalized string
	doc        *ast.QueryDocument
	kind       string
	name       string
}

// ParseDocument parses src as a GraphQL document. The client only accepts
// parsed documents, so syntax problems surface here rather than at call time.
// Validation against a schema is the server's job.
func ParseDocument(src string) (*Document, error) {
	qd, err := parser.ParseQuery(&ast.Source{Name: "operation", Input: src})
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if len(qd.Operations) == 0 {
		return nil, fmt.Errorf("parse document: no operations")
	}
	op := qd.Operations[0]
	return &Document{
		src:        src,
		normalized: formatDocument(qd),
		doc:        qd,
		kind:       string(op.Operation),
		name:       op.Name,
	}, nil
}

// MustParseDocument is ParseDocument for known-good documents; it panics on
// error.
func MustParseDocument(src string) *Document {
	d, err := ParseDocument(src)
	if err != nil {
		panic(err)
	}
	return d
}

// Source returns the document text exactly as supplied. This is what the
// mutation path sends.
func (d *Document) Source() string {
	return d.src
}

// Normalized returns the canonical re-print of the document. This is what the
// query path sends.
func (d *Document) Normalized() string {
	return d.normalized
}

// Kind returns the kind of the document's first operation: "query",
// "mutation" or "subscription".
func (d *Document) Kind() string {
	return d.kind
}

// Name returns the name of the document's first operation, or "" for
// anonymous operations.
func (d *Document) Name() string {
	return d.name
}

func formatDocument(qd *ast.QueryDocument) string {
	var sb strings.Builder
	formatter.NewFormatter(&sb).FormatQueryDocument(qd)
	return strings.TrimSpace(sb.String())
}
