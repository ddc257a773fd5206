package stream

import (
	"fmt"
	"slices"

	"github.com/arloliu/demopak/errs"
	"github.com/arloliu/demopak/format"
)

// Schema is the ordered list of typed calls a writer and its readers agree on.
//
// The wire format carries no type information, so a reader issuing a different call
// sequence than the writer silently decodes garbage. Sharing one Schema between both sides
// turns such a divergence into ErrSchemaMismatch. The schema never changes the bytes written.
type Schema struct {
	kinds []format.FieldKind
}

// NewSchema creates a schema from a sequence of field kinds.
func NewSchema(kinds ...format.FieldKind) Schema {
	return Schema{kinds: slices.Clone(kinds)}
}

// Append returns a new schema with kinds appended.
func (s Schema) Append(kinds ...format.FieldKind) Schema {
	return Schema{kinds: slices.Concat(s.kinds, kinds)}
}

// Repeat returns a new schema holding n copies of s.
func (s Schema) Repeat(n int) Schema {
	if n <= 0 {
		return Schema{}
	}

	return Schema{kinds: slices.Repeat(s.kinds, n)}
}

// Len returns the number of fields.
func (s Schema) Len() int {
	return len(s.kinds)
}

// Kinds returns a copy of the field kinds.
func (s Schema) Kinds() []format.FieldKind {
	return slices.Clone(s.kinds)
}

type schemaCursor struct {
	kinds []format.FieldKind
	pos   int
}

func newSchemaCursor(s *Schema) *schemaCursor {
	if s == nil {
		return nil
	}

	return &schemaCursor{kinds: s.kinds}
}

func (c *schemaCursor) expect(kind format.FieldKind) error {
	if c == nil {
		return nil
	}

	pos := c.pos
	c.pos++
	if pos >= len(c.kinds) {
		return fmt.Errorf("%w: field %d is past the end of the %d-field schema (got %s)", errs.ErrSchemaMismatch, pos, len(c.kinds), kind)
	}
	if c.kinds[pos] != kind {
		return fmt.Errorf("%w: field %d is %s, got %s", errs.ErrSchemaMismatch, pos, c.kinds[pos], kind)
	}

	return nil
}

func (c *schemaCursor) done() error {
	if c == nil || c.pos >= len(c.kinds) {
		return nil
	}

	return fmt.Errorf("%w: only %d of %d fields were used", errs.ErrSchemaMismatch, c.pos, len(c.kinds))
}
