package text

import (
	"errors"
	"unicode/utf8"
)

var (
	// ErrTextCompleted signals staging into a builder after Text has
	// been called.
	ErrTextCompleted = errors.New("text: builder already completed")
	// ErrInvalidUTF8 signals non-UTF-8 input to a builder.
	ErrInvalidUTF8 = errors.New("text: invalid UTF-8 input")
)

// Builder incrementally stages text fragments and finalizes them into a
// Text.
//
// Fragments may be appended and prepended in any order; the text is
// materialized only when Text is called. After that the builder is
// sealed: further staging fails with ErrTextCompleted, but Text may be
// called again and Reset prepares the builder for a fresh build.
//
// The empty instance is a valid builder, but clients may use NewBuilder.
type Builder struct {
	// front keeps prepended fragments in reverse logical order.
	front [][]byte
	// back keeps appended fragments in logical order.
	back [][]byte

	done  bool
	dirty bool
	text  Text
}

// NewBuilder creates a new and empty text builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AppendString appends UTF-8 text to the staged build.
func (b *Builder) AppendString(s string) error {
	if !utf8.ValidString(s) {
		return ErrInvalidUTF8
	}
	return b.stage([]byte(s), false)
}

// PrependString prepends UTF-8 text to the staged build.
func (b *Builder) PrependString(s string) error {
	if !utf8.ValidString(s) {
		return ErrInvalidUTF8
	}
	return b.stage([]byte(s), true)
}

// AppendBytes appends UTF-8 bytes to the staged build.
func (b *Builder) AppendBytes(fragment []byte) error {
	if !utf8.Valid(fragment) {
		return ErrInvalidUTF8
	}
	buf := make([]byte, len(fragment))
	copy(buf, fragment)
	return b.stage(buf, false)
}

func (b *Builder) stage(fragment []byte, front bool) error {
	if b.done {
		return ErrTextCompleted
	}
	if len(fragment) == 0 {
		return nil
	}
	if front {
		b.front = append(b.front, fragment)
	} else {
		b.back = append(b.back, fragment)
	}
	b.dirty = true
	return nil
}

// Text returns the text built from all staged fragments and seals the
// builder. It may be called multiple times.
func (b *Builder) Text() Text {
	if b == nil {
		return Text{}
	}
	if b.dirty {
		b.text = b.build()
		b.dirty = false
	}
	b.done = true
	if b.text.IsVoid() {
		tracer().Debugf("text builder: text is void")
	}
	return b.text
}

// Reset drops the staged build and prepares the builder for a fresh
// build.
func (b *Builder) Reset() {
	b.front = nil
	b.back = nil
	b.done = false
	b.dirty = false
	b.text = Text{}
}

func (b *Builder) build() Text {
	n := 0
	for _, f := range b.front {
		n += len(f)
	}
	for _, f := range b.back {
		n += len(f)
	}
	buf := make([]byte, 0, n)
	for i := len(b.front) - 1; i >= 0; i-- {
		buf = append(buf, b.front[i]...)
	}
	for _, f := range b.back {
		buf = append(buf, f...)
	}
	return FromString(string(buf))
}
