package wbuffer

// Buffer is a growable wide-character buffer. All preprocessor string
// assembly funnels through it so growth policy lives in one place.
type Buffer struct {
	runes []rune
}

// New creates a buffer with the given initial capacity.
func New(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{runes: make([]rune, 0, capacity)}
}

// grow doubles the capacity until n more runes fit.
func (b *Buffer) grow(n int) {
	need := len(b.runes) + n
	if need <= cap(b.runes) {
		return
	}
	newCap := cap(b.runes)
	if newCap == 0 {
		newCap = 1
	}
	for newCap < need {
		newCap *= 2
	}
	grown := make([]rune, len(b.runes), newCap)
	copy(grown, b.runes)
	b.runes = grown
}

// AppendRune appends a single rune.
func (b *Buffer) AppendRune(r rune) {
	b.grow(1)
	b.runes = append(b.runes, r)
}

// AppendRunes appends n runes from a slice.
func (b *Buffer) AppendRunes(rs []rune) {
	b.grow(len(rs))
	b.runes = append(b.runes, rs...)
}

// AppendString appends every rune of s.
func (b *Buffer) AppendString(s string) {
	b.AppendRunes([]rune(s))
}

// AppendBuffer appends the contents of another buffer.
func (b *Buffer) AppendBuffer(other *Buffer) {
	b.AppendRunes(other.runes)
}

// Len returns the number of runes held.
func (b *Buffer) Len() int {
	return len(b.runes)
}

// String returns the accumulated contents.
func (b *Buffer) String() string {
	return string(b.runes)
}

// Runes returns the underlying rune slice. The slice is only valid until the
// next append.
func (b *Buffer) Runes() []rune {
	return b.runes
}

// TrimTrailing drops trailing runes contained in cutset.
func (b *Buffer) TrimTrailing(cutset string) {
	for len(b.runes) > 0 {
		last := b.runes[len(b.runes)-1]
		found := false
		for _, c := range cutset {
			if c == last {
				found = true
				break
			}
		}
		if !found {
			return
		}
		b.runes = b.runes[:len(b.runes)-1]
	}
}

// Reset empties the buffer keeping its capacity.
func (b *Buffer) Reset() {
	b.runes = b.runes[:0]
}
