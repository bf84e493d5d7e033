// Package seq provides minimal pull-based sequences.
// A sequence is single-consumer and advances only when Next is called,
// so producers never run concurrently with consumer code.
package seq

type (
	// Seq is a pull-based sequence of elements.
	// Next returns the next element in order.
	// The ok result is false once the sequence is exhausted.
	Seq interface {
		Next() (elem interface{}, ok bool)
	}

	// Sized is an optional interface for sequences which know
	// how many elements remain.
	Sized interface {
		Len() int
	}

	// Func is an adapter allowing a plain function to act as a Seq.
	Func func() (interface{}, bool)
)

// Next calls f.
func (f Func) Next() (interface{}, bool) {
	return f()
}

type sliceSeq struct {
	values []interface{}
	cursor int
}

func (s *sliceSeq) Next() (interface{}, bool) {
	if s.cursor >= len(s.values) {
		return nil, false
	}
	v := s.values[s.cursor]
	s.cursor++
	return v, true
}

func (s *sliceSeq) Len() int {
	return len(s.values) - s.cursor
}

// Of returns a finite sequence over the given values.
func Of(values ...interface{}) Seq {
	return &sliceSeq{values: values}
}

// FromSlice returns a finite sequence over values.
// The slice is not copied: the caller must not modify it while iterating.
func FromSlice(values []interface{}) Seq {
	return &sliceSeq{values: values}
}

type chanSeq struct {
	ch <-chan interface{}
}

func (c chanSeq) Next() (interface{}, bool) {
	v, ok := <-c.ch
	return v, ok
}

// FromChan returns a sequence which receives from ch until it is closed.
func FromChan(ch <-chan interface{}) Seq {
	return chanSeq{ch: ch}
}

type intsSeq struct {
	next int
}

func (s *intsSeq) Next() (interface{}, bool) {
	v := s.next
	s.next++
	return v, true
}

// Ints returns the infinite sequence 0, 1, 2, ...
func Ints() Seq {
	return &intsSeq{}
}

type takeSeq struct {
	src  Seq
	left int
}

func (s *takeSeq) Next() (interface{}, bool) {
	if s.left < 1 {
		return nil, false
	}
	v, ok := s.src.Next()
	if !ok {
		s.left = 0
		return nil, false
	}
	s.left--
	return v, true
}

// Len reports the remaining element count, assuming the underlying
// sequence can supply that many.
func (s *takeSeq) Len() int {
	if sized, ok := s.src.(Sized); ok && sized.Len() < s.left {
		return sized.Len()
	}
	return s.left
}

// Take returns a sequence yielding at most n elements of src.
func Take(src Seq, n int) Seq {
	if n < 0 {
		n = 0
	}
	return &takeSeq{src: src, left: n}
}

// Collect drains src and returns its elements.
// It never returns when src is infinite.
func Collect(src Seq) []interface{} {
	var all []interface{}
	for {
		v, ok := src.Next()
		if !ok {
			return all
		}
		all = append(all, v)
	}
}
