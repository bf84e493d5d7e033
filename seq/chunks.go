package seq

import "fmt"

// Chunks splits a sequence into ordered slices of up to size elements.
// Only one chunk is materialized at a time: the underlying sequence is
// advanced lazily, per pull.
type Chunks struct {
	src  Seq
	size int
	done bool
}

// ChunksOf returns a chunker over src.
// It panics if size is less than 1.
func ChunksOf(src Seq, size int) *Chunks {
	if size < 1 {
		panic(fmt.Sprintf("seq: invalid chunk size %d", size))
	}
	return &Chunks{src: src, size: size}
}

// Next returns the next chunk.
// Every chunk except the last holds exactly size elements; the last
// holds whatever remains. The ok result is false once src is exhausted.
func (c *Chunks) Next() ([]interface{}, bool) {
	if c.done {
		return nil, false
	}
	chunk := make([]interface{}, 0, c.size)
	for len(chunk) < c.size {
		v, ok := c.src.Next()
		if !ok {
			c.done = true
			break
		}
		chunk = append(chunk, v)
	}
	if len(chunk) == 0 {
		return nil, false
	}
	return chunk, true
}
