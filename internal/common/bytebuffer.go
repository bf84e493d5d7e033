// Package common holds small helpers shared across the library.
package common

import (
	"io"

	"github.com/valyala/bytebufferpool"
)

var bPool bytebufferpool.Pool

// ByteBuff is a pooled byte buffer used for assembling output lines.
type ByteBuff bytebufferpool.ByteBuffer

// Len returns size of ByteBuff.
func (p *ByteBuff) Len() (n int) {
	if p != nil {
		n = p.bb().Len()
	}
	return
}

// WriteTo write bytes to writer.
func (p *ByteBuff) WriteTo(w io.Writer) (n int64, err error) {
	return p.bb().WriteTo(w)
}

// Write write bytes to current ByteBuff.
func (p *ByteBuff) Write(bs []byte) (n int, err error) {
	return p.bb().Write(bs)
}

// WriteString write a string to current ByteBuff.
func (p *ByteBuff) WriteString(s string) (n int, err error) {
	return p.bb().WriteString(s)
}

// WriteByte write a byte to current ByteBuff.
func (p *ByteBuff) WriteByte(b byte) error {
	return p.bb().WriteByte(b)
}

// Reset clean all bytes.
func (p *ByteBuff) Reset() {
	p.bb().Reset()
}

// Bytes returns all bytes in ByteBuff.
func (p *ByteBuff) Bytes() []byte {
	if p.bb() == nil {
		return nil
	}
	return p.bb().B
}

// String returns buffered bytes as string.
func (p *ByteBuff) String() string {
	return p.bb().String()
}

func (p *ByteBuff) bb() *bytebufferpool.ByteBuffer {
	return (*bytebufferpool.ByteBuffer)(p)
}

// BorrowByteBuffer borrows a ByteBuff from pool.
func BorrowByteBuffer() *ByteBuff {
	return (*ByteBuff)(bPool.Get())
}

// ReturnByteBuffer returns a ByteBuff to pool.
func ReturnByteBuffer(b *ByteBuff) {
	bPool.Put((*bytebufferpool.ByteBuffer)(b))
}
