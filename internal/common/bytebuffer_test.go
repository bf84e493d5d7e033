package common_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lapwatch/lapwatch-go/internal/common"
)

func TestByteBuff_Bytes(t *testing.T) {
	data := []byte("foobar")
	b := common.BorrowByteBuffer()
	defer common.ReturnByteBuffer(b)
	wrote, err := b.Write(data)
	assert.NoError(t, err, "write failed")
	assert.Equal(t, len(data), wrote, "wrong wrote size")
	assert.Equal(t, data, b.Bytes(), "wrong data")
}

func TestByteBuff_Len(t *testing.T) {
	b := common.BorrowByteBuffer()
	defer common.ReturnByteBuffer(b)
	// 1+6+3
	_ = b.WriteByte('[')
	_, _ = b.WriteString("0:00:01")
	_, _ = b.Write([]byte("] x"))
	assert.Equal(t, 11, b.Len(), "wrong length")
}

func TestByteBuff_String(t *testing.T) {
	b := common.BorrowByteBuffer()
	defer common.ReturnByteBuffer(b)
	_, _ = b.WriteString("lap ")
	_, _ = b.WriteString("time")
	assert.Equal(t, "lap time", b.String(), "wrong string")
}

func TestByteBuff_WriteTo(t *testing.T) {
	b := common.BorrowByteBuffer()
	defer common.ReturnByteBuffer(b)
	_, _ = b.WriteString("report line\n")
	var sink bytes.Buffer
	n, err := b.WriteTo(&sink)
	assert.NoError(t, err, "WriteTo failed")
	assert.Equal(t, len("report line\n"), int(n), "wrong length")
	assert.Equal(t, "report line\n", sink.String(), "wrong sink content")
}

func TestByteBuff_Reset(t *testing.T) {
	b := common.BorrowByteBuffer()
	defer common.ReturnByteBuffer(b)
	_, _ = b.WriteString("stale")
	b.Reset()
	assert.Equal(t, 0, b.Len(), "reset should empty the buffer")
}
