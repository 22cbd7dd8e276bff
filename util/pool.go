package util

import "sync"

// DefaultBufSize is the standard buffer size for relay I/O (32 KiB).
const DefaultBufSize = 32 * 1024

// bufPool recycles copy buffers across relay directions.
var bufPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, DefaultBufSize)
		return &b
	},
}

// GetBuffer borrows a DefaultBufSize buffer from the pool.
func GetBuffer() *[]byte { return bufPool.Get().(*[]byte) }

// PutBuffer returns a buffer obtained from GetBuffer.
func PutBuffer(b *[]byte) { bufPool.Put(b) }
