package chunk

import (
	"encoding/binary"
	"hash/fnv"
)

// ID derives a stable chunk_id from (workspace-relative path, start_line,
// end_line): regenerating the same chunk for the same file always yields
// the same ID.
func ID(path string, startLine, endLine int) uint64 {
	h := fnv.New64a()
	h.Write([]byte(path))
	h.Write([]byte{0})
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(int64(startLine)))
	h.Write(buf[:])
	binary.BigEndian.PutUint64(buf[:], uint64(int64(endLine)))
	h.Write(buf[:])
	return h.Sum64()
}
