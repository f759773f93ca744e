package badger

import (
	"encoding/binary"
)

// Key prefixes for different data types.
const (
	recordPrefix      = "rec:"
	resourceIdxPrefix = "res:"
	recordSeqKey      = "recseq"
)

// makeRecordKey generates the primary key of a record.
// Format: prefix + big-endian seq, so lexicographic order is insertion order.
func makeRecordKey(seq uint64) []byte {
	buf := make([]byte, len(recordPrefix)+8)
	offset := copy(buf, recordPrefix)
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// makeResourcePrefix generates the index prefix for one resource.
// Format: prefix + type + 0x00 + id + 0x00
func makeResourcePrefix(resourceType, resourceID string) []byte {
	buf := make([]byte, 0, len(resourceIdxPrefix)+len(resourceType)+len(resourceID)+2)
	buf = append(buf, resourceIdxPrefix...)
	buf = append(buf, resourceType...)
	buf = append(buf, 0)
	buf = append(buf, resourceID...)
	buf = append(buf, 0)
	return buf
}

// makeResourceKey generates an index entry pointing at a record seq.
func makeResourceKey(resourceType, resourceID string, seq uint64) []byte {
	buf := makeResourcePrefix(resourceType, resourceID)
	return binary.BigEndian.AppendUint64(buf, seq)
}

// seqFromResourceKey extracts the record seq from an index key.
func seqFromResourceKey(key []byte) uint64 {
	if len(key) < 8 {
		return 0
	}
	return binary.BigEndian.Uint64(key[len(key)-8:])
}
