package entry

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"hash/crc32"

	"github.com/pluglog/pluglog/pkg/id"
)

// Record encoding: varint headerLen | header JSON | message | crc32c(header|message)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// ErrCorruptRecord reports a record that failed checksum or header decoding.
var ErrCorruptRecord = errors.New("entry: corrupt record")

// Header carries the structured part of an entry record.
type Header struct {
	Tenant   string `json:"tenant"`
	Severity int    `json:"severity"`
	TsMs     int64  `json:"tsMs"`
}

// Entry is a decoded log entry.
type Entry struct {
	ID       id.ID
	Doc      id.ID
	Tenant   string
	Severity int
	TsMs     int64
	Message  string
}

// EncodeRecord frames a header and message into the stored record form.
func EncodeRecord(h Header, message string) ([]byte, error) {
	header, err := json.Marshal(h)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, 10+len(header)+len(message)+4)
	var tmp [10]byte
	n := binary.PutUvarint(tmp[:], uint64(len(header)))
	out = append(out, tmp[:n]...)
	out = append(out, header...)
	out = append(out, message...)

	crc := crc32.Update(0, castagnoli, header)
	crc = crc32.Update(crc, castagnoli, []byte(message))
	var crcb [4]byte
	binary.BigEndian.PutUint32(crcb[:], crc)
	out = append(out, crcb[:]...)
	return out, nil
}

// DecodeRecord verifies and splits a stored record back into header and message.
func DecodeRecord(b []byte) (Header, string, error) {
	if len(b) < 1+4 {
		return Header{}, "", ErrCorruptRecord
	}
	hlen, n := binary.Uvarint(b)
	if n <= 0 || n+int(hlen)+4 > len(b) {
		return Header{}, "", ErrCorruptRecord
	}
	rawHeader := b[n : n+int(hlen)]
	message := b[n+int(hlen) : len(b)-4]
	expect := binary.BigEndian.Uint32(b[len(b)-4:])
	crc := crc32.Update(0, castagnoli, rawHeader)
	crc = crc32.Update(crc, castagnoli, message)
	if crc != expect {
		return Header{}, "", ErrCorruptRecord
	}
	var h Header
	if err := json.Unmarshal(rawHeader, &h); err != nil {
		return Header{}, "", ErrCorruptRecord
	}
	return h, string(message), nil
}
