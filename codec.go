package htdb

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// Snapshot format: a length-prefixed map of <partition key blob><Pages>,
// where Pages is a length-prefixed sequence of <range_start blob>
// <range_end blob><u64 entry count><entry>*, and each entry is
// <key blob><value blob>. Every blob is CBOR-encoded (to cover the fully
// opaque, generic H/K/V types) and framed with a little-endian u64 length
// prefix applied uniformly to every variable-width byte sequence.
// Configuration is never part of the stream.

func writeU64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func readU64(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint64(b[:]), nil
}

func encodeBlob(buf *bytes.Buffer, v any) error {
	data, err := cbor.Marshal(v)
	if err != nil {
		return err
	}

	writeU64(buf, uint64(len(data)))
	buf.Write(data)

	return nil
}

func decodeBlob(r io.Reader, out any) error {
	n, err := readU64(r)
	if err != nil {
		return err
	}

	data := make([]byte, n)
	if _, err := io.ReadFull(r, data); err != nil {
		return err
	}

	return cbor.Unmarshal(data, out)
}

// encodeSnapshot serializes the whole partition map to a single byte
// stream.
func encodeSnapshot[H comparable, K any, V any](m *partitionMap[H, K, V]) ([]byte, error) {
	buf := new(bytes.Buffer)

	writeU64(buf, uint64(len(m.inner)))

	for hash, pages := range m.inner {
		if err := encodeBlob(buf, hash); err != nil {
			return nil, err
		}

		writeU64(buf, uint64(len(pages.pages)))

		for _, page := range pages.pages {
			if err := encodeBlob(buf, page.rangeStart); err != nil {
				return nil, err
			}

			if err := encodeBlob(buf, page.rangeEnd); err != nil {
				return nil, err
			}

			writeU64(buf, uint64(len(page.tree)))

			for _, e := range page.tree {
				if err := encodeBlob(buf, e.key); err != nil {
					return nil, err
				}

				if err := encodeBlob(buf, e.value); err != nil {
					return nil, err
				}
			}
		}
	}

	return buf.Bytes(), nil
}

// decodeSnapshot deserializes a byte stream produced by encodeSnapshot
// into a fresh partitionMap, reattaching cfg/cmp (never part of the
// stream).
func decodeSnapshot[H comparable, K any, V any](data []byte, cfg *Config, cmp Compare[K]) (*partitionMap[H, K, V], error) {
	r := bytes.NewReader(data)

	partitionCount, err := readU64(r)
	if err != nil {
		return nil, err
	}

	m := newPartitionMap[H, K, V](cfg, cmp)

	for i := uint64(0); i < partitionCount; i++ {
		var hash H
		if err := decodeBlob(r, &hash); err != nil {
			return nil, err
		}

		pageCount, err := readU64(r)
		if err != nil {
			return nil, err
		}

		pages := newPages[K, V](cfg, cmp)
		pages.pages = make([]*Page[K, V], 0, pageCount)

		for j := uint64(0); j < pageCount; j++ {
			var rangeStart, rangeEnd K

			if err := decodeBlob(r, &rangeStart); err != nil {
				return nil, err
			}

			if err := decodeBlob(r, &rangeEnd); err != nil {
				return nil, err
			}

			entryCount, err := readU64(r)
			if err != nil {
				return nil, err
			}

			tree := make([]entry[K, V], 0, entryCount)

			for k := uint64(0); k < entryCount; k++ {
				var key K
				var value V

				if err := decodeBlob(r, &key); err != nil {
					return nil, err
				}

				if err := decodeBlob(r, &value); err != nil {
					return nil, err
				}

				tree = append(tree, entry[K, V]{key: key, value: value})
			}

			pages.pages = append(pages.pages, &Page[K, V]{
				cmp:        cmp,
				rangeStart: rangeStart,
				rangeEnd:   rangeEnd,
				tree:       tree,
			})
		}

		m.inner[hash] = pages
	}

	return m, nil
}
