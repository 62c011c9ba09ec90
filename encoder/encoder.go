// Package encoder turns tree snapshots into a compact byte stream that an
// external renderer can load, and back.
package encoder

import (
	"encoding/binary"

	"github.com/Yassin1-prog/Bplus-Visualization/btree"
	"github.com/cockroachdb/errors"
	"github.com/golang/snappy"
)

// ErrCorrupt is returned when a payload cannot be decoded.
var ErrCorrupt = errors.New("corrupt snapshot")

const (
	kindInternal byte = iota
	kindLeaf
)

type Encoder struct {
	buf []byte // scratch space reused across calls
}

func NewEncoder() *Encoder {
	return &Encoder{}
}

/*
Encode lays out the snapshot as
numNodes | (level | kind | numKeys | key...)...
with uvarint counts and zigzag varint keys, then snappy-compresses the block.
*/
func (e *Encoder) Encode(views []btree.NodeView[int64]) []byte {
	buf := e.buf[:0]
	buf = binary.AppendUvarint(buf, uint64(len(views)))
	for _, v := range views {
		buf = binary.AppendUvarint(buf, uint64(v.Level))
		if v.Leaf {
			buf = append(buf, kindLeaf)
		} else {
			buf = append(buf, kindInternal)
		}
		buf = binary.AppendUvarint(buf, uint64(len(v.Keys)))
		for _, k := range v.Keys {
			buf = binary.AppendVarint(buf, k)
		}
	}
	e.buf = buf
	return snappy.Encode(nil, buf)
}

// Decode reverses Encode.
func (e *Encoder) Decode(data []byte) ([]btree.NodeView[int64], error) {
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decompress snapshot"), ErrCorrupt)
	}
	r := &reader{buf: raw}

	numNodes := r.uvarint()
	if r.err != nil {
		return nil, r.err
	}
	// a node takes at least three bytes, bound the allocation by the input
	if numNodes > uint64(len(raw)) {
		return nil, errors.Wrapf(ErrCorrupt, "%d nodes in %d bytes", numNodes, len(raw))
	}
	views := make([]btree.NodeView[int64], 0, numNodes)
	for i := uint64(0); i < numNodes; i++ {
		level := r.uvarint()
		kind := r.readByte()
		numKeys := r.uvarint()
		if r.err != nil {
			return nil, errors.Wrapf(r.err, "node %d", i)
		}
		if kind != kindLeaf && kind != kindInternal {
			return nil, errors.Wrapf(ErrCorrupt, "node %d: unknown kind %d", i, kind)
		}
		if numKeys > uint64(len(raw)) {
			return nil, errors.Wrapf(ErrCorrupt, "node %d: %d keys in %d bytes", i, numKeys, len(raw))
		}
		keys := make([]int64, numKeys)
		for j := range keys {
			keys[j] = r.varint()
		}
		if r.err != nil {
			return nil, errors.Wrapf(r.err, "node %d", i)
		}
		views = append(views, btree.NodeView[int64]{
			Level: int(level),
			Leaf:  kind == kindLeaf,
			Keys:  keys,
		})
	}
	if len(r.buf) != 0 {
		return nil, errors.Wrapf(ErrCorrupt, "%d trailing bytes", len(r.buf))
	}
	return views, nil
}

// reader consumes a decoded block and remembers the first failure.
type reader struct {
	buf []byte
	err error
}

func (r *reader) uvarint() uint64 {
	if r.err != nil {
		return 0
	}
	v, n := binary.Uvarint(r.buf)
	if n <= 0 {
		r.err = errors.Wrap(ErrCorrupt, "bad uvarint")
		return 0
	}
	r.buf = r.buf[n:]
	return v
}

func (r *reader) varint() int64 {
	if r.err != nil {
		return 0
	}
	v, n := binary.Varint(r.buf)
	if n <= 0 {
		r.err = errors.Wrap(ErrCorrupt, "bad varint")
		return 0
	}
	r.buf = r.buf[n:]
	return v
}

func (r *reader) readByte() byte {
	if r.err != nil {
		return 0
	}
	if len(r.buf) == 0 {
		r.err = errors.Wrap(ErrCorrupt, "short buffer")
		return 0
	}
	b := r.buf[0]
	r.buf = r.buf[1:]
	return b
}
