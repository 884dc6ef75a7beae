package binary

import (
	"fmt"
	"sort"

	"tablediff/core/diff"

	"github.com/valyala/bytebufferpool"
)

// Row type tags of the wire format.
const (
	rowTypeAdded     byte = 1
	rowTypeRemoved   byte = 2
	rowTypeModified  byte = 3
	rowTypeUnchanged byte = 4
)

// headerSize is the fixed prefix: total, added, removed, modified and
// unchanged counts, one u32 little-endian each.
const headerSize = 20

// Codec encodes and decodes diff results in the compact binary layout used
// to move them across process and storage boundaries. Scratch buffers come
// from a pool the codec owns; every call acquires and releases its buffer
// on all exit paths, so one codec can serve concurrent callers.
//
// The format carries entries and counts only. Dataset metadata, key columns
// and mode travel beside the payload, and word-level spans are recomputed
// after decoding when a consumer needs them.
type Codec struct {
	pool *bytebufferpool.Pool
}

// NewCodec creates a codec with its own buffer pool.
func NewCodec() *Codec {
	return &Codec{pool: new(bytebufferpool.Pool)}
}

// Encode serializes a result. The output is a fresh slice; the pooled
// scratch buffer never escapes.
func (c *Codec) Encode(r *diff.Result) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("cannot encode nil result")
	}

	buf := c.pool.Get()
	defer c.pool.Put(buf)

	total := len(r.Added) + len(r.Removed) + len(r.Modified) + len(r.Unchanged)
	putU32(buf, uint32(total))
	putU32(buf, uint32(len(r.Added)))
	putU32(buf, uint32(len(r.Removed)))
	putU32(buf, uint32(len(r.Modified)))
	putU32(buf, uint32(len(r.Unchanged)))

	for _, e := range r.Added {
		buf.WriteByte(rowTypeAdded)
		putString(buf, e.Key)
		putRow(buf, e.TargetRow)
	}
	for _, e := range r.Removed {
		buf.WriteByte(rowTypeRemoved)
		putString(buf, e.Key)
		putRow(buf, e.SourceRow)
	}
	for _, e := range r.Modified {
		buf.WriteByte(rowTypeModified)
		putString(buf, e.Key)
		putRow(buf, e.SourceRow)
		putRow(buf, e.TargetRow)
		putU32(buf, uint32(len(e.Differences)))
		for _, d := range e.Differences {
			putString(buf, d.Column)
			putString(buf, d.OldValue)
			putString(buf, d.NewValue)
		}
	}
	for _, e := range r.Unchanged {
		buf.WriteByte(rowTypeUnchanged)
		putString(buf, e.Key)
		putRow(buf, e.Row)
	}

	out := make([]byte, buf.Len())
	copy(out, buf.B)
	return out, nil
}

// Decode parses an encoded buffer back into a result. Every read is bounds
// checked; a truncated or corrupt buffer yields a BufferOverflowError or a
// descriptive corruption error, never a partial result.
func (c *Codec) Decode(data []byte) (*diff.Result, error) {
	r := &reader{buf: data}

	total, err := r.u32()
	if err != nil {
		return nil, err
	}
	added, err := r.u32()
	if err != nil {
		return nil, err
	}
	removed, err := r.u32()
	if err != nil {
		return nil, err
	}
	modified, err := r.u32()
	if err != nil {
		return nil, err
	}
	unchanged, err := r.u32()
	if err != nil {
		return nil, err
	}

	if total != added+removed+modified+unchanged {
		return nil, fmt.Errorf("corrupt diff buffer: total %d does not match category counts", total)
	}
	// Every row costs at least a type tag and a key length, so counts that
	// cannot fit in the remaining bytes are corruption, not a big payload.
	if int64(total)*5 > int64(len(data)-headerSize) {
		return nil, fmt.Errorf("corrupt diff buffer: claims %d rows in %d bytes", total, len(data))
	}

	res := &diff.Result{
		Added:           make([]diff.AddedEntry, 0, added),
		Removed:         make([]diff.RemovedEntry, 0, removed),
		Modified:        make([]diff.ModifiedEntry, 0, modified),
		Unchanged:       make([]diff.UnchangedEntry, 0, unchanged),
		KeyColumns:      []string{},
		ExcludedColumns: []string{},
	}

	for i := uint32(0); i < added; i++ {
		if err := r.expectType(rowTypeAdded); err != nil {
			return nil, err
		}
		key, err := r.str()
		if err != nil {
			return nil, err
		}
		row, err := r.row()
		if err != nil {
			return nil, err
		}
		res.Added = append(res.Added, diff.AddedEntry{Key: key, TargetRow: row})
	}

	for i := uint32(0); i < removed; i++ {
		if err := r.expectType(rowTypeRemoved); err != nil {
			return nil, err
		}
		key, err := r.str()
		if err != nil {
			return nil, err
		}
		row, err := r.row()
		if err != nil {
			return nil, err
		}
		res.Removed = append(res.Removed, diff.RemovedEntry{Key: key, SourceRow: row})
	}

	for i := uint32(0); i < modified; i++ {
		if err := r.expectType(rowTypeModified); err != nil {
			return nil, err
		}
		key, err := r.str()
		if err != nil {
			return nil, err
		}
		srcRow, err := r.row()
		if err != nil {
			return nil, err
		}
		tgtRow, err := r.row()
		if err != nil {
			return nil, err
		}
		diffCount, err := r.u32()
		if err != nil {
			return nil, err
		}
		diffs := make([]diff.Difference, 0, min(int(diffCount), len(data)))
		for j := uint32(0); j < diffCount; j++ {
			column, err := r.str()
			if err != nil {
				return nil, err
			}
			oldVal, err := r.str()
			if err != nil {
				return nil, err
			}
			newVal, err := r.str()
			if err != nil {
				return nil, err
			}
			diffs = append(diffs, diff.Difference{Column: column, OldValue: oldVal, NewValue: newVal})
		}
		res.Modified = append(res.Modified, diff.ModifiedEntry{
			Key:         key,
			SourceRow:   srcRow,
			TargetRow:   tgtRow,
			Differences: diffs,
		})
	}

	for i := uint32(0); i < unchanged; i++ {
		if err := r.expectType(rowTypeUnchanged); err != nil {
			return nil, err
		}
		key, err := r.str()
		if err != nil {
			return nil, err
		}
		row, err := r.row()
		if err != nil {
			return nil, err
		}
		res.Unchanged = append(res.Unchanged, diff.UnchangedEntry{Key: key, Row: row})
	}

	if r.off != len(data) {
		return nil, fmt.Errorf("corrupt diff buffer: %d trailing bytes", len(data)-r.off)
	}
	return res, nil
}

// putU32 appends v in little-endian order.
func putU32(buf *bytebufferpool.ByteBuffer, v uint32) {
	buf.Write([]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)})
}

// putString appends a u32 byte length followed by the UTF-8 bytes.
func putString(buf *bytebufferpool.ByteBuffer, s string) {
	putU32(buf, uint32(len(s)))
	buf.WriteString(s)
}

// putRow appends a field count followed by column/value string pairs.
// Columns are written in sorted name order so equal rows always encode to
// equal bytes.
func putRow(buf *bytebufferpool.ByteBuffer, row map[string]string) {
	putU32(buf, uint32(len(row)))
	cols := make([]string, 0, len(row))
	for col := range row {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	for _, col := range cols {
		putString(buf, col)
		putString(buf, row[col])
	}
}

// reader is a bounds-checked cursor over an encoded buffer.
type reader struct {
	buf []byte
	off int
}

func (r *reader) require(n int) error {
	if n < 0 || r.off+n > len(r.buf) {
		return &BufferOverflowError{Offset: r.off, Need: n, Have: len(r.buf) - r.off}
	}
	return nil
}

func (r *reader) u8() (byte, error) {
	if err := r.require(1); err != nil {
		return 0, err
	}
	b := r.buf[r.off]
	r.off++
	return b, nil
}

func (r *reader) u32() (uint32, error) {
	if err := r.require(4); err != nil {
		return 0, err
	}
	b := r.buf[r.off:]
	v := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	r.off += 4
	return v, nil
}

func (r *reader) str() (string, error) {
	n, err := r.u32()
	if err != nil {
		return "", err
	}
	if err := r.require(int(n)); err != nil {
		return "", err
	}
	s := string(r.buf[r.off : r.off+int(n)])
	r.off += int(n)
	return s, nil
}

func (r *reader) row() (map[string]string, error) {
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	row := make(map[string]string, min(int(n), len(r.buf)))
	for i := uint32(0); i < n; i++ {
		col, err := r.str()
		if err != nil {
			return nil, err
		}
		val, err := r.str()
		if err != nil {
			return nil, err
		}
		row[col] = val
	}
	return row, nil
}

func (r *reader) expectType(want byte) error {
	got, err := r.u8()
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("corrupt diff buffer: row type %d at offset %d, expected %d", got, r.off-1, want)
	}
	return nil
}
