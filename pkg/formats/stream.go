package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/Faultbox/saio/pkg/encoding"
	"github.com/Faultbox/saio/pkg/math"
)

// Sanity limits for counts read from a file.
const (
	maxElementCount = 1 << 20
	maxNodeDepth    = 256
)

// reader wraps a byte reader and remembers the first error, so a sequence
// of reads can be checked once.
type reader struct {
	r   *bytes.Reader
	err error
}

func newReader(data []byte) *reader {
	return &reader{r: bytes.NewReader(data)}
}

func (r *reader) read(v any) {
	if r.err != nil {
		return
	}
	if err := binary.Read(r.r, binary.LittleEndian, v); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			err = ErrTruncatedData
		}
		r.err = err
	}
}

func (r *reader) u8() uint8 {
	var v uint8
	r.read(&v)
	return v
}

func (r *reader) u16() uint16 {
	var v uint16
	r.read(&v)
	return v
}

func (r *reader) u32() uint32 {
	var v uint32
	r.read(&v)
	return v
}

func (r *reader) i32() int32 {
	var v int32
	r.read(&v)
	return v
}

func (r *reader) u64() uint64 {
	var v uint64
	r.read(&v)
	return v
}

func (r *reader) f32() float32 {
	var v float32
	r.read(&v)
	return v
}

func (r *reader) vec3() math.Vec3 {
	var v [3]float32
	r.read(&v)
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// count reads an element count and checks it against the sanity limit.
func (r *reader) count(what string) int {
	n := r.u32()
	if r.err == nil && n > maxElementCount {
		r.err = fmt.Errorf("%w: %d %s", ErrInvalidCount, n, what)
	}
	if r.err != nil {
		return 0
	}
	return int(n)
}

// cstring reads a null-terminated Shift-JIS string.
func (r *reader) cstring() string {
	if r.err != nil {
		return ""
	}
	var buf []byte
	for {
		b, err := r.r.ReadByte()
		if err != nil {
			r.err = ErrTruncatedData
			return ""
		}
		if b == 0 {
			break
		}
		buf = append(buf, b)
	}
	return encoding.ShiftJISToUTF8(buf)
}

// magic reads and checks the 4-byte magic and the version byte.
func (r *reader) magic(want string, version uint8) {
	if r.r.Len() < len(want)+1 {
		r.err = ErrTruncatedData
		return
	}
	got := make([]byte, len(want))
	r.read(got)
	if r.err == nil && string(got) != want {
		r.err = fmt.Errorf("%w: expected %q, got %q", ErrInvalidMagic, want, got)
		return
	}
	if v := r.u8(); r.err == nil && v != version {
		r.err = fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}
}

// writer accumulates little-endian output. Writes to a bytes.Buffer never
// fail, so no error is tracked.
type writer struct {
	buf bytes.Buffer
}

func (w *writer) write(v any) {
	_ = binary.Write(&w.buf, binary.LittleEndian, v)
}

func (w *writer) u8(v uint8) { w.write(v) }
func (w *writer) u16(v uint16) { w.write(v) }
func (w *writer) u32(v uint32) { w.write(v) }
func (w *writer) i32(v int32) { w.write(v) }
func (w *writer) u64(v uint64) { w.write(v) }
func (w *writer) f32(v float32) { w.write(v) }
func (w *writer) count(n int) { w.u32(uint32(n)) }
func (w *writer) cstring(s string) { w.buf.Write(encoding.CString(s)) }

func (w *writer) vec3(v math.Vec3) {
	w.write([3]float32{v.X, v.Y, v.Z})
}

func (w *writer) magic(magic string, version uint8) {
	w.buf.WriteString(magic)
	w.u8(version)
}

func (w *writer) bytes() []byte {
	return w.buf.Bytes()
}
