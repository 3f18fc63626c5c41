package span

import (
	"errors"
	"slices"
	"testing"
	"unsafe"

	aismerrors "github.com/tamirms/aismmf/errors"
)

type pair struct {
	A int64
	B int64
}

// alignedBytes returns n bytes backed by []uint64, so the first byte is
// 8-byte aligned regardless of allocator behaviour.
func alignedBytes(n int) []byte {
	words := make([]uint64, (n+7)/8+1)
	return unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), n)
}

func TestNew(t *testing.T) {
	vals := []int64{1, 2, 3}

	s, err := New(&vals[0], len(vals))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Len() != 3 || s.ByteLen() != 24 {
		t.Fatalf("Len=%d ByteLen=%d, want 3/24", s.Len(), s.ByteLen())
	}
	if !slices.Equal(s.Slice(), vals) {
		t.Errorf("Slice() = %v, want %v", s.Slice(), vals)
	}

	if _, err := New(&vals[0], -1); !errors.Is(err, aismerrors.ErrRange) {
		t.Errorf("negative length: got %v, want ErrRange", err)
	}
	if _, err := New[int64](nil, 1); !errors.Is(err, aismerrors.ErrRange) {
		t.Errorf("nil pointer: got %v, want ErrRange", err)
	}
	empty, err := New[int64](nil, 0)
	if err != nil || empty.Len() != 0 {
		t.Errorf("nil pointer, zero length: got %v, len %d", err, empty.Len())
	}
}

func TestNewMisaligned(t *testing.T) {
	buf := alignedBytes(32)
	ptr := (*int64)(unsafe.Pointer(&buf[1]))
	if _, err := New(ptr, 1); !errors.Is(err, aismerrors.ErrAlignment) {
		t.Fatalf("got %v, want ErrAlignment", err)
	}
}

func TestSubspan(t *testing.T) {
	s := Of([]int32{10, 11, 12, 13, 14})

	tests := []struct {
		name           string
		offset, length int
		want           []int32
		wantErr        bool
	}{
		{"whole", 0, 5, []int32{10, 11, 12, 13, 14}, false},
		{"middle", 1, 3, []int32{11, 12, 13}, false},
		{"last", 4, 1, []int32{14}, false},
		{"empty inside", 2, 0, []int32{}, false},
		{"offset at end", 5, 0, nil, true},
		{"offset past end", 6, 0, nil, true},
		{"runs off end", 3, 3, nil, true},
		{"negative offset", -1, 1, nil, true},
		{"negative length", 1, -1, nil, true},
		{"overflowing length", 1, int(^uint(0) >> 1), nil, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sub, err := s.Subspan(tc.offset, tc.length)
			if tc.wantErr {
				if !errors.Is(err, aismerrors.ErrRange) {
					t.Fatalf("got %v, want ErrRange", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Subspan: %v", err)
			}
			if !slices.Equal(sub.Slice(), tc.want) {
				t.Errorf("got %v, want %v", sub.Slice(), tc.want)
			}
		})
	}
}

func TestSubspanSharesMemory(t *testing.T) {
	backing := []int32{1, 2, 3, 4}
	sub, err := Of(backing).Subspan(1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if &sub.Slice()[0] != &backing[1] {
		t.Error("subspan copied its elements")
	}
	// capacity is clipped, appending must not clobber backing[3]
	_ = append(sub.Slice(), 99)
	if backing[3] != 4 {
		t.Errorf("append through subspan wrote into parent: %v", backing)
	}
}

func TestReinterpret(t *testing.T) {
	buf := alignedBytes(32)
	for i := range buf {
		buf[i] = byte(i)
	}
	bytes := OfBytes(buf)

	words, err := Reinterpret[uint64](bytes)
	if err != nil {
		t.Fatalf("Reinterpret[uint64]: %v", err)
	}
	if words.Len() != 4 {
		t.Fatalf("Len = %d, want 4", words.Len())
	}
	if unsafe.Pointer(&words.Slice()[0]) != unsafe.Pointer(&buf[0]) {
		t.Error("reinterpret copied its bytes")
	}

	pairs, err := Reinterpret[pair](words)
	if err != nil {
		t.Fatalf("Reinterpret[pair]: %v", err)
	}
	if pairs.Len() != 2 {
		t.Fatalf("Len = %d, want 2", pairs.Len())
	}

	back, err := Reinterpret[byte](pairs)
	if err != nil {
		t.Fatalf("Reinterpret[byte]: %v", err)
	}
	if !slices.Equal(back.Slice(), buf) {
		t.Error("round trip through pair changed bytes")
	}
}

func TestReinterpretSizeMismatch(t *testing.T) {
	bytes := OfBytes(alignedBytes(12))
	if _, err := Reinterpret[uint64](bytes); !errors.Is(err, aismerrors.ErrSizeMismatch) {
		t.Fatalf("got %v, want ErrSizeMismatch", err)
	}
	if _, err := Reinterpret[struct{}](bytes); !errors.Is(err, aismerrors.ErrSizeMismatch) {
		t.Fatalf("zero-sized target: got %v, want ErrSizeMismatch", err)
	}
}

func TestReinterpretMisaligned(t *testing.T) {
	bytes := OfBytes(alignedBytes(32))
	// 16 bytes at offset 4: size fits uint64 but the start is only 4-aligned
	sub, err := bytes.Subspan(4, 16)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Reinterpret[uint64](sub); !errors.Is(err, aismerrors.ErrAlignment) {
		t.Fatalf("got %v, want ErrAlignment", err)
	}
	// uint32 only needs 4-byte alignment
	if u32, err := Reinterpret[uint32](sub); err != nil || u32.Len() != 4 {
		t.Fatalf("Reinterpret[uint32]: len %d, err %v", u32.Len(), err)
	}
}

func TestReinterpretEmpty(t *testing.T) {
	var s Span[byte]
	out, err := Reinterpret[uint64](s)
	if err != nil || out.Len() != 0 {
		t.Fatalf("got len %d, err %v", out.Len(), err)
	}
}

func TestIteration(t *testing.T) {
	s := Of([]float32{1.5, 2.5, 3.5})

	var idx []int
	var vals []float32
	for i, v := range s.All() {
		idx = append(idx, i)
		vals = append(vals, v)
	}
	if !slices.Equal(idx, []int{0, 1, 2}) || !slices.Equal(vals, s.Slice()) {
		t.Errorf("All() yielded %v %v", idx, vals)
	}

	if got := slices.Collect(s.Values()); !slices.Equal(got, s.Slice()) {
		t.Errorf("Values() = %v", got)
	}

	// early break stops the iterator
	n := 0
	for range s.Values() {
		n++
		break
	}
	if n != 1 {
		t.Errorf("break visited %d elements", n)
	}
}

func TestBytes(t *testing.T) {
	s := Of([]uint32{0x01020304})
	b := s.Bytes()
	if b.Len() != 4 {
		t.Fatalf("Len = %d, want 4", b.Len())
	}
	if (Span[uint32]{}).Bytes().Len() != 0 {
		t.Error("empty span has bytes")
	}
}

// TestSliceIsClipped checks that the slice handed out by every constructor
// has no spare capacity, so append never writes beyond the span.
func TestSliceIsClipped(t *testing.T) {
	backing := make([]int32, 4, 16)
	words := make([]uint64, 4)

	fromNew, err := New(&words[0], 2)
	if err != nil {
		t.Fatal(err)
	}
	fromBytes, err := Reinterpret[uint64](OfBytes(alignedBytes(32)))
	if err != nil {
		t.Fatal(err)
	}

	for name, s := range map[string][]int32{"Of": Of(backing).Slice()} {
		if cap(s) != len(s) {
			t.Errorf("%s: cap %d, len %d", name, cap(s), len(s))
		}
	}
	for name, s := range map[string][]uint64{"New": fromNew.Slice(), "Reinterpret": fromBytes.Slice()} {
		if cap(s) != len(s) {
			t.Errorf("%s: cap %d, len %d", name, cap(s), len(s))
		}
	}

	// A clone is the supported way to get writable records.
	clone := slices.Clone(fromNew.Slice())
	clone[0] = 42
	if words[0] != 0 {
		t.Errorf("writing a clone changed the span's memory: %v", words)
	}
}
