package model

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"os"
	"unsafe"

	"taro_model/pkg/idmap"
)

const (
	magicBytes = "TAROMODL"
	version    = uint32(1)

	maxNodes     = 10_000_000
	maxEdges     = 50_000_000
	maxLandmarks = 256
)

// Id-mapping variants in the serialized header.
const (
	mappingNone   = uint32(0)
	mappingString = uint32(1)
	mappingSorted = uint32(2)
)

// headerSize is the fixed prefix: 8-byte magic plus seven uint32 fields.
// 36 bytes, padded to 40 so the first array section is 8-aligned.
const headerSize = 40

// Marshal serializes a model into one contiguous, self-describing buffer.
// All array sections are written back to back after the header, with
// lengths derivable from the header counts, so Open can map every array
// without scanning.
func Marshal(m *Model) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	t := m.Topology
	if t.NumNodes > maxNodes {
		return nil, fmt.Errorf("node count %d exceeds limit %d", t.NumNodes, maxNodes)
	}
	if t.NumEdges > maxEdges {
		return nil, fmt.Errorf("edge count %d exceeds limit %d", t.NumEdges, maxEdges)
	}

	mappingKind, mappingLen := mappingNone, uint32(0)
	var stringBlobLen int
	switch {
	case m.Mapping != nil:
		mappingKind = mappingString
		mappingLen = uint32(m.Mapping.Size())
		for i := 0; i < m.Mapping.Size(); i++ {
			stringBlobLen += len(m.Mapping.External(i))
		}
	case m.SortedIDs != nil:
		mappingKind = mappingSorted
		mappingLen = uint32(m.SortedIDs.Len())
	}

	numLandmarks := 0
	if m.Landmarks != nil {
		numLandmarks = m.Landmarks.Count()
	}
	if numLandmarks > maxLandmarks {
		return nil, fmt.Errorf("landmark count %d exceeds limit %d", numLandmarks, maxLandmarks)
	}
	numTurnCosts := 0
	if m.TurnCosts != nil {
		numTurnCosts = m.TurnCosts.Len()
	}

	size := headerSize
	size += (int(t.NumNodes) + 1) * 4              // FirstEdge
	size += int(t.NumEdges) * 4 * 2                // EdgeTarget + BaseWeight
	size += int(t.NumNodes) * 4 * 2                // NodeLat + NodeLon
	switch mappingKind {
	case mappingSorted:
		size = align8(size)
		size += int(mappingLen) * 8
	case mappingString:
		size += (int(mappingLen) + 1) * 4 // offsets
		size += align4(stringBlobLen)     // blob, padded for what follows
	}
	size += numLandmarks * (4 + int(t.NumNodes)*4*2)
	size += numTurnCosts * 12 // from + to + penalty, SoA

	buf := make([]byte, size)
	copy(buf[0:8], magicBytes)
	binary.LittleEndian.PutUint32(buf[8:], version)
	binary.LittleEndian.PutUint32(buf[12:], t.NumNodes)
	binary.LittleEndian.PutUint32(buf[16:], t.NumEdges)
	binary.LittleEndian.PutUint32(buf[20:], mappingKind)
	binary.LittleEndian.PutUint32(buf[24:], mappingLen)
	binary.LittleEndian.PutUint32(buf[28:], uint32(numLandmarks))
	binary.LittleEndian.PutUint32(buf[32:], uint32(numTurnCosts))

	w := writer{buf: buf, off: headerSize}
	w.putUint32s(t.FirstEdge)
	w.putUint32s(t.EdgeTarget)
	w.putFloat32s(t.BaseWeight)
	w.putFloat32s(t.NodeLat)
	w.putFloat32s(t.NodeLon)

	switch mappingKind {
	case mappingSorted:
		w.off = align8(w.off)
		w.putInt64s(m.SortedIDs.ExternalIDs())
	case mappingString:
		offsets := make([]uint32, mappingLen+1)
		var total uint32
		for i := 0; i < int(mappingLen); i++ {
			offsets[i] = total
			total += uint32(len(m.Mapping.External(i)))
		}
		offsets[mappingLen] = total
		w.putUint32s(offsets)
		for i := 0; i < int(mappingLen); i++ {
			w.putBytes([]byte(m.Mapping.External(i)))
		}
		w.off = align4(w.off)
	}

	for i := 0; i < numLandmarks; i++ {
		lm := m.Landmarks.landmarkAt(i)
		w.putUint32s([]uint32{lm.NodeIdx})
		w.putFloat32s(lm.Forward)
		w.putFloat32s(lm.Backward)
	}

	if numTurnCosts > 0 {
		entries := m.TurnCosts.Entries()
		from := make([]uint32, numTurnCosts)
		to := make([]uint32, numTurnCosts)
		penalty := make([]float32, numTurnCosts)
		for i, e := range entries {
			from[i], to[i], penalty[i] = e.FromEdge, e.ToEdge, e.Penalty
		}
		w.putUint32s(from)
		w.putUint32s(to)
		w.putFloat32s(penalty)
	}

	if w.off != len(buf) {
		return nil, fmt.Errorf("internal size mismatch: wrote %d of %d bytes", w.off, len(buf))
	}
	return buf, nil
}

// Open reconstructs a read-only model over buf. Fixed-width arrays are
// aliased directly into the buffer with no copying, so buf must stay alive
// and unmodified for as long as the model is in use. Structural invariants
// are validated; a violation yields an error wrapping ErrCorrupt.
func Open(buf []byte) (*Model, error) {
	if len(buf) < headerSize {
		return nil, fmt.Errorf("%w: buffer too small (%d bytes)", ErrCorrupt, len(buf))
	}
	if string(buf[0:8]) != magicBytes {
		return nil, fmt.Errorf("%w: invalid magic bytes %q", ErrCorrupt, buf[0:8])
	}
	if v := binary.LittleEndian.Uint32(buf[8:]); v != version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, v)
	}
	numNodes := binary.LittleEndian.Uint32(buf[12:])
	numEdges := binary.LittleEndian.Uint32(buf[16:])
	mappingKind := binary.LittleEndian.Uint32(buf[20:])
	mappingLen := binary.LittleEndian.Uint32(buf[24:])
	numLandmarks := binary.LittleEndian.Uint32(buf[28:])
	numTurnCosts := binary.LittleEndian.Uint32(buf[32:])

	if numNodes > maxNodes {
		return nil, fmt.Errorf("%w: node count %d exceeds limit %d", ErrCorrupt, numNodes, maxNodes)
	}
	if numEdges > maxEdges {
		return nil, fmt.Errorf("%w: edge count %d exceeds limit %d", ErrCorrupt, numEdges, maxEdges)
	}
	if numLandmarks > maxLandmarks {
		return nil, fmt.Errorf("%w: landmark count %d exceeds limit %d", ErrCorrupt, numLandmarks, maxLandmarks)
	}

	r := reader{buf: buf, off: headerSize}
	t := &Topology{NumNodes: numNodes, NumEdges: numEdges}
	var err error
	if t.FirstEdge, err = r.uint32s(int(numNodes) + 1); err != nil {
		return nil, fmt.Errorf("%w: FirstEdge: %v", ErrCorrupt, err)
	}
	if t.EdgeTarget, err = r.uint32s(int(numEdges)); err != nil {
		return nil, fmt.Errorf("%w: EdgeTarget: %v", ErrCorrupt, err)
	}
	if t.BaseWeight, err = r.float32s(int(numEdges)); err != nil {
		return nil, fmt.Errorf("%w: BaseWeight: %v", ErrCorrupt, err)
	}
	if t.NodeLat, err = r.float32s(int(numNodes)); err != nil {
		return nil, fmt.Errorf("%w: NodeLat: %v", ErrCorrupt, err)
	}
	if t.NodeLon, err = r.float32s(int(numNodes)); err != nil {
		return nil, fmt.Errorf("%w: NodeLon: %v", ErrCorrupt, err)
	}

	m := &Model{Topology: t}

	switch mappingKind {
	case mappingNone:
		if mappingLen != 0 {
			return nil, fmt.Errorf("%w: mapping length %d with no mapping", ErrCorrupt, mappingLen)
		}
	case mappingSorted:
		r.off = align8(r.off)
		ids, err := r.int64s(int(mappingLen))
		if err != nil {
			return nil, fmt.Errorf("%w: sorted ids: %v", ErrCorrupt, err)
		}
		idx, err := idmap.NewSortedIndex(ids)
		if err != nil {
			return nil, fmt.Errorf("%w: sorted ids: %v", ErrCorrupt, err)
		}
		m.SortedIDs = idx
	case mappingString:
		offsets, err := r.uint32s(int(mappingLen) + 1)
		if err != nil {
			return nil, fmt.Errorf("%w: mapping offsets: %v", ErrCorrupt, err)
		}
		blob, err := r.bytes(int(offsets[mappingLen]))
		if err != nil {
			return nil, fmt.Errorf("%w: mapping blob: %v", ErrCorrupt, err)
		}
		// Validate the whole offsets array before slicing: a single corrupt
		// offset can pass its pairwise check yet point past the blob.
		if offsets[0] != 0 {
			return nil, fmt.Errorf("%w: mapping offsets[0] = %d, want 0", ErrCorrupt, offsets[0])
		}
		for i := uint32(0); i < mappingLen; i++ {
			if offsets[i] > offsets[i+1] {
				return nil, fmt.Errorf("%w: mapping offsets not monotonic at %d", ErrCorrupt, i)
			}
		}
		forward := make(map[string]uint32, mappingLen)
		for i := uint32(0); i < mappingLen; i++ {
			forward[string(blob[offsets[i]:offsets[i+1]])] = i
		}
		if uint32(len(forward)) != mappingLen {
			return nil, fmt.Errorf("%w: duplicate external ids in mapping", ErrCorrupt)
		}
		mp, err := idmap.NewMapping(forward)
		if err != nil {
			return nil, fmt.Errorf("%w: mapping: %v", ErrCorrupt, err)
		}
		m.Mapping = mp
		r.off = align4(r.off)
	default:
		return nil, fmt.Errorf("%w: unknown mapping kind %d", ErrCorrupt, mappingKind)
	}

	if numLandmarks > 0 {
		landmarks := make([]Landmark, numLandmarks)
		for i := range landmarks {
			nodeIdx, err := r.uint32s(1)
			if err != nil {
				return nil, fmt.Errorf("%w: landmark %d: %v", ErrCorrupt, i, err)
			}
			fwd, err := r.float32s(int(numNodes))
			if err != nil {
				return nil, fmt.Errorf("%w: landmark %d forward: %v", ErrCorrupt, i, err)
			}
			bwd, err := r.float32s(int(numNodes))
			if err != nil {
				return nil, fmt.Errorf("%w: landmark %d backward: %v", ErrCorrupt, i, err)
			}
			landmarks[i] = Landmark{NodeIdx: nodeIdx[0], Forward: fwd, Backward: bwd}
		}
		set, err := NewLandmarkSet(numNodes, landmarks)
		if err != nil {
			return nil, err
		}
		m.Landmarks = set
	}

	if numTurnCosts > 0 {
		from, err := r.uint32s(int(numTurnCosts))
		if err != nil {
			return nil, fmt.Errorf("%w: turn cost sources: %v", ErrCorrupt, err)
		}
		to, err := r.uint32s(int(numTurnCosts))
		if err != nil {
			return nil, fmt.Errorf("%w: turn cost targets: %v", ErrCorrupt, err)
		}
		penalty, err := r.float32s(int(numTurnCosts))
		if err != nil {
			return nil, fmt.Errorf("%w: turn cost penalties: %v", ErrCorrupt, err)
		}
		entries := make([]TurnCost, numTurnCosts)
		for i := range entries {
			entries[i] = TurnCost{FromEdge: from[i], ToEdge: to[i], Penalty: penalty[i]}
		}
		m.TurnCosts = NewTurnCostTable(entries)
	}

	if r.off != len(buf) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, len(buf)-r.off)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// WriteFile marshals the model and writes it with a CRC32-IEEE trailer,
// using a temp file and atomic rename so a crash never leaves a partial
// model at path.
func WriteFile(path string, m *Model) error {
	buf, err := Marshal(m)
	if err != nil {
		return err
	}
	var trailer [4]byte
	binary.LittleEndian.PutUint32(trailer[:], crc32.ChecksumIEEE(buf))

	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath) // clean up on error
	}()

	if _, err := f.Write(buf); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	if _, err := f.Write(trailer[:]); err != nil {
		return fmt.Errorf("write CRC32: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// ReadFile loads a model file, verifies the CRC32 trailer, and opens the
// remaining buffer zero-copy.
func ReadFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: file too small (%d bytes)", ErrCorrupt, len(data))
	}
	body := data[:len(data)-4]
	stored := binary.LittleEndian.Uint32(data[len(data)-4:])
	if computed := crc32.ChecksumIEEE(body); computed != stored {
		return nil, fmt.Errorf("%w: CRC32 mismatch: stored=%08x computed=%08x", ErrCorrupt, stored, computed)
	}
	return Open(body)
}

func align4(off int) int { return (off + 3) &^ 3 }
func align8(off int) int { return (off + 7) &^ 7 }

// writer appends raw little-endian array sections via unsafe byte views,
// avoiding a per-element encode loop.
type writer struct {
	buf []byte
	off int
}

func (w *writer) putBytes(b []byte) {
	copy(w.buf[w.off:], b)
	w.off += len(b)
}

func (w *writer) putUint32s(s []uint32) {
	if len(s) == 0 {
		return
	}
	w.putBytes(unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*4))
}

func (w *writer) putFloat32s(s []float32) {
	if len(s) == 0 {
		return
	}
	w.putBytes(unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*4))
}

func (w *writer) putInt64s(s []int64) {
	if len(s) == 0 {
		return
	}
	w.putBytes(unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*8))
}

// reader hands out zero-copy typed views over consecutive buffer sections,
// bounds-checking every take.
type reader struct {
	buf []byte
	off int
}

func (r *reader) take(n int) ([]byte, error) {
	if n < 0 || r.off+n > len(r.buf) {
		return nil, fmt.Errorf("section of %d bytes at offset %d exceeds buffer size %d", n, r.off, len(r.buf))
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	return r.take(n)
}

func (r *reader) uint32s(n int) ([]uint32, error) {
	b, err := r.take(n * 4)
	if err != nil || n == 0 {
		return nil, err
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(&b[0])), n), nil
}

func (r *reader) float32s(n int) ([]float32, error) {
	b, err := r.take(n * 4)
	if err != nil || n == 0 {
		return nil, err
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&b[0])), n), nil
}

func (r *reader) int64s(n int) ([]int64, error) {
	b, err := r.take(n * 8)
	if err != nil || n == 0 {
		return nil, err
	}
	return unsafe.Slice((*int64)(unsafe.Pointer(&b[0])), n), nil
}
