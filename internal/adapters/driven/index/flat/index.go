// Package flat provides a persistent, append-only vector index with
// exact cosine top-K search over a contiguous float32 matrix.
//
// The on-disk layout is two row-aligned artifacts: vectors.bin, a dense
// N x D little-endian float32 matrix behind a small header, and
// chunks.jsonl, one metadata record per matrix row. Row i of the matrix
// always corresponds to line i of the metadata stream; that pairing is
// the storage invariant and a disagreement is reported as corruption,
// never repaired.
package flat

import (
	"bufio"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/grounded-labs/askdocs-cli/internal/core/domain"
	"github.com/grounded-labs/askdocs-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// File names of the two row-aligned artifacts.
const (
	vectorsFile = "vectors.bin"
	chunksFile  = "chunks.jsonl"
)

// vectors.bin header: magic, format version, dimensionality.
const (
	magic         = "ADXV"
	formatVersion = uint32(1)
	headerSize    = int64(12)
)

// metaRecord is the JSONL representation of one chunk.
type metaRecord struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Page   int    `json:"page"`
	Start  int    `json:"start_offset"`
	End    int    `json:"end_offset"`
	Seq    int    `json:"sequence_index"`
	Text   string `json:"text"`
}

// Index is a flat (brute-force) vector index. Search is an exact O(N*D)
// scan over the contiguous matrix; this is deliberate, approximate
// sub-linear search is out of scope.
//
// Concurrency: sync.RWMutex gives many concurrent searchers and a single
// appender, and no searcher observes a partially-appended state.
type Index struct {
	mu  sync.RWMutex
	dir string

	dim     int
	matrix  []float32 // contiguous, len == rows*dim
	norms   []float64 // per-row L2 norms, computed at append time
	chunks  []domain.Chunk
	vecFile *os.File
	mtaFile *os.File
	vecSize int64
	mtaSize int64
}

// Open loads or creates an index in dir. An existing index is validated:
// the matrix and metadata stream must agree on row count.
func Open(dir string) (*Index, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	vf, err := os.OpenFile(filepath.Join(dir, vectorsFile), os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, fmt.Errorf("opening vector matrix: %w", err)
	}
	mf, err := os.OpenFile(filepath.Join(dir, chunksFile), os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		vf.Close()
		return nil, fmt.Errorf("opening metadata stream: %w", err)
	}

	idx := &Index{dir: dir, vecFile: vf, mtaFile: mf}
	if err := idx.load(); err != nil {
		vf.Close()
		mf.Close()
		return nil, err
	}
	return idx, nil
}

// load reads both artifacts into memory and validates their alignment.
func (idx *Index) load() error {
	vinfo, err := idx.vecFile.Stat()
	if err != nil {
		return fmt.Errorf("stat vector matrix: %w", err)
	}

	dim := 0
	var matrix []float32
	if vinfo.Size() > 0 {
		if vinfo.Size() < headerSize {
			return domain.ErrCorruptIndex
		}
		header := make([]byte, headerSize)
		if _, err := idx.vecFile.ReadAt(header, 0); err != nil {
			return fmt.Errorf("read matrix header: %w", err)
		}
		if string(header[:4]) != magic || binary.LittleEndian.Uint32(header[4:8]) != formatVersion {
			return domain.ErrCorruptIndex
		}
		dim = int(binary.LittleEndian.Uint32(header[8:12]))

		payload := vinfo.Size() - headerSize
		if dim <= 0 || payload%int64(4*dim) != 0 {
			return domain.ErrCorruptIndex
		}

		raw := make([]byte, payload)
		if _, err := idx.vecFile.ReadAt(raw, headerSize); err != nil {
			return fmt.Errorf("read matrix rows: %w", err)
		}
		matrix = make([]float32, payload/4)
		for i := range matrix {
			matrix[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
		}
	}

	chunks, err := readMetadata(idx.mtaFile)
	if err != nil {
		return err
	}

	rows := 0
	if dim > 0 {
		rows = len(matrix) / dim
	}
	if rows != len(chunks) {
		return domain.ErrCorruptIndex
	}

	minfo, err := idx.mtaFile.Stat()
	if err != nil {
		return fmt.Errorf("stat metadata stream: %w", err)
	}

	// Reload against an index already holding vectors of a different
	// dimensionality is a hard error, not a silent re-shape.
	if idx.dim != 0 && dim != 0 && idx.dim != dim {
		return domain.ErrIncompatibleDimension
	}

	idx.dim = dim
	idx.matrix = matrix
	idx.chunks = chunks
	idx.vecSize = vinfo.Size()
	idx.mtaSize = minfo.Size()
	idx.norms = make([]float64, rows)
	for i := 0; i < rows; i++ {
		idx.norms[i] = norm(idx.row(i))
	}
	return nil
}

// Reload re-reads both artifacts from disk, e.g. after another handle
// appended. Fails with domain.ErrIncompatibleDimension if the on-disk
// dimensionality no longer matches this instance's.
func (idx *Index) Reload() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.load()
}

// Append validates every record's dimensionality up front, then extends
// the matrix and metadata stream together. If persisting either artifact
// fails, both files are truncated back to their prior sizes and the
// in-memory state is rolled back, so matrix rows and metadata rows never
// fall out of alignment.
func (idx *Index) Append(_ context.Context, records []driven.EmbeddingRecord) error {
	if len(records) == 0 {
		return nil
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	dim := idx.dim
	if dim == 0 {
		// Dimensionality is fixed by the first appended vector.
		dim = len(records[0].Vector)
		if dim == 0 {
			return domain.ErrDimensionMismatch
		}
	}
	for _, rec := range records {
		if len(rec.Vector) != dim {
			return fmt.Errorf("%w: got %d, index holds %d", domain.ErrDimensionMismatch, len(rec.Vector), dim)
		}
	}

	if err := idx.persist(records, dim); err != nil {
		return err
	}

	idx.dim = dim
	for _, rec := range records {
		idx.matrix = append(idx.matrix, rec.Vector...)
		idx.norms = append(idx.norms, norm(rec.Vector))
		idx.chunks = append(idx.chunks, rec.Chunk)
	}
	return nil
}

// persist writes the new rows to both artifacts, rolling both back on
// any failure. Called with the write lock held.
func (idx *Index) persist(records []driven.EmbeddingRecord, dim int) (err error) {
	prevVec, prevMta := idx.vecSize, idx.mtaSize
	defer func() {
		if err != nil {
			// Roll back partial writes; ignore truncate errors, load
			// validation catches any residue on next open.
			idx.vecFile.Truncate(prevVec)
			idx.mtaFile.Truncate(prevMta)
			idx.vecSize, idx.mtaSize = prevVec, prevMta
		}
	}()

	vecOff := prevVec
	if vecOff == 0 {
		header := make([]byte, headerSize)
		copy(header[:4], magic)
		binary.LittleEndian.PutUint32(header[4:8], formatVersion)
		binary.LittleEndian.PutUint32(header[8:12], uint32(dim))
		if _, err = idx.vecFile.WriteAt(header, 0); err != nil {
			return fmt.Errorf("write matrix header: %w", err)
		}
		vecOff = headerSize
	}

	buf := make([]byte, 4*dim)
	for _, rec := range records {
		for i, v := range rec.Vector {
			binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
		}
		if _, err = idx.vecFile.WriteAt(buf, vecOff); err != nil {
			return fmt.Errorf("append matrix row: %w", err)
		}
		vecOff += int64(len(buf))
	}

	mtaOff := prevMta
	for _, rec := range records {
		line, merr := json.Marshal(metaRecord{
			ID:     rec.Chunk.ID,
			Source: rec.Chunk.Source,
			Page:   rec.Chunk.Page,
			Start:  rec.Chunk.Start,
			End:    rec.Chunk.End,
			Seq:    rec.Chunk.Seq,
			Text:   rec.Chunk.Text,
		})
		if merr != nil {
			err = fmt.Errorf("encode metadata record: %w", merr)
			return err
		}
		line = append(line, '\n')
		if _, err = idx.mtaFile.WriteAt(line, mtaOff); err != nil {
			return fmt.Errorf("append metadata record: %w", err)
		}
		mtaOff += int64(len(line))
	}

	if err = idx.vecFile.Sync(); err != nil {
		return fmt.Errorf("sync vector matrix: %w", err)
	}
	if err = idx.mtaFile.Sync(); err != nil {
		return fmt.Errorf("sync metadata stream: %w", err)
	}

	idx.vecSize, idx.mtaSize = vecOff, mtaOff
	return nil
}

// Search scans every stored vector and returns the top k by cosine
// similarity, non-increasing by score, ties broken by lower insertion
// index. Returns domain.ErrEmptyIndex when the index has no records and
// k > 0.
func (idx *Index) Search(_ context.Context, query []float32, k int) ([]domain.ScoredChunk, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	rows := len(idx.chunks)
	if rows == 0 {
		if k > 0 {
			return nil, domain.ErrEmptyIndex
		}
		return nil, nil
	}
	if k <= 0 {
		return nil, nil
	}
	if len(query) != idx.dim {
		return nil, fmt.Errorf("%w: query has %d, index holds %d", domain.ErrDimensionMismatch, len(query), idx.dim)
	}

	qnorm := norm(query)
	scores := make([]float64, rows)
	for i := 0; i < rows; i++ {
		scores[i] = cosine(query, idx.row(i), qnorm, idx.norms[i])
	}

	order := make([]int, rows)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		if scores[order[a]] != scores[order[b]] {
			return scores[order[a]] > scores[order[b]]
		}
		return order[a] < order[b]
	})

	if k > rows {
		k = rows
	}
	results := make([]domain.ScoredChunk, k)
	for i := 0; i < k; i++ {
		results[i] = domain.ScoredChunk{Chunk: idx.chunks[order[i]], Score: scores[order[i]]}
	}
	return results, nil
}

// row returns matrix row i as a sub-slice of the contiguous backing.
func (idx *Index) row(i int) []float32 {
	return idx.matrix[i*idx.dim : (i+1)*idx.dim]
}

// Len returns the number of stored records.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.chunks)
}

// Dimensions returns the established dimensionality, 0 while empty.
func (idx *Index) Dimensions() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.dim
}

// Close closes both artifact files.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	verr := idx.vecFile.Close()
	merr := idx.mtaFile.Close()
	if verr != nil {
		return verr
	}
	return merr
}

// readMetadata decodes the whole metadata stream.
func readMetadata(f *os.File) ([]domain.Chunk, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek metadata stream: %w", err)
	}

	var chunks []domain.Chunk
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec metaRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, domain.ErrCorruptIndex
		}
		chunks = append(chunks, domain.Chunk{
			ID:     rec.ID,
			Source: rec.Source,
			Page:   rec.Page,
			Start:  rec.Start,
			End:    rec.End,
			Seq:    rec.Seq,
			Text:   rec.Text,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read metadata stream: %w", err)
	}
	return chunks, nil
}
