package memory

import (
	"math"
	"sort"
	"sync"

	"github.com/kayacancode/voice-network/pkg/domain/model"
)

// record is one entry of the index. Type is kept per entry so the store
// behaves like the shared managed index.
type record struct {
	recordType model.RecordType
	seq        uint64
	memory     *model.Memory
	contact    *model.Contact
}

// index is the record space shared by every store of one repository
type index struct {
	mu      sync.RWMutex
	seq     uint64
	records map[string]*record
}

func newIndex() *index {
	return &index{
		records: make(map[string]*record),
	}
}

// put stores rec under id, keeping the insertion sequence of an existing
// entry. Callers must hold mu.
func (x *index) put(id string, rec *record) {
	if existing, ok := x.records[id]; ok {
		rec.seq = existing.seq
	} else {
		rec.seq = x.seq
		x.seq++
	}
	x.records[id] = rec
}

// scan returns the entries of one type accepted by keep in insertion order.
// Callers must hold mu.
func (x *index) scan(recordType model.RecordType, keep func(*record) bool) []*record {
	found := make([]*record, 0, len(x.records))
	for _, rec := range x.records {
		if rec.recordType != recordType || !keep(rec) {
			continue
		}
		found = append(found, rec)
	}
	// insertion order first so equal scores keep a stable order
	sort.Slice(found, func(i, j int) bool {
		return found[i].seq < found[j].seq
	})
	return found
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}
	return dot / denom
}
