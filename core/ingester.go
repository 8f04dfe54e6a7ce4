package core

// IngestBuffer collects single observations until it holds a full batch.
// Streams fold it as one Update call, so callers appending value-by-value
// still get the batch-merge path.
type IngestBuffer struct {
	Capacity int64
	Size     int64
	values   []float64
}

func NewIngestBuffer(capacity int64) *IngestBuffer {
	return &IngestBuffer{
		Capacity: capacity,
		Size:     0,
		values:   make([]float64, capacity),
	}
}

func (ib *IngestBuffer) Append(value float64) bool {
	if ib.IsFull() {
		return false
	}

	ib.values[ib.Size] = value
	ib.Size += 1
	return true
}

func (ib *IngestBuffer) IsFull() bool {
	return ib.Size == ib.Capacity
}

func (ib *IngestBuffer) IsEmpty() bool {
	return ib.Size == 0
}

func (ib *IngestBuffer) Clear() {
	ib.Size = 0
}

func (ib *IngestBuffer) GetValue(pos int64) (float64, bool) {
	if pos < 0 || pos >= ib.Size {
		return 0, false
	}
	return ib.values[pos], true
}

// Values returns the filled prefix. The slice aliases the buffer and is
// only valid until the next Append or Clear.
func (ib *IngestBuffer) Values() []float64 {
	return ib.values[:ib.Size]
}
