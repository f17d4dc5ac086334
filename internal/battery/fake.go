package battery

import "errors"

// FakeReader is a test double that returns scripted charge percentages.
type FakeReader struct {
	// Samples contains scripted percentages to return. Each call to
	// Percent() consumes the next sample; the last sample repeats.
	Samples []uint8

	// ReadError, if set, will be returned by Percent().
	ReadError error

	// Reads counts Percent calls, including while exhausted.
	Reads int

	// Closed tracks if Close was called.
	Closed bool

	index int
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples []uint8) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Percent returns the next scripted sample.
func (f *FakeReader) Percent() (uint8, error) {
	f.Reads++

	if f.ReadError != nil {
		return 0, f.ReadError
	}

	if len(f.Samples) == 0 {
		return 0, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return sample, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the reader to the beginning of samples.
func (f *FakeReader) Reset() {
	f.index = 0
	f.Reads = 0
	f.Closed = false
}
