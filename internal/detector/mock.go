package detector

import (
	"image"
	"sync"
)

// MockDetector is a test implementation of the Detector interface.
// It returns queued results in order, then repeats the last one.
type MockDetector struct {
	mu      sync.Mutex
	results []Result
	calls   int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetResults replaces the queued results and resets the call count.
func (m *MockDetector) SetResults(results ...Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = results
	m.calls = 0
}

// SetCentroids queues a found result for each centroid.
func (m *MockDetector) SetCentroids(centroids ...Centroid) {
	results := make([]Result, len(centroids))
	for i, c := range centroids {
		results[i] = Result{Centroid: c, Matches: DefaultMinMatches + 1, Found: true}
	}
	m.SetResults(results...)
}

// Calls returns how many times Detect ran.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the next queued result.
func (m *MockDetector) Detect(frame *image.RGBA, overlay Overlay) Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.results) == 0 {
		m.calls++
		return Result{}
	}

	i := m.calls
	if i >= len(m.results) {
		i = len(m.results) - 1
	}
	m.calls++

	res := m.results[i]
	if overlay != nil && res.Found {
		overlay.MarkCentroid(res.Centroid)
	}
	return res
}
