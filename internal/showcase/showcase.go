// Package showcase tracks the visible section of the projects carousel.
package showcase

import "sync"

// DefaultPerSection is how many project cards one carousel section shows.
const DefaultPerSection = 3

// DefaultProjects is the project line-up shown on the portfolio's projects page.
var DefaultProjects = []string{
	"CiPD UX Research",
	"Public Spitting Research",
	"Roadway UX Research",
	"HomeBound UX Design",
	"NeuroBridge UX Design",
	"App UI Designs",
	"L.Ink Brand Profile",
	"Sanskriti Brand Profile",
	"Susta Brand Profile",
}

// Section is one page of the carousel.
type Section struct {
	Index int `json:"index"`
	Total int `json:"total"`
	// ScrollIndex is the carousel slide the section starts at.
	ScrollIndex int      `json:"scroll_index"`
	Projects    []string `json:"projects"`
}

// Navigator moves a cursor over carousel sections, wrapping at both ends.
// It is safe for concurrent use.
type Navigator struct {
	mu         sync.RWMutex
	projects   []string
	perSection int
	current    int
	onChange   func(Section)
}

// New creates a Navigator over projects grouped perSection at a time.
// A non-positive perSection uses DefaultPerSection.
func New(projects []string, perSection int) *Navigator {
	if perSection <= 0 {
		perSection = DefaultPerSection
	}

	p := make([]string, len(projects))
	copy(p, projects)

	return &Navigator{
		projects:   p,
		perSection: perSection,
	}
}

// OnChange sets a callback invoked after every move.
func (n *Navigator) OnChange(fn func(Section)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.onChange = fn
}

// Len returns the number of sections.
func (n *Navigator) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.total()
}

func (n *Navigator) total() int {
	return (len(n.projects) + n.perSection - 1) / n.perSection
}

// Current returns the visible section.
func (n *Navigator) Current() Section {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.section(n.current)
}

// Next advances one section, wrapping from the last to the first.
func (n *Navigator) Next() Section {
	return n.move(1)
}

// Prev goes back one section, wrapping from the first to the last.
func (n *Navigator) Prev() Section {
	return n.move(-1)
}

func (n *Navigator) move(step int) Section {
	n.mu.Lock()
	total := n.total()
	if total > 0 {
		n.current = (n.current + step + total) % total
	}
	s := n.section(n.current)
	callback := n.onChange
	n.mu.Unlock()

	if callback != nil {
		callback(s)
	}
	return s
}

// section builds the Section at index i. Caller must hold n.mu.
func (n *Navigator) section(i int) Section {
	start := i * n.perSection
	end := min(start+n.perSection, len(n.projects))

	s := Section{
		Index:       i,
		Total:       n.total(),
		ScrollIndex: start,
	}
	if start < end {
		s.Projects = append([]string(nil), n.projects[start:end]...)
	}
	return s
}
