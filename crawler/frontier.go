package crawler

import "github.com/fitcrawl/fitcrawl/model"

// frontier holds the targets discovered but not yet dispatched, plus the
// set of canonical URLs ever admitted. Admission and ordering are the only
// sources of traversal nondeterminism, so both are fully defined here:
// duplicates are rejected at admission time, and ties between equally deep
// targets are broken by insertion order.
//
// The frontier is owned by the coordinator goroutine exclusively and is
// deliberately unsynchronized.
type frontier struct {
	items        []model.CrawlTarget
	seen         map[string]bool
	breadthFirst bool
}

func newFrontier(breadthFirst bool) *frontier {
	return &frontier{
		seen:         make(map[string]bool),
		breadthFirst: breadthFirst,
	}
}

// Admit adds a target unless its canonical form was admitted before.
// It reports whether the target was accepted.
func (f *frontier) Admit(t model.CrawlTarget) bool {
	if f.seen[t.Canonical] {
		return false
	}
	f.seen[t.Canonical] = true
	f.items = append(f.items, t)
	return true
}

// AdmitBatch admits one page's discovered links together.
//
// Depth-first order pops from the back of the list, which on its own would
// explore a page's last link first. Admitting the batch in reverse restores
// the natural order: the first link on the page is the next one dispatched,
// and its subtree is exhausted before its siblings.
func (f *frontier) AdmitBatch(targets []model.CrawlTarget) int {
	admitted := 0
	if f.breadthFirst {
		for _, t := range targets {
			if f.Admit(t) {
				admitted++
			}
		}
		return admitted
	}
	for i := len(targets) - 1; i >= 0; i-- {
		if f.Admit(targets[i]) {
			admitted++
		}
	}
	return admitted
}

// Peek returns the target that Pop would remove, without removing it.
func (f *frontier) Peek() (model.CrawlTarget, bool) {
	if len(f.items) == 0 {
		return model.CrawlTarget{}, false
	}
	if f.breadthFirst {
		return f.items[0], true
	}
	return f.items[len(f.items)-1], true
}

// Pop removes and returns the next target: the oldest entry in
// breadth-first mode, the newest in depth-first mode.
func (f *frontier) Pop() (model.CrawlTarget, bool) {
	if len(f.items) == 0 {
		return model.CrawlTarget{}, false
	}
	if f.breadthFirst {
		t := f.items[0]
		f.items = f.items[1:]
		return t, true
	}
	t := f.items[len(f.items)-1]
	f.items = f.items[:len(f.items)-1]
	return t, true
}

// Len returns the number of pending targets.
func (f *frontier) Len() int {
	return len(f.items)
}
