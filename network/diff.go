package network

import "github.com/nstehr/vimy/vimy-viewer/model"

// Diff describes how one listing differs from the previous one, by entity
// name. It is informational only; the registry always replaces wholesale.
type Diff struct {
	Added   []string
	Removed []string
}

func (d Diff) Empty() bool { return len(d.Added) == 0 && len(d.Removed) == 0 }

func diffByName(prev, next []model.ObjectSummary) Diff {
	before := make(map[string]bool, len(prev))
	for _, o := range prev {
		before[o.Name] = true
	}
	after := make(map[string]bool, len(next))
	for _, o := range next {
		after[o.Name] = true
	}

	var d Diff
	for _, o := range next {
		if !before[o.Name] {
			d.Added = append(d.Added, o.Name)
			before[o.Name] = true // count duplicates once
		}
	}
	for _, o := range prev {
		if !after[o.Name] {
			d.Removed = append(d.Removed, o.Name)
			after[o.Name] = true
		}
	}
	return d
}
