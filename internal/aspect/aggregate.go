package aspect

import (
	"slices"

	"github.com/roach88/almagest/internal/chart"
)

// Graph maps an object to the aspects it makes, keyed by the other object.
type Graph map[chart.Index]map[chart.Index]*chart.Aspect

// Count returns the number of aspect entries in g.
func (g Graph) Count() int {
	n := 0
	for _, m := range g {
		n += len(m)
	}
	return n
}

// ForObject returns the aspects p makes to each member of objects, keyed by
// the other object. p itself is skipped.
func (e *Engine) ForObject(p *chart.Position, objects []*chart.Position) map[chart.Index]*chart.Aspect {
	return e.forObject(p, objects, true)
}

func (e *Engine) forObject(p *chart.Position, objects []*chart.Position, skipSelf bool) map[chart.Index]*chart.Aspect {
	out := make(map[chart.Index]*chart.Aspect)
	for _, o := range objects {
		if skipSelf && o.Index == p.Index {
			continue
		}
		if a := e.Between(p, o); a != nil {
			out[o.Index] = a
		}
	}
	return out
}

// All returns the aspect graph over objects. Each pair appears under both
// of its members. Objects without aspects are absent.
func (e *Engine) All(objects []*chart.Position) Graph {
	g := make(Graph)
	for _, p := range objects {
		if m := e.ForObject(p, objects); len(m) > 0 {
			g[p.Index] = m
		}
	}
	return g
}

// ByType groups the aspects among objects by aspect angle. Each pair is
// recorded once, in the order objects lists them.
func (e *Engine) ByType(objects []*chart.Position) map[chart.AspectAngle][]*chart.Aspect {
	out := make(map[chart.AspectAngle][]*chart.Aspect)
	for i, p := range objects {
		for _, o := range objects[i+1:] {
			if o.Index == p.Index {
				continue
			}
			if a := e.Between(p, o); a != nil {
				out[a.Angle] = append(out[a.Angle], a)
			}
		}
	}
	return out
}

// Chart returns the aspects among objects as one list, grouped by ascending
// aspect angle and in ByType order within a group.
func (e *Engine) Chart(objects []*chart.Position) []*chart.Aspect {
	byType := e.ByType(objects)
	out := []*chart.Aspect{}
	for _, a := range chart.AllAspects() {
		out = append(out, byType[a]...)
	}
	return out
}

// Synastry returns the aspects each member of a makes to the members of b,
// keyed first by the a object. Identical indices in both sets are compared
// like any other pair.
func (e *Engine) Synastry(a, b []*chart.Position) Graph {
	g := make(Graph)
	for _, p := range a {
		if m := e.forObject(p, b, false); len(m) > 0 {
			g[p.Index] = m
		}
	}
	return g
}

// Sorted returns the aspects of m ordered by the other object's index.
func Sorted(m map[chart.Index]*chart.Aspect) []*chart.Aspect {
	keys := make([]chart.Index, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, chart.Compare)
	out := make([]*chart.Aspect, len(keys))
	for i, k := range keys {
		out[i] = m[k]
	}
	return out
}
