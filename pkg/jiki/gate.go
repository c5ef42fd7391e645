package jiki

// Gate answers whether a node kind or token kind is enabled under a
// Features configuration.
type Gate struct {
	nodes   map[string]bool
	include map[string]bool
	exclude map[string]bool
}

func toSet(names []string) map[string]bool {
	if names == nil {
		return nil
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

func NewGate(f Features) *Gate {
	return &Gate{
		nodes:   toSet(f.AllowedNodes),
		include: toSet(f.IncludeList),
		exclude: toSet(f.ExcludeList),
	}
}

// IsNodeAllowed reports whether the node kind may appear. A nil gate allows
// everything.
func (g *Gate) IsNodeAllowed(kind string) bool {
	if g == nil || g.nodes == nil {
		return true
	}
	return g.nodes[kind]
}

// IsTokenAllowed reports whether the token kind may appear, and if not,
// which list rejected it.
func (g *Gate) IsTokenAllowed(kind string) (bool, string) {
	if g == nil {
		return true, ""
	}
	if g.include != nil && !g.include[kind] {
		return false, "include"
	}
	if g.exclude[kind] {
		return false, "exclude"
	}
	return true, ""
}
