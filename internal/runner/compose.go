package runner

// And conjoins other's expression into r. An empty expression on either side
// is the identity: r keeps its own expression when other is empty and takes
// other's when r is empty. It mutates and returns r.
func (r *Runner) And(other *Runner) *Runner {
	return r.combine(other, "&&")
}

// Or disjoins other's expression into r with the same identity rules as And.
func (r *Runner) Or(other *Runner) *Runner {
	return r.combine(other, "||")
}

func (r *Runner) combine(other *Runner, op string) *Runner {
	mine := r.Expression()
	theirs := other.Expression()
	switch {
	case mine != "" && theirs != "":
		r.group = []string{"(" + mine + " " + op + " " + theirs + ")"}
	case theirs != "":
		r.group = []string{theirs}
	}
	return r
}

// Merge folds runners left to right into a fresh runner using And when isAnd
// is true and Or otherwise. The fresh runner inherits the engine and logger of
// the first runner that has one.
func Merge(runners []*Runner, isAnd bool) *Runner {
	merged := New()
	for _, other := range runners {
		if other == nil {
			continue
		}
		if merged.engine == nil && other.engine != nil {
			merged.engine = other.engine
		}
		if merged.logger == nil && other.logger != nil {
			merged.logger = other.logger
		}
		if isAnd {
			merged.And(other)
		} else {
			merged.Or(other)
		}
	}
	return merged
}
