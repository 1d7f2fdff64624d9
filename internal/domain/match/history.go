package match

// History is an insertion-ordered snapshot of recorded matches.
// Index order is chronological order.
type History []Record

func (h History) Len() int {
	return len(h)
}

// Before returns the records strictly preceding index i.
func (h History) Before(i int) History {
	if i <= 0 {
		return nil
	}
	if i > len(h) {
		i = len(h)
	}
	return h[:i:i]
}

func (h History) Involving(team string) History {
	out := make(History, 0)
	for _, item := range h {
		if item.Involves(team) {
			out = append(out, item)
		}
	}
	return out
}

// LastN returns up to n of the most recent records involving team, oldest first.
func (h History) LastN(team string, n int) History {
	if n <= 0 {
		return History{}
	}

	out := make(History, 0, n)
	for i := len(h) - 1; i >= 0 && len(out) < n; i-- {
		if h[i].Involves(team) {
			out = append(out, h[i])
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}

	return out
}

// Clone copies the snapshot so callers can hold it past later appends.
func (h History) Clone() History {
	out := make(History, len(h))
	copy(out, h)
	return out
}
