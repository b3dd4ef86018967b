package filter

import (
	"strings"

	mdwerror "github.com/msto63/owsh/foundation/core/error"
)

// rangeFilter passes lines from the first one containing from. With a
// non-empty to, the first later line containing to is dropped and ends the
// range; the next line containing from starts a new one.
type rangeFilter struct {
	from   string
	to     string
	inside bool
}

func (f *rangeFilter) Process(line string) bool {
	if !f.inside {
		f.inside = strings.Contains(line, f.from)
		return f.inside
	}
	if f.to != "" && strings.Contains(line, f.to) {
		f.inside = false
		return false
	}
	return true
}

func (f *rangeFilter) Finish() {
	f.inside = false
}

func newBeginFilter(args []string) (Filter, error) {
	if len(args) == 0 {
		return nil, mdwerror.Argument("Begin filter requires an argument")
	}
	return &rangeFilter{from: strings.Join(args, " ")}, nil
}

func newBetweenFilter(args []string) (Filter, error) {
	if len(args) < 2 {
		return nil, mdwerror.Argument("Between filter requires 2 arguments")
	}
	return &rangeFilter{from: args[0], to: strings.Join(args[1:], " ")}, nil
}
