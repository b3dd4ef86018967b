package filter

import (
	"strconv"
	"strings"

	mdwerror "github.com/msto63/owsh/foundation/core/error"
)

// countFilter swallows every line and emits the number of non-blank ones
// at end of stream
type countFilter struct {
	count int
	emit  func(string)
}

func (f *countFilter) Process(line string) bool {
	if strings.TrimSpace(line) != "" {
		f.count++
	}
	return false
}

func (f *countFilter) Finish() {
	f.emit(strconv.Itoa(f.count))
}

func newCountFilter(args []string, emit func(string)) (Filter, error) {
	if len(args) > 0 {
		return nil, mdwerror.Argument("Count filter does not take arguments")
	}
	return &countFilter{emit: emit}, nil
}
