// File: match.go
// Title: Match Filters
// Description: include/exclude substring filters and grep/egrep regular
//              expression filters with -v, -i and -e flags.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package filter

import (
	"regexp"
	"strings"

	mdwerror "github.com/msto63/owsh/foundation/core/error"
)

type matchFilter struct {
	substr string
	re     *regexp.Regexp
	invert bool
}

func (f *matchFilter) Process(line string) bool {
	var matched bool
	if f.re != nil {
		matched = f.re.MatchString(line)
	} else {
		matched = strings.Contains(line, f.substr)
	}
	return matched != f.invert
}

func (f *matchFilter) Finish() {
	f.re = nil
}

func newSubstringFilter(args []string, invert bool) (Filter, error) {
	if len(args) == 0 {
		return nil, mdwerror.Argument("Match filter requires an argument")
	}
	return &matchFilter{substr: strings.Join(args, " "), invert: invert}, nil
}

func newRegexFilter(args []string, extended bool) (Filter, error) {
	if len(args) == 0 {
		return nil, mdwerror.Argument("Match filter requires an argument")
	}

	f := &matchFilter{}
	icase := false

	// Flag words are only taken while a pattern word remains after them.
	i := 0
	for i < len(args)-1 && len(args[i]) > 1 && args[i][0] == '-' {
		flags := args[i][1:]
		if strings.Trim(flags, "vie") != "" {
			break
		}
		last := false
		for _, c := range flags {
			switch c {
			case 'v':
				f.invert = true
			case 'i':
				icase = true
			case 'e':
				last = true
			}
		}
		i++
		if last {
			break
		}
	}

	pattern := strings.Join(args[i:], " ")
	expr := pattern
	if !extended {
		expr = translateBasic(pattern)
	}
	if icase {
		expr = "(?i)" + expr
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, mdwerror.Argument("Invalid pattern %q", pattern)
	}
	f.re = re
	return f, nil
}
