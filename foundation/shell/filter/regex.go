package filter

import "strings"

// translateBasic rewrites a POSIX basic regular expression into the
// extended syntax understood by package regexp. In basic syntax \( \) \{
// \} \| \+ \? are operators and their unescaped forms are literals; a
// leading '*' is a literal as well, as are '^' away from the start and '$'
// away from the end of the pattern or a group. The word anchors \< and \> become \b.
func translateBasic(pattern string) string {
	var b strings.Builder
	b.Grow(len(pattern) + 8)

	atStart := true
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '\\' && i+1 < len(pattern):
			i++
			next := pattern[i]
			if strings.IndexByte("(){}|+?", next) >= 0 {
				b.WriteByte(next)
				atStart = next == '(' || next == '|'
				continue
			}
			if next == '<' || next == '>' {
				b.WriteString(`\b`)
				break
			}
			b.WriteByte('\\')
			b.WriteByte(next)

		case c == '[':
			end := bracketEnd(pattern, i)
			b.WriteString(pattern[i:end])
			i = end - 1

		case strings.IndexByte("(){}|+?", c) >= 0:
			b.WriteByte('\\')
			b.WriteByte(c)

		case c == '*' && atStart:
			b.WriteString(`\*`)

		case c == '^' && atStart:
			b.WriteByte(c)
			continue

		case c == '^':
			b.WriteString(`\^`)

		case c == '$' && !anchorsEnd(pattern, i+1):
			b.WriteString(`\$`)

		default:
			b.WriteByte(c)
		}
		atStart = false
	}
	return b.String()
}

// anchorsEnd reports whether a '$' before position i ends the pattern, a
// group or an alternative
func anchorsEnd(pattern string, i int) bool {
	rest := pattern[i:]
	return rest == "" || strings.HasPrefix(rest, `\)`) || strings.HasPrefix(rest, `\|`)
}

// bracketEnd returns the index just past the bracket expression opening at
// start, or len(pattern) when it is unterminated. A ']' right after '[' or
// "[^" is literal; "[:class:]" style names are skipped whole.
func bracketEnd(pattern string, start int) int {
	i := start + 1
	if i < len(pattern) && pattern[i] == '^' {
		i++
	}
	if i < len(pattern) && pattern[i] == ']' {
		i++
	}
	for i < len(pattern) {
		switch {
		case pattern[i] == '[' && i+1 < len(pattern) && strings.IndexByte(":.=", pattern[i+1]) >= 0:
			if end := strings.Index(pattern[i+2:], string(pattern[i+1])+"]"); end >= 0 {
				i += end + 4
				continue
			}
			i++
		case pattern[i] == ']':
			return i + 1
		default:
			i++
		}
	}
	return len(pattern)
}
