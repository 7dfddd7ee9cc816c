package render

import (
	"regexp"
	"strings"
)

var (
	reComment      = regexp.MustCompile(`(?s)\{#.*?#\}`)
	reCommentBlock = regexp.MustCompile(`(?s)\{%-?\s*comment\s*-?%\}.*?\{%-?\s*endcomment\s*-?%\}`)
	reVerbatim     = regexp.MustCompile(`(?s)\{%-?\s*verbatim\s*-?%\}.*?\{%-?\s*endverbatim\s*-?%\}`)
	reToken        = regexp.MustCompile(`\{\{-?(.*?)-?\}\}|\{%-?\s*(\w+)(.*?)-?%\}`)
	reTag          = regexp.MustCompile(`\{%-?\s*(\w+)(.*?)-?%\}`)
	reDefault      = regexp.MustCompile(`\|\s*default(_if_none)?\b`)
	reIdent        = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)
)

// names the engine always provides
var builtins = map[string]bool{
	"forloop": true,
	"pongo2":  true,
}

var keywords = map[string]bool{
	"in": true, "and": true, "or": true, "not": true,
	"true": true, "false": true, "as": true, "export": true,
}

// firstUndefined returns the first variable referenced in a {{ }}
// expression that is neither in vars nor bound by a tag, with its line.
// Tag conditions are not checked. Names tested by an enclosing if or elif
// are allowed inside that block, as are left operands of or and
// expressions that go through the default filter.
func firstUndefined(text string, vars map[string]any) (string, int) {
	src := mask(text, reComment, reCommentBlock, reVerbatim)
	bound := boundNames(src)
	var guards []map[string]bool

	for _, loc := range reToken.FindAllStringSubmatchIndex(src, -1) {
		if loc[4] >= 0 {
			guards = trackGuards(guards, src[loc[4]:loc[5]], src[loc[6]:loc[7]])
			continue
		}
		expr := src[loc[2]:loc[3]]
		if reDefault.MatchString(expr) {
			continue
		}
		for _, name := range rootNames(expr) {
			if _, ok := vars[name]; ok || bound[name] || builtins[name] || guarded(guards, name) {
				continue
			}
			return name, strings.Count(src[:loc[0]], "\n") + 1
		}
	}
	return "", 0
}

// trackGuards maintains one set of tested names per open if block
func trackGuards(guards []map[string]bool, tag, args string) []map[string]bool {
	switch tag {
	case "if":
		tested := map[string]bool{}
		for _, name := range lookups(stripStrings(args), false) {
			tested[name] = true
		}
		return append(guards, tested)
	case "elif":
		if len(guards) > 0 {
			for _, name := range lookups(stripStrings(args), false) {
				guards[len(guards)-1][name] = true
			}
		}
	case "endif":
		if len(guards) > 0 {
			return guards[:len(guards)-1]
		}
	}
	return guards
}

func guarded(guards []map[string]bool, name string) bool {
	for _, tested := range guards {
		if tested[name] {
			return true
		}
	}
	return false
}

// mask blanks out every match while keeping newlines, so offsets and line
// numbers stay valid
func mask(text string, patterns ...*regexp.Regexp) string {
	for _, re := range patterns {
		text = re.ReplaceAllStringFunc(text, func(m string) string {
			return strings.Map(func(r rune) rune {
				if r == '\n' {
					return r
				}
				return ' '
			}, m)
		})
	}
	return text
}

// boundNames collects names introduced by for, set, with, macro, cycle
// and import tags anywhere in the template
func boundNames(src string) map[string]bool {
	bound := map[string]bool{}
	for _, m := range reTag.FindAllStringSubmatch(src, -1) {
		tag, args := m[1], stripStrings(m[2])
		switch tag {
		case "for":
			if idx := strings.Index(args, " in "); idx >= 0 {
				args = args[:idx]
			}
			for _, name := range reIdent.FindAllString(args, -1) {
				bound[name] = true
			}
		case "set":
			if name := reIdent.FindString(args); name != "" {
				bound[name] = true
			}
		case "with":
			bindWith(args, bound)
		case "macro":
			bindMacro(args, bound)
		case "cycle", "import":
			if idx := strings.LastIndex(args, " as "); idx >= 0 {
				if name := reIdent.FindString(args[idx+4:]); name != "" {
					bound[name] = true
				}
			}
			if tag == "import" {
				for _, name := range reIdent.FindAllString(args, -1) {
					if !keywords[name] {
						bound[name] = true
					}
				}
			}
		}
	}
	return bound
}

func bindWith(args string, bound map[string]bool) {
	fields := strings.Fields(args)
	for i, f := range fields {
		if f == "as" && i+1 < len(fields) {
			bound[fields[i+1]] = true
			continue
		}
		if idx := strings.Index(f, "="); idx > 0 {
			bound[f[:idx]] = true
		}
	}
}

func bindMacro(args string, bound map[string]bool) {
	open := strings.Index(args, "(")
	if open < 0 {
		return
	}
	if name := reIdent.FindString(args[:open]); name != "" {
		bound[name] = true
	}
	params := args[open+1:]
	if end := strings.Index(params, ")"); end >= 0 {
		params = params[:end]
	}
	for _, p := range strings.Split(params, ",") {
		if name := reIdent.FindString(p); name != "" {
			bound[name] = true
		}
	}
}

// rootNames returns the identifiers an expression looks up in the context
// and needs defined
func rootNames(expr string) []string {
	return lookups(expr, true)
}

// lookups returns the identifiers expr looks up in the context: not
// attribute accesses, filter names, keywords or string contents. With
// exemptOr the operand on the left of each or is dropped.
func lookups(expr string, exemptOr bool) []string {
	var names []string
	operand := 0
	prev := byte(0)

	for i := 0; i < len(expr); {
		c := expr[i]
		switch {
		case c == '"' || c == '\'':
			i = skipString(expr, i)
			prev = c
		case isIdentStart(c):
			start := i
			for i < len(expr) && isIdentChar(expr[i]) {
				i++
			}
			name := expr[start:i]
			switch {
			case prev == '.' || prev == '|':
			case name == "or" || name == "and":
				names, operand = operator(names, operand, name == "or" && exemptOr)
			case !keywords[name]:
				names = append(names, name)
			}
			prev = 'a'
		case isDigit(c):
			for i < len(expr) && (isIdentChar(expr[i]) || expr[i] == '.') {
				i++
			}
			prev = '0'
		case (c == '|' || c == '&') && i+1 < len(expr) && expr[i+1] == c:
			names, operand = operator(names, operand, c == '|' && exemptOr)
			prev = ' '
			i += 2
		case c == ' ' || c == '\t':
			i++
		default:
			prev = c
			i++
		}
	}
	return names
}

// operator starts a new operand, dropping the finished one when it is the
// left side of an or
func operator(names []string, operand int, drop bool) ([]string, int) {
	if drop {
		names = names[:operand]
	}
	return names, len(names)
}

// stripStrings blanks quoted strings so their contents are not mistaken
// for names
func stripStrings(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); {
		if s[i] == '"' || s[i] == '\'' {
			end := skipString(s, i)
			sb.WriteString(strings.Repeat(" ", end-i))
			i = end
			continue
		}
		sb.WriteByte(s[i])
		i++
	}
	return sb.String()
}

// skipString returns the index just past the string literal starting at i
func skipString(s string, i int) int {
	quote := s[i]
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case quote:
			return j + 1
		}
	}
	return len(s)
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
