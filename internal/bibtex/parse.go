package bibtex

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/matsen/bibtidy/internal/reference"
)

// Parse reads BibTeX source. It never fails as a whole: blocks that cannot be
// turned into entries are collected in Library.Failed with their kind, so the
// caller decides which kinds are fatal.
//
// Braces are counted the way BibTeX counts them, without regard to
// backslashes, so $\{$ and $\}$ must still balance.
func Parse(src string) *Library {
	p := &parser{
		src:  strings.TrimPrefix(src, "\ufeff"),
		lib:  &Library{},
		keys: make(map[string]bool),
	}
	p.run()
	return p.lib
}

type parser struct {
	src  string
	lib  *Library
	keys map[string]bool
}

func (p *parser) run() {
	pos, textStart := 0, 0
	for {
		at := strings.IndexByte(p.src[pos:], '@')
		if at < 0 {
			break
		}
		at += pos

		typ, open, ok := p.header(at)
		if !ok {
			// A stray @, e.g. an email address in free text
			pos = at + 1
			continue
		}

		p.addText(textStart, at)
		pos = p.block(at, typ, open)
		textStart = pos
	}
	p.addText(textStart, len(p.src))
}

// header reads "@type{" or "@type(" starting at the @ and returns the type
// and the position of the opening delimiter.
func (p *parser) header(at int) (string, int, bool) {
	i := skipSpace(p.src, at+1)
	start := i
	for i < len(p.src) && isIdent(p.src[i]) {
		i++
	}
	typ := p.src[start:i]
	if typ == "" {
		return "", 0, false
	}
	i = skipSpace(p.src, i)
	if i >= len(p.src) || (p.src[i] != '{' && p.src[i] != '(') {
		return "", 0, false
	}
	return typ, i, true
}

// block parses the block whose opening delimiter is at open and returns the
// position just past it.
func (p *parser) block(at int, typ string, open int) int {
	line := p.lineAt(at)
	end, ok := matchClose(p.src, open)
	if !ok {
		next := nextBlockStart(p.src, open+1)
		p.fail(Failure{Kind: Syntax, Line: line, Message: "unterminated block", Raw: p.src[at:next]})
		return next
	}

	raw := p.src[at : end+1]
	switch strings.ToLower(typ) {
	case "comment":
		p.lib.Blocks = append(p.lib.Blocks, Block{Kind: CommentBlock, Line: line, Raw: raw})
	case "string":
		p.lib.Blocks = append(p.lib.Blocks, Block{Kind: StringBlock, Line: line, Raw: raw})
	case "preamble":
		p.lib.Blocks = append(p.lib.Blocks, Block{Kind: PreambleBlock, Line: line, Raw: raw})
	default:
		p.entry(typ, p.src[open+1:end], raw, line)
	}
	return end + 1
}

func (p *parser) entry(typ, body, raw string, line int) {
	key, rest := body, ""
	if comma := strings.IndexByte(body, ','); comma >= 0 {
		key, rest = body[:comma], body[comma+1:]
	}
	key = strings.TrimSpace(key)
	if !validKey(key) {
		p.fail(Failure{Kind: Syntax, Line: line, Key: key, Message: "invalid entry key", Raw: raw})
		return
	}

	fields, err := parseFields(rest)
	if err != nil {
		p.fail(Failure{Kind: Syntax, Line: line, Key: key, Message: err.Error(), Raw: raw})
		return
	}

	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		name := strings.ToLower(f.Name)
		if seen[name] {
			p.fail(Failure{Kind: DuplicateField, Line: line, Key: key, Message: "duplicate field " + f.Name, Raw: raw})
			return
		}
		seen[name] = true
	}

	if p.keys[key] {
		p.fail(Failure{Kind: DuplicateKey, Line: line, Key: key, Message: "duplicate entry key", Raw: raw})
		return
	}
	p.keys[key] = true

	p.lib.Blocks = append(p.lib.Blocks, Block{
		Kind:  EntryBlock,
		Line:  line,
		Entry: &reference.Entry{Key: key, Type: typ, Fields: fields},
	})
}

// parseFields parses "name = value, name = value" where each value is a
// '#'-joined sequence of {braced}, "quoted" or bare parts.
func parseFields(s string) ([]reference.Field, error) {
	var fields []reference.Field
	i := 0
	for {
		for i < len(s) && (isSpace(s[i]) || s[i] == ',') {
			i++
		}
		if i >= len(s) {
			return fields, nil
		}

		start := i
		for i < len(s) && isNameChar(s[i]) {
			i++
		}
		name := s[start:i]
		if name == "" {
			return nil, fmt.Errorf("expected field name near %q", excerpt(s, start))
		}
		i = skipSpace(s, i)
		if i >= len(s) || s[i] != '=' {
			return nil, fmt.Errorf("expected '=' after field %s", name)
		}
		i = skipSpace(s, i+1)

		f, next, err := parseValue(s, i)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		f.Name = name
		fields = append(fields, f)

		i = skipSpace(s, next)
		if i < len(s) && s[i] != ',' {
			return nil, fmt.Errorf("expected ',' after field %s", name)
		}
	}
}

func parseValue(s string, i int) (reference.Field, int, error) {
	start := i
	var inner string
	parts, delimited := 0, false
	for {
		i = skipSpace(s, i)
		if i >= len(s) {
			return reference.Field{}, 0, fmt.Errorf("missing value")
		}
		switch s[i] {
		case '{':
			end, ok := matchClose(s, i)
			if !ok {
				return reference.Field{}, 0, fmt.Errorf("unbalanced braces")
			}
			inner, delimited = s[i+1:end], true
			i = end + 1
		case '"':
			end, ok := matchQuote(s, i)
			if !ok {
				return reference.Field{}, 0, fmt.Errorf("unterminated quoted value")
			}
			inner, delimited = s[i+1:end], true
			i = end + 1
		default:
			j := i
			for j < len(s) && isBareChar(s[j]) {
				j++
			}
			if j == i {
				return reference.Field{}, 0, fmt.Errorf("unexpected %q", s[i])
			}
			delimited = false
			i = j
		}
		parts++

		j := skipSpace(s, i)
		if j < len(s) && s[j] == '#' {
			i = j + 1
			continue
		}
		break
	}

	if parts == 1 && delimited {
		return reference.Field{Value: inner}, i, nil
	}
	return reference.Field{Value: strings.TrimSpace(s[start:i]), Bare: true}, i, nil
}

// matchClose returns the position of the delimiter closing the '{' or '('
// at open. Parentheses close only at brace depth zero.
func matchClose(s string, open int) (int, bool) {
	if s[open] == '(' {
		depth := 0
		for i := open + 1; i < len(s); i++ {
			switch s[i] {
			case '{':
				depth++
			case '}':
				depth--
			case ')':
				if depth == 0 {
					return i, true
				}
			}
		}
		return 0, false
	}

	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// matchQuote returns the position of the '"' closing the one at open.
// Quotes nested inside braces do not count.
func matchQuote(s string, open int) (int, bool) {
	depth := 0
	for i := open + 1; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
		case '"':
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// nextBlockStart returns the position of the next '@' that starts a line,
// used to resynchronize after a malformed block.
func nextBlockStart(s string, from int) int {
	if i := strings.Index(s[from:], "\n@"); i >= 0 {
		return from + i + 1
	}
	return len(s)
}

func (p *parser) addText(from, to int) {
	if t := strings.TrimSpace(p.src[from:to]); t != "" {
		p.lib.Blocks = append(p.lib.Blocks, Block{Kind: TextBlock, Line: p.lineAt(from), Raw: t})
	}
}

func (p *parser) fail(f Failure) {
	p.lib.Failed = append(p.lib.Failed, f)
}

func (p *parser) lineAt(pos int) int {
	return strings.Count(p.src[:pos], "\n") + 1
}

func validKey(key string) bool {
	if key == "" {
		return false
	}
	return !strings.ContainsFunc(key, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(`={}"#`, r)
	})
}

func skipSpace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isIdent(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isNameChar(c byte) bool {
	return !isSpace(c) && !strings.ContainsRune(`=,{}"#()`, rune(c))
}

func isBareChar(c byte) bool {
	return !isSpace(c) && !strings.ContainsRune(`,#{}"`, rune(c))
}

func excerpt(s string, i int) string {
	end := i + 20
	if end > len(s) {
		end = len(s)
	}
	return s[i:end]
}
