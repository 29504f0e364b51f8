package layout

import (
	"strings"

	"github.com/Philipp01105/treelog/core"
)

// Parser compiles a conversion pattern into a converter chain. A parser
// can carry instance-level converter registrations that shadow the
// global registry for the patterns it compiles.
type Parser struct {
	pattern   string
	overrides *Registry
}

// NewParser creates a parser for the given pattern.
func NewParser(pattern string) *Parser {
	return &Parser{pattern: pattern}
}

// Register adds an instance-level converter binding. Instance bindings
// shadow global ones with the same keyword.
func (p *Parser) Register(keyword string, f ConverterFactory) {
	if p.overrides == nil {
		p.overrides = NewRegistry()
	}
	p.overrides.Register(keyword, f)
}

func (p *Parser) lookup(keyword string) (ConverterFactory, bool) {
	if p.overrides != nil {
		if f, ok := p.overrides.lookup(keyword); ok {
			return f, true
		}
	}
	return globalRegistry.lookup(keyword)
}

func (p *Parser) maxKeywordLen() int {
	max := globalRegistry.maxKeywordLen()
	if p.overrides != nil {
		if n := p.overrides.maxKeywordLen(); n > max {
			max = n
		}
	}
	return max
}

// Layout compiles the pattern and wraps the chain in a PatternLayout.
func (p *Parser) Layout() *PatternLayout {
	return &PatternLayout{pattern: p.pattern, head: p.Parse()}
}

// Parse compiles the pattern and returns the head of the converter
// chain. Parsing never fails: an unknown keyword is reported to the
// internal diagnostic log and compiles to a node that emits nothing.
func (p *Parser) Parse() *Converter {
	var head, tail *Converter
	emit := func(c *Converter) {
		if head == nil {
			head = c
		} else {
			tail.next = c
		}
		tail = c
	}

	s := p.pattern
	for len(s) > 0 {
		i := strings.IndexByte(s, '%')
		if i < 0 {
			emit(&Converter{render: literalConverter(s)})
			break
		}
		if i > 0 {
			emit(&Converter{render: literalConverter(s[:i])})
			s = s[i:]
		}
		// s starts with '%'
		s = s[1:]
		if s == "" {
			core.DiagErrorf("layout: pattern %q ends with a bare %%", p.pattern)
			emit(&Converter{render: literalConverter("%")})
			break
		}
		if s[0] == '%' {
			emit(&Converter{render: literalConverter("%")})
			s = s[1:]
			continue
		}

		var mod Modifiers
		s = parseModifiers(s, &mod)

		keyword, rest := p.matchKeyword(s)
		option, _, rest := parseOption(rest)
		s = rest

		if keyword == "" {
			// Unknown keyword: already reported, emit nothing for it.
			continue
		}
		factory, _ := p.lookup(keyword)
		emit(&Converter{render: factory(option), mod: mod})
	}
	return head
}

// matchKeyword finds the longest registered keyword that prefixes s.
// On failure it consumes the whole letter run so the bad keyword does
// not leak into the output, reports it, and returns "".
func (p *Parser) matchKeyword(s string) (keyword, rest string) {
	run := letterRun(s)
	if run == "" {
		core.DiagErrorf("layout: pattern %q has %% with no conversion keyword", p.pattern)
		return "", s
	}
	limit := len(run)
	if max := p.maxKeywordLen(); max < limit {
		limit = max
	}
	for n := limit; n >= 1; n-- {
		if _, ok := p.lookup(run[:n]); ok {
			return run[:n], s[n:]
		}
	}
	core.DiagErrorf("layout: unknown conversion keyword %q in pattern %q", run, p.pattern)
	return "", s[len(run):]
}

func letterRun(s string) string {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return s[:i]
		}
	}
	return s
}

// parseModifiers consumes the optional [-]minwidth[.maxwidth] prefix.
func parseModifiers(s string, mod *Modifiers) string {
	if s != "" && s[0] == '-' {
		mod.LeftAlign = true
		s = s[1:]
	}
	s = parseDigits(s, &mod.MinWidth)
	if s != "" && s[0] == '.' {
		s = parseDigits(s[1:], &mod.MaxWidth)
	}
	return s
}

func parseDigits(s string, out *int) string {
	n, i := 0, 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
	}
	if i > 0 {
		*out = n
	}
	return s[i:]
}

// parseOption consumes a {...} option if present. An unterminated brace
// takes the rest of the pattern as the option and is reported.
func parseOption(s string) (option string, ok bool, rest string) {
	if s == "" || s[0] != '{' {
		return "", false, s
	}
	if i := strings.IndexByte(s, '}'); i >= 0 {
		return s[1:i], true, s[i+1:]
	}
	core.DiagErrorf("layout: unterminated converter option %q", s)
	return s[1:], true, ""
}
