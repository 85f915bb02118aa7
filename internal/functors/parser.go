package functors

import (
	"strings"

	dnderr "github.com/KirkDiggler/combat-rules-engine/internal/errors"
)

// ParseFunctors parses text and drops anything it cannot understand
func ParseFunctors(text string) []Functor {
	return Parse(text, nil)
}

// Parse parses text into instructions. Each unknown or malformed functor is
// skipped on its own and recorded in log; the rest still parse.
func Parse(text string, log *dnderr.Log) []Functor {
	out := []Functor{}
	for _, segment := range strings.Split(text, ";") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		f, err := parseOne(segment)
		if err != nil {
			log.Record(err)
			continue
		}
		out = append(out, f)
	}
	return out
}

func parseOne(segment string) (Functor, error) {
	open := strings.IndexByte(segment, '(')
	if open <= 0 || !strings.HasSuffix(segment, ")") {
		return Functor{}, dnderr.Malformedf("malformed functor %q", segment).WithMeta("functor", segment)
	}

	name := strings.TrimSpace(segment[:open])
	inner := segment[open+1 : len(segment)-1]
	if strings.ContainsAny(inner, "()") {
		return Functor{}, dnderr.Malformedf("nested parentheses in functor %q", segment).WithMeta("functor", segment)
	}

	t, ok := Lookup(name)
	if !ok {
		return Functor{}, dnderr.NotFoundf("unknown functor %q", name).WithMeta("functor", segment)
	}

	params := []string{}
	if strings.TrimSpace(inner) != "" {
		for _, p := range strings.Split(inner, ",") {
			params = append(params, strings.TrimSpace(p))
		}
	}

	if len(params) < minParams[t] {
		return Functor{}, dnderr.Malformedf("%s needs %d parameters, got %d", t, minParams[t], len(params)).
			WithMeta("functor", segment)
	}

	return Functor{Type: t, Params: params}, nil
}
