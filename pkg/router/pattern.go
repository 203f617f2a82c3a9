package router

import (
	"regexp"
	"strings"

	"github.com/contractflow/dashboard/internal/errors"
)

var paramToken = regexp.MustCompile(`:\w+`)

// Route is a registered pattern. It is immutable after Register.
type Route struct {
	Pattern    string
	Handler    Handler
	Guards     Guards
	matcher    *regexp.Regexp
	paramNames []string
}

// ParamNames returns the ":name" tokens of the pattern, in order.
func (r *Route) ParamNames() []string {
	return append([]string(nil), r.paramNames...)
}

// compilePattern turns a route pattern into an anchored regex and the
// ordered list of its param names.
func compilePattern(pattern string) (*regexp.Regexp, []string, error) {
	if !strings.HasPrefix(pattern, "/") {
		return nil, nil, errors.New("E103").WithDetailf("pattern %q must start with /", pattern)
	}

	body, catchAll := strings.CutSuffix(pattern, "*")

	var (
		b     strings.Builder
		names []string
		last  int
	)
	b.WriteString("^")
	for _, loc := range paramToken.FindAllStringIndex(body, -1) {
		b.WriteString(regexp.QuoteMeta(body[last:loc[0]]))
		b.WriteString("([^/]+)")
		names = append(names, body[loc[0]+1:loc[1]])
		last = loc[1]
	}
	b.WriteString(regexp.QuoteMeta(body[last:]))
	if catchAll {
		b.WriteString(".*")
	}
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, nil, errors.New("E103").WithDetailf("pattern %q", pattern).Wrap(err)
	}
	return re, names, nil
}

// match reports whether path matches and returns the decoded params.
func (r *Route) match(path string) (Params, bool) {
	values := r.matcher.FindStringSubmatch(path)
	if values == nil {
		return nil, false
	}
	params := make(Params, 0, len(r.paramNames))
	for i, name := range r.paramNames {
		params = append(params, Param{Name: name, Value: decodeComponent(values[i+1])})
	}
	return params, true
}

// ExtractParams matches path against pattern and returns its params.
func ExtractParams(pattern, path string) (Params, bool) {
	re, names, err := compilePattern(pattern)
	if err != nil {
		return nil, false
	}
	return (&Route{matcher: re, paramNames: names}).match(path)
}
