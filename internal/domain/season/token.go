package season

import (
	"regexp"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

var ErrMalformedLocator = crerr.New("malformed season locator")

var locatorPattern = regexp.MustCompile(`/season/(\d{4}-\d{2})`)
var tokenPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// Token identifies a season, e.g. "2022-23".
type Token string

func (t Token) String() string {
	return string(t)
}

// Valid reports whether t has the YYYY-YY shape.
func (t Token) Valid() bool {
	return tokenPattern.MatchString(string(t))
}

// Resolve extracts the season token that follows the /season/ marker in a
// source locator such as https://host/api/history/season/2022-23.
func Resolve(locator string) (Token, error) {
	match := locatorPattern.FindStringSubmatch(strings.TrimSpace(locator))
	if len(match) < 2 {
		return "", crerr.Wrapf(ErrMalformedLocator, "no season token in %q", locator)
	}
	return Token(match[1]), nil
}
