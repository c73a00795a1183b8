package gameweek

import (
	crerr "github.com/cockroachdb/errors"
)

var ErrInvalidFixtureToken = crerr.New("invalid fixture token")

type Location string

const (
	Home Location = "H"
	Away Location = "A"
)

// Fixture is a decoded "<TEAM>(<LOC>)" token such as "LEI(H)".
type Fixture struct {
	Team     string
	Location Location
}

// ParseFixture splits a fixture token into team code and home/away marker.
// The team is everything but the trailing three characters; the location is
// the second-to-last character.
func ParseFixture(token string) (Fixture, error) {
	if len(token) < 4 {
		return Fixture{}, crerr.Wrapf(ErrInvalidFixtureToken, "token %q too short", token)
	}

	loc := Location(token[len(token)-2 : len(token)-1])
	if loc != Home && loc != Away {
		return Fixture{}, crerr.Wrapf(ErrInvalidFixtureToken, "token %q has location %q", token, string(loc))
	}

	return Fixture{
		Team:     token[:len(token)-3],
		Location: loc,
	}, nil
}
