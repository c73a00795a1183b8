package app

import (
	"regexp"
	"strconv"
	"strings"
)

const maxTracedQueryLength = 512

var (
	queryWhitespaceRegex = regexp.MustCompile(`\s+`)
	placeholderListRegex = regexp.MustCompile(`\(\$1(?:, \$\d+)+\)`)
	lastPlaceholderRegex = regexp.MustCompile(`\$(\d+)\)$`)
)

// formatDBQueryForTrace keeps span statements short: the generated upserts
// repeat every column in VALUES and in DO UPDATE SET, so both lists are
// summarised before the length cap applies.
func formatDBQueryForTrace(query string) string {
	query = strings.TrimSpace(queryWhitespaceRegex.ReplaceAllString(query, " "))
	if query == "" {
		return query
	}

	query = placeholderListRegex.ReplaceAllStringFunc(query, func(list string) string {
		last := lastPlaceholderRegex.FindStringSubmatch(list)
		return "($1..$" + last[1] + ")"
	})

	if head, sets, ok := strings.Cut(query, " DO UPDATE SET "); ok {
		n := strings.Count(sets, "= EXCLUDED.")
		query = head + " DO UPDATE SET <" + strconv.Itoa(n) + " columns>"
	}

	if len(query) <= maxTracedQueryLength {
		return query
	}
	return query[:maxTracedQueryLength] + "..."
}
