package search

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shishobooks/booknotes/pkg/errcodes"
)

const maxQueryLength = 100

// normalizeQuery trims the query and rejects one longer than maxQueryLength
// characters. LIKE wildcards are left alone here; the store escapes them.
func normalizeQuery(input string) (string, error) {
	input = strings.TrimSpace(input)
	if utf8.RuneCountInString(input) > maxQueryLength {
		return "", errcodes.ValidationError(fmt.Sprintf(`"q" length must be less than or equal to %d characters`, maxQueryLength))
	}
	return input, nil
}
