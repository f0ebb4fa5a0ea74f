// Package ref converts store record ids to the short references used in
// chat commands (/f0001 to fetch, /d0001 to delete) and back.
package ref

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// ErrInvalidReference is returned when a token is not a decimal reference.
var ErrInvalidReference = errors.New("invalid file reference")

// displayWidth is the zero-pad width used when rendering references.
// It is cosmetic only: ids past 9999 render wider and Parse accepts any
// number of digits.
const displayWidth = 4

// Format renders a record id as a short reference, e.g. 7 -> "0007".
func Format(id int64) string {
	return fmt.Sprintf("%0*d", displayWidth, id)
}

// Parse decodes a short reference token back into a record id.
func Parse(token string) (int64, error) {
	if token == "" {
		return 0, ErrInvalidReference
	}
	// ParseInt would accept a leading sign, which is not part of the format.
	for _, r := range token {
		if r < '0' || r > '9' {
			return 0, ErrInvalidReference
		}
	}
	id, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return 0, ErrInvalidReference
	}
	return id, nil
}
