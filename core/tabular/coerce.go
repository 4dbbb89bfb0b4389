package tabular

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gcopen/cheetah/schema"
)

// ErrNotNumeric is returned when a cell cannot be read as a number.
var ErrNotNumeric = errors.New("value is not numeric")

// CoerceNumeric converts every textual cell to a number. Missing and numeric
// cells pass through. The input is never modified; on the first failure the
// error names the offending row and no result is returned.
func CoerceNumeric(values []schema.Value) ([]schema.Value, error) {
	out := make([]schema.Value, len(values))
	for i, v := range values {
		switch v.Kind() {
		case schema.KindMissing, schema.KindNumber:
			out[i] = v
		case schema.KindText:
			s, _ := v.Text()
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d holds %q", ErrNotNumeric, i, s)
			}
			out[i] = schema.Number(f)
		default:
			return nil, fmt.Errorf("%w: row %d holds a %s", ErrNotNumeric, i, v.Kind())
		}
	}
	return out, nil
}
