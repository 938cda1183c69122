package engine

import (
	"fmt"

	"github.com/sells-group/siteselect/internal/gap"
	"github.com/sells-group/siteselect/internal/recommend"
)

// The engine's error taxonomy. Callers branch on these four cases; provider
// failures never surface because catchment resolution degrades internally.
var (
	// ErrDataUnavailable reports that the reference dataset is missing or
	// empty.
	ErrDataUnavailable = recommend.ErrDataUnavailable
)

// LocationNotFoundError reports that a name matched no area and no POIs.
type LocationNotFoundError = gap.LocationNotFoundError

// EmptyResultError reports that a resolved location has no analyzable data.
type EmptyResultError = gap.EmptyResultError

// InvalidArgumentError reports a caller-supplied value outside the accepted
// domain.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("engine: invalid %s: %s", e.Field, e.Reason)
}
