package catalog

import (
	"fmt"

	"github.com/cognicore/deinflect/pkg/deinflect/internalerr"
)

// CatalogError reports a malformed entry rejected by Build.
type CatalogError struct {
	Index  int // position of the offending entry
	Reason string
	Msg    string
}

func (e *CatalogError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("catalog entry %d (%s): %s", e.Index, e.Reason, e.Msg)
	}
	return fmt.Sprintf("catalog entry %d: %s", e.Index, e.Msg)
}

func (e *CatalogError) Unwrap() error { return internalerr.ErrInvalidCatalog }
