package watering

import "errors"

const (
	CodeInvalidInput    = "invalid_input"
	CodeInvalidProfile  = "invalid_profile"
	CodeProfileNotFound = "profile_not_found"

	// CodeCatalogUnavailable reports a species lookup that failed for reasons
	// other than an unknown species.
	CodeCatalogUnavailable = "catalog_unavailable"
)

// ErrProfileNotFound is returned by repositories for unknown species.
var ErrProfileNotFound = errors.New("plant profile not found")
