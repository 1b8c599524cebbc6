package solar

// Error codes carried by apperrors.AppError values returned from this package.
const (
	CodeParse                  = "parse_error"
	CodeOrdering               = "ordering_invariant_violation"
	CodeEphemerisUnavailable   = "ephemeris_unavailable"
	CodeInvalidInterval        = "invalid_interval"
	CodeInvalidOffset          = "invalid_offset"
	CodeUnsupportedOrientation = "unsupported_orientation"
)
