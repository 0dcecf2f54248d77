/*
Package errx provides structured errors with types, codes, details, HTTP
status mapping and error wrapping.

Domain packages create a registry with prefixed error codes:

	waErrors := errx.NewRegistry("WA")
	ErrParseFailed := waErrors.Register("PARSE_FAILED", errx.TypeBadRequest, http.StatusBadRequest, "Failed to parse webhook payload")

	err := waErrors.New(ErrParseFailed).
		WithDetail("field", "timestamp").
		WithCause(underlying)

Errors compare by code through errors.Is, so callers can branch on
registered sentinels:

	if errx.IsCode(err, ErrParseFailed) { ... }
	if errx.IsType(err, errx.TypeValidation) { ... }

ToHTTP and ToFiber render the error as a JSON response body with the
registered status code.
*/
package errx
