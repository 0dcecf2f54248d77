package whatsapp

import (
	"net/http"

	"github.com/t-ega/whatsapp-cloud-sdk/errx"
)

// Errors is the error registry for the whatsapp package
var Errors = errx.NewRegistry("WA")

var (
	// ErrValidationFailed covers malformed outbound request parameters.
	// These are raised locally and never reach the network.
	ErrValidationFailed = Errors.Register("VALIDATION_FAILED", errx.TypeValidation, http.StatusBadRequest, "Invalid outbound message parameters")

	// ErrParseFailed covers webhook payloads missing the fields required to
	// act on a message (id, from, timestamp)
	ErrParseFailed = Errors.Register("PARSE_FAILED", errx.TypeBadRequest, http.StatusBadRequest, "Failed to parse webhook payload")

	// ErrNetworkFailure covers transport-level failures: timeouts, DNS,
	// connection resets
	ErrNetworkFailure = Errors.Register("NETWORK_FAILURE", errx.TypeNetwork, http.StatusBadGateway, "Network failure while calling the Cloud API")

	// ErrPlatformError carries a decoded Cloud API error envelope
	ErrPlatformError = Errors.Register("PLATFORM_ERROR", errx.TypeExternal, http.StatusBadGateway, "Cloud API returned an error")

	// ErrConfigInvalid covers missing or malformed bot configuration
	ErrConfigInvalid = Errors.Register("CONFIG_INVALID", errx.TypeValidation, http.StatusInternalServerError, "Invalid bot configuration")
)
