package types

import "errors"

// Expected failure modes of the pipeline. All of them are recovered locally
// and can be rendered as an ErrorResult; none should escape as a fault.
var (
	// ErrDecode indicates the input bytes are not a decodable raster image.
	ErrDecode = errors.New("image decode failed")

	// ErrNoFood indicates the image content is unlikely to be food
	// (brightness/variance screen).
	ErrNoFood = errors.New("no food detected")

	// ErrUnknownCategory indicates a classifier/catalog mismatch. With a
	// complete catalog this never happens; treat it as an internal
	// invariant violation rather than a user-facing condition.
	ErrUnknownCategory = errors.New("unknown food category")

	// ErrRemoteService covers network, auth, quota and malformed-response
	// failures on the remote vision path.
	ErrRemoteService = errors.New("remote vision service error")

	// ErrMissingCredential indicates the remote service credential is not
	// configured. Surfaced before any network call is attempted.
	ErrMissingCredential = errors.New("remote service credential not configured")
)

// Error categories used in ErrorResult documents.
const (
	CategoryNoFood           = "no_food_detected"
	CategoryProcessingFailed = "processing_failed"
	CategoryRemoteService    = "remote_service_error"
)

// ErrorResult is the tagged alternative to AnalysisResult returned for
// expected failures.
type ErrorResult struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// NewErrorResult maps an error to its category and wraps the human-readable
// detail. Unknown errors fall under processing_failed.
func NewErrorResult(err error) ErrorResult {
	category := CategoryProcessingFailed
	switch {
	case errors.Is(err, ErrNoFood):
		category = CategoryNoFood
	case errors.Is(err, ErrRemoteService), errors.Is(err, ErrMissingCredential):
		category = CategoryRemoteService
	}
	return ErrorResult{Error: category, Detail: err.Error()}
}
