package translation

// APIError is an error the translation API itself reported, either a
// missing credential or an error object embedded in a 200 response.
// Its message is safe to show to the requesting user.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// ErrMissingToken is returned before any network activity when no API
// key is configured.
var ErrMissingToken = &APIError{Message: "The API token is missing."}
