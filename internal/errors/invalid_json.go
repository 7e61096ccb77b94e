package errors

const InvalidJSONMessage = "malformed JSON payload"

// InvalidJSON reports an undecodable request body as a validation failure on "body".
func InvalidJSON() *ValidationError {
	e := NewValidationError()
	e.Add("body", InvalidJSONMessage)
	return e
}
