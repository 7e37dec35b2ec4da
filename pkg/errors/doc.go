// Package errors provides structured error handling with error codes for simple-account.
//
// Services return *Error values; the HTTP layer maps the code to a status and the
// message to the response envelope. Validation failures carry FieldErrors, a map of
// request field to messages, which becomes the envelope's data.
//
// # Basic Usage
//
//	fields := errors.FieldErrors{}
//	fields.Add("email", "The email has already been taken.")
//	return errors.Validation(fields)
//
//	if errors.IsCode(err, errors.ErrCodeNotFound) {
//		...
//	}
//
// # HTTP Status Mapping
//
//	VALIDATION_FAILED   422
//	UNAUTHORIZED        401
//	UNAUTHENTICATED     401
//	FORBIDDEN           403
//	NOT_FOUND           404
//	INCORRECT_PASSWORD  400
//	RATE_LIMIT_EXCEEDED 429
//	anything else       500
package errors
