// Package apperr defines the error taxonomy of the catalog client.
//
// # Error Types
//
//   - ValidationError: local pre-flight failure, no network call was made.
//   - FetchError: transport failure (timeout, refused connection, non-2xx without a body).
//   - RemoteError: the remote store rejected a well-formed request (404, 409, 422, 500 ...).
//   - DecodeError: the response body did not match the expected shape.
//   - InternalError: an invariant inside the client was violated.
//
// Errors are returned as pointers and wrapped with fmt.Errorf("...: %w", err),
// so callers inspect them with errors.As.
//
// # HTTP Mapping
//
// HTTPStatus and Message translate any error into the status code and the single
// user-visible message used by the admin API.
package apperr
