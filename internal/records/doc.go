// Package records defines the post record shared by every layer of postboard,
// the draft used to create one, and the error taxonomy returned by the remote
// gateway and the mutation engine.
//
// # Error Taxonomy
//
// Callers classify failures with errors.Is against the sentinels:
//
//   - ErrNotFound: the remote says the identifier does not exist (404)
//   - ErrTransport: the request never produced a response (dial, timeout, cancel)
//   - ErrServer: the remote answered with a 5xx status
//   - ErrRejected: the remote answered with any other 4xx status
//   - ErrMalformed: the response body could not be decoded
//   - ErrValidation: the caller supplied invalid fields; no request was sent
//
// StatusError and ValidationError carry the detail and unwrap to the
// matching sentinel.
package records
