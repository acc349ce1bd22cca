// Package placeholder provides an HTTP client for JSONPlaceholder-style
// /posts APIs.
//
// # Overview
//
// The client is the remote gateway behind a postboard session. It performs
// the four CRUD verbs against a record endpoint and decodes the JSON payloads
// into records.Record values. It owns transport, encoding and endpoint
// addressing; the session never sees HTTP.
//
// # Endpoints
//
//   - GET    /posts       List
//   - GET    /posts/{id}  Get
//   - POST   /posts       Create
//   - PUT    /posts/{id}  Replace
//   - DELETE /posts/{id}  Remove
//
// The base URL may carry a path prefix ("http://host/api" resolves to
// "http://host/api/posts").
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation
//   - Set Accept: application/json and User-Agent: postboard/0.1
//   - Carry a fresh X-Request-ID (UUID v4) for correlation in logs
//   - Wait on an optional token-bucket limiter before hitting the network
//   - Time out after Options.Timeout (10 seconds by default)
//
// # Error Handling
//
// Errors map onto the records taxonomy:
//
//   - Dial, timeout, cancelled context, limiter wait: records.ErrTransport
//   - 404: records.ErrNotFound (via *records.StatusError)
//   - 5xx: records.ErrServer (via *records.StatusError)
//   - Other 4xx: records.ErrRejected (via *records.StatusError)
//   - Undecodable body: records.ErrMalformed
//
// Example error messages:
//   - "transport failure: execute request: dial tcp: connection refused"
//   - "api GET /posts/99999 returned status 404"
//   - "malformed response: decode response: unexpected EOF"
//
// # Persistence
//
// The public JSONPlaceholder service acknowledges writes without storing
// them. The client reports what the remote answered and nothing more.
package placeholder
