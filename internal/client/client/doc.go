// Package client is the HTTP client for the TodoKeeper API.
//
// HTTPClient keeps the session cookie issued by /api/users/create and
// /api/users/login in a cookie jar, so every later call is authenticated
// the same way a browser would be. Transport failures surface as
// ErrUnavailable, 401 as ErrUnauthorized and 404 as ErrNotFound; match them
// with errors.Is. Anything else non-2xx becomes *APIError carrying the
// server message and per-field validation errors.
package client
