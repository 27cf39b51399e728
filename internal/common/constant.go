package common

// TokenCookieName is the HTTP-only cookie that carries the session token
// between the browser/CLI client and the API.
const TokenCookieName = "token"

// BearerPrefix is the scheme accepted in the Authorization header as an
// alternative to the cookie.
const BearerPrefix = "Bearer "
