// Package cookie issues HttpOnly cookies whose values are signed with
// HMAC-SHA256, with support for secret rotation.
package cookie
