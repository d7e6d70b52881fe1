// Package clientip resolves the address of the client behind an HTTP request,
// honoring CF-Connecting-IP, X-Forwarded-For and X-Real-IP before RemoteAddr.
// The headers are trusted as sent, so deploy behind a proxy that sets them.
package clientip
