// Package httpapi exposes the login handshake as a JSON request/response API
// mounted on a chi router.
package httpapi
