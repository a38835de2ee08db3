// Package core contains the login handshake that links a bridged identity to an
// external messaging account: stage handlers, the provider failure classifier,
// pending command coordination and the post-login trigger. Front ends (HTTP and
// interactive commands) depend on this package; core must not depend on them.
package core
