package security

import "strings"

// swaggerPrefix is the route the API documentation UI is served under
const swaggerPrefix = "/swagger/"

// apiPolicy forbids everything: JSON responses never load subresources.
const apiPolicy = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'; form-action 'none'"

// docsPolicy lets the bundled documentation UI run its own scripts and styles.
const docsPolicy = "default-src 'self'; " +
	"script-src 'self' 'unsafe-inline'; " +
	"style-src 'self' 'unsafe-inline'; " +
	"img-src 'self' data:; " +
	"font-src 'self' data:; " +
	"connect-src 'self'; " +
	"frame-ancestors 'none'; " +
	"base-uri 'self'; " +
	"form-action 'self'"

// contentSecurityPolicy returns the policy for a request path
func contentSecurityPolicy(path string) string {
	if strings.HasPrefix(path, swaggerPrefix) {
		return docsPolicy
	}
	return apiPolicy
}
