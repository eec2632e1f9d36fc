package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arklim/cinema-booking/internal/core/domain"
)

// PrincipalVerifier turns a bearer token into a principal.
type PrincipalVerifier interface {
	Verify(token string) (domain.Principal, error)
}

// ResolvePrincipal extracts the bearer token and stores the resulting
// principal in the request context. Requests without a token, or with one
// that fails verification, proceed as anonymous; the policy layer decides
// what anonymous callers may do, so no request is rejected here.
func ResolvePrincipal(verifier PrincipalVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := domain.Anonymous()

		if token := bearerToken(c.GetHeader("Authorization")); token != "" {
			if p, err := verifier.Verify(token); err == nil {
				principal = p
			}
		}

		c.Set(PrincipalKey, principal)
		c.Next()
	}
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GetPrincipal retrieves the resolved principal from the gin context.
func GetPrincipal(c *gin.Context) domain.Principal {
	if val, exists := c.Get(PrincipalKey); exists {
		if p, ok := val.(domain.Principal); ok {
			return p
		}
	}
	return domain.Anonymous()
}
