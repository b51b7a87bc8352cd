package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/joshwanee/hcdc-partnership/internal/authz"
	"github.com/joshwanee/hcdc-partnership/internal/core/domain"
	"github.com/joshwanee/hcdc-partnership/internal/infra/security"
)

// IdentityKey is the context key holding the resolved *authz.Identity.
const IdentityKey = "identity"

// ErrorResponse matches the handlers.ErrorResponse structure
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// newErrorResponse creates an error response with trace ID
func newErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	return ErrorResponse{
		Error:   errorMsg,
		TraceID: GetTraceID(c),
	}
}

// RequireAuth validates the Authorization header and stores the resolved
// identity in the request context. Requests without a valid bearer token are
// rejected with 401.
func RequireAuth(tokens *security.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, errMsg := bearerToken(c)
		if errMsg != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, newErrorResponse(c, errMsg))
			return
		}

		identity, err := resolveIdentity(tokens, token)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		setIdentity(c, identity)
		c.Next()
	}
}

// OptionalAuth resolves the identity when a bearer token is present and
// otherwise lets the request through anonymously. Malformed or expired
// tokens are still rejected so stale credentials fail loudly instead of
// silently downgrading to public access.
func OptionalAuth(tokens *security.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}

		token, errMsg := bearerToken(c)
		if errMsg != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, newErrorResponse(c, errMsg))
			return
		}

		identity, err := resolveIdentity(tokens, token)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		setIdentity(c, identity)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, err error) {
	if errors.Is(err, security.ErrExpiredToken) {
		c.AbortWithStatusJSON(http.StatusUnauthorized,
			newErrorResponse(c, "access token expired"))
		return
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		newErrorResponse(c, "invalid access token"))
}

func bearerToken(c *gin.Context) (string, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", "missing authorization header"
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", "invalid authorization format: expected 'Bearer <token>'"
	}

	if !strings.EqualFold(parts[0], "Bearer") {
		return "", "invalid authorization format: must start with 'Bearer'"
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", "missing access token"
	}

	return token, ""
}

func resolveIdentity(tokens *security.TokenManager, token string) (*authz.Identity, error) {
	claims, err := tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return nil, security.ErrInvalidToken
	}

	return &authz.Identity{
		UserID:       claims.UserID,
		Role:         role,
		CollegeID:    claims.College,
		DepartmentID: claims.Department,
	}, nil
}

func setIdentity(c *gin.Context, identity *authz.Identity) {
	c.Set(IdentityKey, identity)
	c.Set(UserIDKey, identity.UserID)

	if reqCtx := GetRequestContext(c); reqCtx != nil {
		reqCtx.UserID = identity.UserID
	}
}

// GetIdentity retrieves the authenticated identity from the Gin context. It
// returns nil for anonymous requests.
func GetIdentity(c *gin.Context) *authz.Identity {
	if v, exists := c.Get(IdentityKey); exists {
		if id, ok := v.(*authz.Identity); ok {
			return id
		}
	}
	return nil
}
