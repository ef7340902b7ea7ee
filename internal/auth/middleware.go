package auth

import (
	"errors"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "researchhub/internal/errors"
)

// ContextKey is where verified claims are stored on the echo context.
const ContextKey = "identity"

// Middleware returns the bearer-token gate for secured routes. The token
// is extracted from the Authorization header and run through the verifier;
// failures are returned in the standard response envelope.
func Middleware(v Verifier) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  ContextKey,
		TokenLookup: "header:Authorization:Bearer ",
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return v.Verify(c.Request().Context(), auth)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			mapped := err
			switch {
			case errors.Is(err, apperrors.ErrMalformedToken),
				errors.Is(err, apperrors.ErrMissingSubject),
				errors.Is(err, apperrors.ErrInvalidToken):
			default:
				// No usable credential was extracted from the request.
				mapped = apperrors.ErrMissingAuthHeader
			}
			httpErr := apperrors.MapErrorToHTTP(mapped)
			return c.JSON(httpErr.StatusCode, map[string]interface{}{
				"success": false,
				"message": httpErr.Message,
				"data":    nil,
			})
		},
	})
}

// ClaimsFrom returns the verified claims stored by Middleware.
func ClaimsFrom(c echo.Context) (*IdentityClaims, bool) {
	claims, ok := c.Get(ContextKey).(*IdentityClaims)
	return claims, ok
}

// SubjectFrom returns the verified subject identifier, or "" when the
// request did not pass through Middleware.
func SubjectFrom(c echo.Context) string {
	claims, ok := ClaimsFrom(c)
	if !ok {
		return ""
	}
	return claims.UID()
}
