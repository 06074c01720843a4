package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-club/internal/authtoken"
)

// Context keys set by JWTAuth.
const (
	ctxMemberID = "member_id"
	ctxRole     = "role"
)

// JWTAuth returns an Echo middleware that validates an HS256 Bearer token
// and stores the member id and role in the request context. When issuer is
// non-empty the "iss" claim must match it.
func JWTAuth(secret, issuer string) echo.MiddlewareFunc {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	parser := jwt.NewParser(opts...)
	key := []byte(secret)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return unauthorized(c, "missing bearer token")
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

			var claims authtoken.Claims
			tok, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
				return key, nil
			})
			if err != nil || !tok.Valid {
				return unauthorized(c, "invalid token")
			}

			id, err := strconv.ParseUint(claims.Subject, 10, 64)
			if err != nil || id == 0 {
				return unauthorized(c, "invalid subject")
			}

			c.Set(ctxMemberID, id)
			c.Set(ctxRole, strings.ToUpper(claims.Role))
			return next(c)
		}
	}
}

func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": msg})
}
