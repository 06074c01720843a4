package middleware

// identity.go exposes the caller identity that JWTAuth left in the Echo
// context to handlers and to the other middleware.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// MemberID returns the authenticated member id, if any.
func MemberID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(ctxMemberID).(uint64)
	return id, ok && id != 0
}

// Role returns the authenticated role in upper case, or "" for guests.
func Role(c echo.Context) string {
	r, _ := c.Get(ctxRole).(string)
	return r
}

// IsAdmin reports whether the caller holds the ADMIN role.
func IsAdmin(c echo.Context) bool { return Role(c) == RoleAdmin }

// callerKey identifies the caller for rate limiting: the member id, or
// "guest" when the request is anonymous.
func callerKey(c echo.Context) string {
	if id, ok := MemberID(c); ok {
		return strconv.FormatUint(id, 10)
	}
	return "guest"
}
