package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const roleAdmin = "ADMIN"

// 管理者専用ルートのガード。AuthJWTの後段に置く前提で、
// contextのroleを見てADMIN以外を403で止める。
func AdminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawRole := c.Get(CtxUserRoleKey)
			role, ok := rawRole.(string)
			if !ok || role == "" {
				//AuthJWTを通っていない
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			if role != roleAdmin {
				return c.JSON(http.StatusForbidden, errorJSON("admin only"))
			}

			return next(c)
		}
	}
}
