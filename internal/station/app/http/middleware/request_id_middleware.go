// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"github.com/gofiber/fiber/v3"

	"fieldnotes/pkg/logger"
)

// HeaderRequestID - заголовок сквозного идентификатора запроса.
const HeaderRequestID = "X-Request-ID"

// NewRequestIDMiddleware создает промежуточное ПО, прокидывающее
// идентификатор запроса в контекст и ответ. Идентификатор из заголовка
// клиента переиспользуется, иначе генерируется новый.
func NewRequestIDMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := logger.NewRequestIDContext(ctx.Context(), ctx.Get(HeaderRequestID))

		ctx.Locals("userContext", requestCtx)
		if requestID, ok := logger.GetRequestID(requestCtx); ok {
			ctx.Set(HeaderRequestID, requestID)
		}

		return ctx.Next()
	}
}
