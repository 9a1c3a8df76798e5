// Package flog provides fiber.Ctx helpers for zerolog.
package flog

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// FromFiberCtx gets the logger in the request's context.
func FromFiberCtx(c *fiber.Ctx) *zerolog.Logger {
	return log.Ctx(c.UserContext())
}

// NewHandlerMiddleware injects a copy of l into every request's context.
func NewHandlerMiddleware(l zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// copy the internal context slice so UpdateContext calls do not race
		rl := l.With().Logger()
		c.SetUserContext(rl.WithContext(c.UserContext()))
		return c.Next()
	}
}

// FieldHandler adds the value extracted from each request as a field to the
// context's logger.
func FieldHandler(fieldKey string, value func(c *fiber.Ctx) string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v := value(c)
		zerolog.Ctx(c.UserContext()).UpdateContext(func(zc zerolog.Context) zerolog.Context {
			return zc.Str(fieldKey, v)
		})
		return c.Next()
	}
}

func Method(c *fiber.Ctx) string    { return c.Method() }
func Path(c *fiber.Ctx) string      { return c.Path() }
func IP(c *fiber.Ctx) string        { return c.IP() }
func UserAgent(c *fiber.Ctx) string { return c.Get(fiber.HeaderUserAgent) }

type idKey struct{}

// IDFromFiberCtx returns the unique id associated to the request if any.
func IDFromFiberCtx(c *fiber.Ctx) (id xid.ID, ok bool) {
	if c == nil {
		return
	}
	return IDFromCtx(c.UserContext())
}

func IDFromCtx(ctx context.Context) (id xid.ID, ok bool) {
	id, ok = ctx.Value(idKey{}).(xid.ID)
	return
}

func CtxWithID(ctx context.Context, id xid.ID) context.Context {
	return context.WithValue(ctx, idKey{}, id)
}

// RequestIDHandler assigns an xid to every request. The id is added to the
// logger under fieldKey, and echoed in headerName when that is not empty.
func RequestIDHandler(fieldKey, headerName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := IDFromFiberCtx(c)
		if !ok {
			id = xid.New()
			c.SetUserContext(CtxWithID(c.UserContext(), id))
		}
		if fieldKey != "" {
			FromFiberCtx(c).UpdateContext(func(zc zerolog.Context) zerolog.Context {
				return zc.Str(fieldKey, id.String())
			})
		}
		if headerName != "" {
			c.Set(headerName, id.String())
		}
		return c.Next()
	}
}

// AccessHandler returns a handler that calls f after each request.
func AccessHandler(f func(c *fiber.Ctx, duration time.Duration)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		f(c, time.Since(start))
		return err
	}
}

func DebugFrom(c *fiber.Ctx) *zerolog.Event {
	return FromFiberCtx(c).Debug()
}

func InfoFrom(c *fiber.Ctx) *zerolog.Event {
	return FromFiberCtx(c).Info()
}

func WarnFrom(c *fiber.Ctx) *zerolog.Event {
	return FromFiberCtx(c).Warn()
}

func ErrorFrom(c *fiber.Ctx) *zerolog.Event {
	return FromFiberCtx(c).Error()
}
