package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealth(t *testing.T) {
	e := echo.New()
	e.GET("/ok", Health(pingFunc(func(context.Context) error { return nil })))
	e.GET("/down", Health(pingFunc(func(context.Context) error { return errors.New("refused") })))

	rec := get(e, "/ok")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = get(e, "/down")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
