package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRecoverLogsStack(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)

	e := echo.New()
	e.Use(Recover(zap.New(core)))
	e.GET("/cases", func(c echo.Context) error {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cases", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	entries := logs.FilterMessage("panic recovered").All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "boom", fields["error"])
		assert.Equal(t, "/cases", fields["uri"])
		assert.Contains(t, fields["stack"], "goroutine")
	}
}
