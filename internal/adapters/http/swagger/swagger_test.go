package swagger_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/grcup/apexcoach/internal/adapters/http/swagger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRegister(t *testing.T) {
	Convey("Given a mux with docs routes registered", t, func() {
		mux := http.NewServeMux()
		swagger.Register(context.Background(), mux)

		Convey("GET /api-docs serves the ReDoc page", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api-docs", nil))

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
			So(rec.Body.String(), ShouldContainSubstring, "redoc")
		})

		Convey("GET /openapi.yaml serves the embedded spec", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "GR Cup Corner Analytics API")
			So(rec.Body.String(), ShouldContainSubstring, "/api/drivers/{id}/opportunities")
		})

		Convey("Registering on a nil mux panics", func() {
			So(func() { swagger.Register(context.Background(), nil) }, ShouldPanicWith, "mux is nil")
		})
	})
}
