package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCompare(t *testing.T) {
	Convey("Compare", t, func() {
		Convey("Orders by major, minor then patch", func() {
			for _, tc := range []struct {
				a, b string
				want int
			}{
				{"1.0.0", "0.9.9", 1},
				{"v0.3.0", "0.3.0", 0},
				{"0.3.0", "0.10.0", -1},
				{"0.3.1", "0.3.0", 1},
				{"0.4", "0.4.0", 0},
				{"v0.4.0-rc.1", "0.4.0", 0},
			} {
				got, err := Compare(tc.a, tc.b)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, tc.want)
			}
		})

		Convey("Rejects malformed versions", func() {
			_, err := Compare("latest", "0.1.0")
			So(err, ShouldNotBeNil)

			_, err = Compare("0.1.0", "1.2.3.4")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestFetch(t *testing.T) {
	Convey("Given a releases endpoint", t, func() {
		tag := "v0.4.1"
		status := http.StatusOK
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"tag_name":"` + tag + `"}`))
		}))
		defer srv.Close()

		Convey("The tag is returned without its prefix", func() {
			ver, err := fetch(context.Background(), srv.URL)
			So(err, ShouldBeNil)
			So(ver, ShouldEqual, "0.4.1")
		})

		Convey("An empty tag is an error", func() {
			tag = ""
			_, err := fetch(context.Background(), srv.URL)
			So(err, ShouldNotBeNil)
		})

		Convey("A failed request is an error", func() {
			status = http.StatusForbidden
			_, err := fetch(context.Background(), srv.URL)
			So(err, ShouldNotBeNil)
		})
	})
}
