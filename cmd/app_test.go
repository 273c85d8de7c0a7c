package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/copypastelearn/cpl/api"
	"github.com/copypastelearn/cpl/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"
)

func TestNewClientWith(t *testing.T) {
	Convey("Given a server that rejects the token", t, func() {
		keyring.MockInit()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()
		base := viper.GetString(key.APIBaseURL)
		viper.Set(key.APIBaseURL, srv.URL)
		defer viper.Set(key.APIBaseURL, base)

		Convey("The sign-in notice goes to the given notify", func() {
			var notices []string
			client := newClientWith(func(text string) { notices = append(notices, text) })

			_, err := client.Dashboard(context.Background())
			So(api.IsAuth(err), ShouldBeTrue)
			So(notices, ShouldResemble, []string{sessionEnded})
		})
	})
}
