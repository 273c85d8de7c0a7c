package auth

import (
	"context"
	"testing"
	"time"

	"github.com/copypastelearn/cpl/key"
	"github.com/golang-jwt/jwt/v5"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"
)

func signed(exp time.Time) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user_1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		panic(err)
	}
	return s
}

func TestExpired(t *testing.T) {
	Convey("Expired", t, func() {
		now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

		So(Expired(signed(now.Add(-time.Minute)), now), ShouldBeTrue)
		So(Expired(signed(now.Add(time.Hour)), now), ShouldBeFalse)
		So(Expired("opaque-session-token", now), ShouldBeFalse)
	})
}

func TestProvider(t *testing.T) {
	Convey("Given an empty keyring", t, func() {
		keyring.MockInit()
		viper.Set(key.AuthToken, "")
		p := NewProvider()
		ctx := context.Background()

		Convey("The token is absent, not an error", func() {
			token, err := p.Token(ctx)
			So(err, ShouldBeNil)
			So(token, ShouldBeEmpty)
		})

		Convey("A saved token is returned", func() {
			So(p.Save("abc"), ShouldBeNil)
			token, err := p.Token(ctx)
			So(err, ShouldBeNil)
			So(token, ShouldEqual, "abc")

			Convey("A fresh provider reads it from the keyring", func() {
				token, err := NewProvider().Token(ctx)
				So(err, ShouldBeNil)
				So(token, ShouldEqual, "abc")
			})

			Convey("Sign out clears it everywhere", func() {
				So(p.SignOut(), ShouldBeNil)
				token, _ := p.Token(ctx)
				So(token, ShouldBeEmpty)
				token, _ = NewProvider().Token(ctx)
				So(token, ShouldBeEmpty)
			})
		})

		Convey("An expired token is treated as absent", func() {
			So(SetToken(signed(time.Now().Add(-time.Hour))), ShouldBeNil)
			token, err := NewProvider().Token(ctx)
			So(err, ShouldBeNil)
			So(token, ShouldBeEmpty)
		})

		Convey("The auth.token setting wins", func() {
			viper.Set(key.AuthToken, "from-env")
			defer viper.Set(key.AuthToken, "")
			So(SetToken("from-keyring"), ShouldBeNil)

			token, err := NewProvider().Token(ctx)
			So(err, ShouldBeNil)
			So(token, ShouldEqual, "from-env")
		})

		Convey("Signing out twice is fine", func() {
			So(p.SignOut(), ShouldBeNil)
			So(p.SignOut(), ShouldBeNil)
		})

		Convey("Empty tokens are rejected", func() {
			So(SetToken(""), ShouldNotBeNil)
		})
	})
}
