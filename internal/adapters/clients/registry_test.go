package clients_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/tribunal/internal/adapters/clients"
	"github.com/okian/tribunal/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRegistryClient_Resolve(t *testing.T) {
	Convey("Given a reviewer registry", t, func() {
		ctx := context.Background()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Query().Get("token") {
			case "token-alice":
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"reviewer_id":"alice","weight":2.5,"active":true}`))
			case "token-bob":
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"reviewer_id":"bob","weight":1,"active":false}`))
			case "token-broken":
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"reviewer_id":"","weight":0}`))
			default:
				http.NotFound(w, r)
			}
		}))
		defer srv.Close()

		client := clients.NewRegistryClient(srv.URL, clients.WithHTTPClient(srv.Client()))

		Convey("When resolving a known token", func() {
			reviewer, err := client.Resolve(ctx, "token-alice")
			So(err, ShouldBeNil)
			So(reviewer.ID, ShouldEqual, "alice")
			So(reviewer.Weight, ShouldEqual, 2.5)
			So(reviewer.Active, ShouldBeTrue)
		})

		Convey("When resolving an inactive reviewer's token", func() {
			reviewer, err := client.Resolve(ctx, "token-bob")

			Convey("Then resolution succeeds; activity is the caller's concern", func() {
				So(err, ShouldBeNil)
				So(reviewer.Active, ShouldBeFalse)
			})
		})

		Convey("When resolving an unknown token", func() {
			_, err := client.Resolve(ctx, "token-nobody")
			So(errors.Is(err, model.ErrUnknownReviewer), ShouldBeTrue)
		})

		Convey("When resolving an empty token", func() {
			_, err := client.Resolve(ctx, "  ")
			So(errors.Is(err, model.ErrUnknownReviewer), ShouldBeTrue)
		})

		Convey("When the registry returns a malformed reviewer", func() {
			_, err := client.Resolve(ctx, "token-broken")
			So(errors.Is(err, model.ErrUnknownReviewer), ShouldBeTrue)
		})
	})

	Convey("Given a registry that is down", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := clients.NewRegistryClient(srv.URL, clients.WithHTTPClient(srv.Client()))

		Convey("When resolving any token", func() {
			_, err := client.Resolve(context.Background(), "token-alice")

			Convey("Then the fault is not mistaken for an unknown reviewer", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, model.ErrUnknownReviewer), ShouldBeFalse)
			})
		})
	})
}
