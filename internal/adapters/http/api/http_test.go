package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/tribunal/internal/adapters/cache"
	"github.com/okian/tribunal/internal/adapters/http/api"
	service "github.com/okian/tribunal/internal/app"
	"github.com/okian/tribunal/internal/domain/model"
	"github.com/okian/tribunal/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeDeps is a scripted Dependencies implementation.
type fakeDeps struct {
	submitResult model.SubmissionResult
	submitErr    error
	lastToken    string
	lastSub      model.Submission

	completion    types.Completion
	completionErr error

	scores    []types.AttributeScore
	freshness types.Freshness
	scoresErr error

	divisions []types.DivisionVolume

	viewPayload   []byte
	viewFreshness types.Freshness
	viewErr       error

	stats    service.Stats
	statsErr error
}

func (f *fakeDeps) SubmitVotes(ctx context.Context, token string, sub model.Submission) (model.SubmissionResult, error) {
	f.lastToken = token
	f.lastSub = sub
	return f.submitResult, f.submitErr
}

func (f *fakeDeps) Completion(ctx context.Context, matchID, reviewerID string) (types.Completion, error) {
	return f.completion, f.completionErr
}

func (f *fakeDeps) AttributeScores(ctx context.Context, playerID, divisionCode string) ([]types.AttributeScore, types.Freshness, error) {
	return f.scores, f.freshness, f.scoresErr
}

func (f *fakeDeps) Divisions(ctx context.Context, playerID string) ([]types.DivisionVolume, error) {
	return f.divisions, nil
}

func (f *fakeDeps) View(ctx context.Context, key string) ([]byte, types.Freshness, error) {
	return f.viewPayload, f.viewFreshness, f.viewErr
}

func (f *fakeDeps) GetStats(ctx context.Context) (service.Stats, error) {
	return f.stats, f.statsErr
}

func newTestMux(deps *fakeDeps) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, deps).Register(context.Background(), mux)
	return mux
}

func TestHandlePostVotes(t *testing.T) {
	Convey("Given the votes endpoint", t, func() {
		deps := &fakeDeps{
			submitResult: model.SubmissionResult{
				Accepted: 2,
				Skipped:  []types.Attribute{types.AttributeMacro},
				Invalid:  []types.Attribute{},
			},
		}
		mux := newTestMux(deps)

		body := `{
			"reviewer_token": "token-alice",
			"match_id": "m-100",
			"player1_id": "p1",
			"player2_id": "p2",
			"votes": {"micro": 1, "macro": 0, "clutch": 2}
		}`

		Convey("When posting a well-formed batch", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/votes", strings.NewReader(body)))

			Convey("Then the submission outcome is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var resp struct {
					Accepted     int      `json:"accepted"`
					Skipped      []string `json:"skipped"`
					AllDuplicate bool     `json:"all_duplicate"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Accepted, ShouldEqual, 2)
				So(resp.Skipped, ShouldResemble, []string{"macro"})
			})

			Convey("Then the submission reached the service intact", func() {
				So(deps.lastToken, ShouldEqual, "token-alice")
				So(deps.lastSub.MatchID, ShouldEqual, "m-100")
				So(len(deps.lastSub.Values), ShouldEqual, 3)
				So(deps.lastSub.Values[types.AttributeMicro], ShouldEqual, types.VerdictPlayerOne)
			})
		})

		Convey("When posting malformed JSON", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/votes", strings.NewReader("{not json")))
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When posting without a reviewer token", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/votes",
				strings.NewReader(`{"match_id":"m-100","player1_id":"p1","player2_id":"p2","votes":{"micro":1}}`)))
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When posting an attribute outside the closed set", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/votes",
				strings.NewReader(`{"reviewer_token":"t","match_id":"m-100","player1_id":"p1","player2_id":"p2","votes":{"reflexes":1}}`)))

			Convey("Then the request is rejected outright", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(rec.Body.String(), ShouldContainSubstring, "reflexes")
			})
		})

		Convey("When the reviewer is unknown", func() {
			deps.submitErr = model.ErrUnknownReviewer
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/votes", strings.NewReader(body)))
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the reviewer is inactive", func() {
			deps.submitErr = model.ErrInactiveReviewer
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/votes", strings.NewReader(body)))
			So(rec.Code, ShouldEqual, http.StatusForbidden)
		})

		Convey("When the match is unknown", func() {
			deps.submitErr = fmt.Errorf("wrapped: %w", model.ErrUnknownMatch)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/votes", strings.NewReader(body)))
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When using the wrong method", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/votes", nil))
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestHandleGetCompletion(t *testing.T) {
	Convey("Given the completion endpoint", t, func() {
		deps := &fakeDeps{
			completion: types.Completion{Status: types.CompletionPartial, Progress: "4/6"},
		}
		mux := newTestMux(deps)

		Convey("When querying with both ids", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/completion?match_id=m-100&reviewer_id=alice", nil))

			So(rec.Code, ShouldEqual, http.StatusOK)
			var resp types.Completion
			So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Status, ShouldEqual, types.CompletionPartial)
			So(resp.Progress, ShouldEqual, "4/6")
		})

		Convey("When a query parameter is missing", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/completion?match_id=m-100", nil))
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestHandleGetScores(t *testing.T) {
	Convey("Given the scores endpoint", t, func() {
		deps := &fakeDeps{
			scores: []types.AttributeScore{
				{Attribute: types.AttributeMicro, Score: 7.5, Scored: true},
				{Attribute: types.AttributeMacro, Scored: false},
			},
			freshness: types.FreshnessFresh,
		}
		mux := newTestMux(deps)

		Convey("When querying a player's scores", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/scores?player_id=p1&division=gold", nil))

			So(rec.Code, ShouldEqual, http.StatusOK)
			var resp struct {
				PlayerID  string                 `json:"player_id"`
				Freshness string                 `json:"freshness"`
				Scores    []types.AttributeScore `json:"scores"`
			}
			So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.PlayerID, ShouldEqual, "p1")
			So(resp.Freshness, ShouldEqual, "fresh")
			So(len(resp.Scores), ShouldEqual, 2)
			So(resp.Scores[0].Score, ShouldEqual, 7.5)
			So(resp.Scores[1].Scored, ShouldBeFalse)
		})

		Convey("When the division is missing", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/scores?player_id=p1", nil))
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the aggregation source is unavailable", func() {
			deps.scoresErr = fmt.Errorf("%w: scores:p1:gold", cache.ErrSourceUnavailable)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/scores?player_id=p1&division=gold", nil))
			So(rec.Code, ShouldEqual, http.StatusServiceUnavailable)
		})
	})

	Convey("Given the divisions endpoint", t, func() {
		deps := &fakeDeps{
			divisions: []types.DivisionVolume{
				{DivisionCode: "gold", Votes: 12},
				{DivisionCode: "silver", Votes: 3},
			},
		}
		mux := newTestMux(deps)

		Convey("When querying a player's divisions", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/divisions?player_id=p1", nil))

			So(rec.Code, ShouldEqual, http.StatusOK)
			var resp struct {
				Divisions []types.DivisionVolume `json:"divisions"`
			}
			So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
			So(len(resp.Divisions), ShouldEqual, 2)
			So(resp.Divisions[0].DivisionCode, ShouldEqual, "gold")
		})
	})
}

func TestHandleGetView(t *testing.T) {
	Convey("Given the views endpoint", t, func() {
		deps := &fakeDeps{
			viewPayload:   []byte(`{"season":"2026-spring"}`),
			viewFreshness: types.FreshnessStaleFallback,
		}
		mux := newTestMux(deps)

		Convey("When reading a named view", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/views/season-schedule", nil))

			So(rec.Code, ShouldEqual, http.StatusOK)
			var resp struct {
				Key       string          `json:"key"`
				Freshness string          `json:"freshness"`
				Payload   json.RawMessage `json:"payload"`
			}
			So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Key, ShouldEqual, "season-schedule")
			So(resp.Freshness, ShouldEqual, "stale-fallback")
			So(string(resp.Payload), ShouldEqual, `{"season":"2026-spring"}`)
		})

		Convey("When the view key is unknown", func() {
			deps.viewErr = fmt.Errorf("%w: %q", service.ErrUnknownView, "weather")
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/views/weather", nil))
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When no snapshot exists and the source is down", func() {
			deps.viewErr = fmt.Errorf("%w: season-schedule: %v", cache.ErrSourceUnavailable, errors.New("catalog down"))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/views/season-schedule", nil))
			So(rec.Code, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("When the key is missing", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/views/", nil))
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestHandleStats(t *testing.T) {
	Convey("Given the stats endpoint", t, func() {
		deps := &fakeDeps{stats: service.Stats{LedgerRows: 42, CacheSnapshots: 3}}
		mux := newTestMux(deps)

		Convey("When reading stats", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))

			So(rec.Code, ShouldEqual, http.StatusOK)
			var resp service.Stats
			So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.LedgerRows, ShouldEqual, 42)
			So(resp.CacheSnapshots, ShouldEqual, 3)
		})
	})
}
