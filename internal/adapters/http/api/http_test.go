package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/podium/internal/adapters/http/api"
	"github.com/okian/podium/internal/adapters/repository"
	app "github.com/okian/podium/internal/app"
	"github.com/okian/podium/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func newTestMux(t *testing.T) (*http.ServeMux, *app.Service) {
	t.Helper()
	mr := miniredis.RunT(t)
	store, err := repository.Dial(context.Background(),
		repository.WithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()})),
	)
	if err != nil {
		t.Fatalf("dial test store: %v", err)
	}
	svc := app.New(app.WithStore(store))
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)

	mux := http.NewServeMux()
	api.NewServer(svc).Register(context.Background(), mux)
	return mux, svc
}

func do(mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestLoadAndUserEndpoints(t *testing.T) {
	Convey("Given a wired API server", t, func() {
		mux, _ := newTestMux(t)

		Convey("When posting user records to /load/users", func() {
			body := strings.Join([]string{
				`"user:1" "last_name" "Iri" "email" "ann@example.com" "latitude" "40.1" "longitude" "-74.3"`,
				`"user:2" "last_name" "Lee"`,
				`"junk"`,
			}, "\n")
			rec := do(mux, http.MethodPost, "/load/users", body)

			Convey("Then the load stats are returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var resp struct {
					BatchID string `json:"batch_id"`
					Loaded  int    `json:"loaded"`
					Skipped int    `json:"skipped"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Loaded, ShouldEqual, 2)
				So(resp.Skipped, ShouldEqual, 1)
				So(resp.BatchID, ShouldNotBeEmpty)
			})

			Convey("And GET /users/{id} returns the record", func() {
				rec := do(mux, http.MethodGet, "/users/user:2", "")
				So(rec.Code, ShouldEqual, http.StatusOK)

				var attrs map[string]string
				So(json.Unmarshal(rec.Body.Bytes(), &attrs), ShouldBeNil)
				So(attrs, ShouldResemble, map[string]string{"last_name": "Lee"})
			})

			Convey("And GET /users/{id}/coordinates returns the pair", func() {
				rec := do(mux, http.MethodGet, "/users/user:1/coordinates", "")
				So(rec.Code, ShouldEqual, http.StatusOK)

				var coords struct {
					Longitude string `json:"longitude"`
					Latitude  string `json:"latitude"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &coords), ShouldBeNil)
				So(coords.Longitude, ShouldEqual, "-74.3")
				So(coords.Latitude, ShouldEqual, "40.1")
			})

			Convey("And a partial record yields 404 on coordinates", func() {
				rec := do(mux, http.MethodGet, "/users/user:2/coordinates", "")
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When fetching a missing user", func() {
			rec := do(mux, http.MethodGet, "/users/user:404", "")

			Convey("Then 404 is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestQueryEndpoints(t *testing.T) {
	Convey("Given a server with loaded data", t, func() {
		mux, _ := newTestMux(t)

		users := strings.Join([]string{
			`"user:1" "last_name" "Iri" "gender" "female" "country" "US" "latitude" "40.1"`,
			`"user:2" "last_name" "Lee" "gender" "female" "country" "FR" "latitude" "45.0"`,
			`"user:3" "last_name" "Oda" "gender" "male" "country" "US" "latitude" "41.0"`,
		}, "\n")
		So(do(mux, http.MethodPost, "/load/users", users).Code, ShouldEqual, http.StatusOK)

		Convey("When querying /queries/even-users", func() {
			rec := do(mux, http.MethodGet, "/queries/even-users", "")

			Convey("Then only even ids come back, slices aligned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var resp struct {
					Keys      []string `json:"keys"`
					LastNames []string `json:"last_names"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Keys, ShouldResemble, []string{"user:2"})
				So(resp.LastNames, ShouldResemble, []string{"Lee"})
			})
		})

		Convey("When querying /queries/region", func() {
			rec := do(mux, http.MethodGet, "/queries/region?country=US&country=CA&min_lat=30&max_lat=50", "")

			Convey("Then only matching users come back", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var matches []map[string]string
				So(json.Unmarshal(rec.Body.Bytes(), &matches), ShouldBeNil)
				So(matches, ShouldHaveLength, 1)
				So(matches[0]["last_name"], ShouldEqual, "Iri")
			})
		})

		Convey("When the region query is malformed", func() {
			for _, target := range []string{
				"/queries/region?min_lat=30&max_lat=50",
				"/queries/region?country=US&min_lat=abc&max_lat=50",
				"/queries/region?country=US&min_lat=50&max_lat=30",
			} {
				rec := do(mux, http.MethodGet, target, "")
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			}
		})
	})
}

func TestLeaderboardEndpoint(t *testing.T) {
	Convey("Given a server with loaded scores", t, func() {
		mux, _ := newTestMux(t)

		users := `"user:1" "email" "ann@example.com"`
		scores := strings.Join([]string{
			"leaderboard,user,score",
			"leaderboard:1,user:1,100",
			"leaderboard:1,user:2,300",
		}, "\n")
		So(do(mux, http.MethodPost, "/load/users", users).Code, ShouldEqual, http.StatusOK)
		So(do(mux, http.MethodPost, "/load/scores", scores).Code, ShouldEqual, http.StatusOK)

		Convey("When fetching top players", func() {
			rec := do(mux, http.MethodGet, "/leaderboards/leaderboard:1/top?limit=2", "")

			Convey("Then ranked entries with email holes are returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var players []struct {
					Member   string `json:"member"`
					Email    string `json:"email"`
					HasEmail bool   `json:"has_email"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &players), ShouldBeNil)
				So(players, ShouldHaveLength, 2)
				So(players[0].Member, ShouldEqual, "user:2")
				So(players[0].HasEmail, ShouldBeFalse)
				So(players[1].Member, ShouldEqual, "user:1")
				So(players[1].Email, ShouldEqual, "ann@example.com")
			})
		})

		Convey("When the limit is invalid", func() {
			rec := do(mux, http.MethodGet, "/leaderboards/leaderboard:1/top?limit=zero", "")
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the path is malformed", func() {
			rec := do(mux, http.MethodGet, "/leaderboards/leaderboard:1/bottom", "")
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestAdminFlush(t *testing.T) {
	Convey("Given a server with loaded data", t, func() {
		mux, _ := newTestMux(t)

		So(do(mux, http.MethodPost, "/load/users", `"user:1" "a" "b"`).Code, ShouldEqual, http.StatusOK)

		Convey("When flushing via POST /admin/flush", func() {
			rec := do(mux, http.MethodPost, "/admin/flush", "")

			Convey("Then the store is emptied", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(do(mux, http.MethodGet, "/users/user:1", "").Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When using the wrong method", func() {
			rec := do(mux, http.MethodGet, "/admin/flush", "")
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestHealthEndpoint(t *testing.T) {
	Convey("Given a wired API server", t, func() {
		mux, _ := newTestMux(t)

		Convey("When fetching /healthz", func() {
			rec := do(mux, http.MethodGet, "/healthz", "")

			Convey("Then Prometheus metrics are served", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
			})
		})
	})
}
