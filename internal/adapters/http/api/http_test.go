package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/isandoval/butaca/internal/adapters/http/api"
	"github.com/isandoval/butaca/internal/domain/model"
	"github.com/isandoval/butaca/internal/domain/recommend"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockDependencies struct {
	rows         []model.Recommendation
	recommendErr error
	lastRequest  recommend.Request

	profiles map[string]model.UserProfile
}

func (m *mockDependencies) Recommend(_ context.Context, req recommend.Request) ([]model.Recommendation, error) {
	m.lastRequest = req
	if m.recommendErr != nil {
		return nil, m.recommendErr
	}
	return m.rows, nil
}

func (m *mockDependencies) Profile(_ context.Context, userID string) (model.UserProfile, bool, error) {
	p, ok := m.profiles[userID]
	return p, ok, nil
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newTestMux(deps *mockDependencies, stats *mockStatsProvider, opts ...api.Option) *http.ServeMux {
	server := api.NewServer(deps, stats, opts...)
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := &mockDependencies{}
		mux := newTestMux(deps, &mockStatsProvider{})

		Convey("When registering routes", func() {
			Convey("Then all routes should respond", func() {
				for _, path := range []string{"/healthz", "/metrics", "/stats", "/recommendations/u1", "/users/u1"} {
					req := httptest.NewRequest(http.MethodGet, path, nil)
					rec := httptest.NewRecorder()
					mux.ServeHTTP(rec, req)
					So(rec.Code, ShouldNotEqual, http.StatusNotImplemented)
				}
			})
		})
	})
}

func TestRecommendationsEndpoint(t *testing.T) {
	Convey("Given a recommendations endpoint", t, func() {
		deps := &mockDependencies{
			rows: []model.Recommendation{
				{UserID: "u1", MovieID: "tt1", Title: "Alpha", TotalScore: 0.98},
				{UserID: "u1", MovieID: "tt2", Title: "Beta", TotalScore: 0.55},
			},
		}
		mux := newTestMux(deps, &mockStatsProvider{})

		Convey("When requesting recommendations with defaults", func() {
			req := httptest.NewRequest(http.MethodGet, "/recommendations/u1", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it should return the rows", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var rows []model.Recommendation
				So(json.Unmarshal(rec.Body.Bytes(), &rows), ShouldBeNil)
				So(len(rows), ShouldEqual, 2)
				So(rows[0].MovieID, ShouldEqual, "tt1")
			})

			Convey("And the defaults should be forwarded", func() {
				So(deps.lastRequest.UserID, ShouldEqual, "u1")
				So(deps.lastRequest.Count, ShouldEqual, recommend.DefaultCount)
				So(deps.lastRequest.DiversifiedRatio, ShouldEqual, recommend.DefaultDiversifiedRatio)
				So(deps.lastRequest.MinRating, ShouldEqual, recommend.DefaultMinRating)
			})
		})

		Convey("When requesting recommendations with query parameters", func() {
			req := httptest.NewRequest(http.MethodGet, "/recommendations/u1?n=20&diversified_ratio=0.3&min_rating=6.5", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the parameters should be forwarded", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.lastRequest.Count, ShouldEqual, 20)
				So(deps.lastRequest.DiversifiedRatio, ShouldEqual, 0.3)
				So(deps.lastRequest.MinRating, ShouldEqual, 6.5)
			})
		})

		Convey("When requesting with an invalid n", func() {
			for _, q := range []string{"n=0", "n=-1", "n=abc"} {
				req := httptest.NewRequest(http.MethodGet, "/recommendations/u1?"+q, nil)
				rec := httptest.NewRecorder()
				mux.ServeHTTP(rec, req)

				Convey(fmt.Sprintf("Then %q should be rejected", q), func() {
					So(rec.Code, ShouldEqual, http.StatusBadRequest)
				})
			}
		})

		Convey("When requesting more rows than the cap allows", func() {
			req := httptest.NewRequest(http.MethodGet, "/recommendations/u1?n=5000", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it should be rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				var resp map[string]string
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp["code"], ShouldEqual, "limit_exceeded")
			})
		})

		Convey("When requesting with an unparsable ratio", func() {
			req := httptest.NewRequest(http.MethodGet, "/recommendations/u1?diversified_ratio=half", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it should be rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the user is unknown", func() {
			deps.recommendErr = fmt.Errorf("%w: ghost", recommend.ErrUserNotFound)
			req := httptest.NewRequest(http.MethodGet, "/recommendations/ghost", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it should return 404", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the engine rejects the parameters", func() {
			deps.recommendErr = fmt.Errorf("%w: ratio out of range", recommend.ErrInvalidParameters)
			req := httptest.NewRequest(http.MethodGet, "/recommendations/u1?diversified_ratio=1.5", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it should return 400", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the engine fails", func() {
			deps.recommendErr = fmt.Errorf("catalog corrupted")
			req := httptest.NewRequest(http.MethodGet, "/recommendations/u1", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it should return 500", func() {
				So(rec.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})

		Convey("When the path has no user id", func() {
			req := httptest.NewRequest(http.MethodGet, "/recommendations/", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it should return 400", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When using the wrong method", func() {
			req := httptest.NewRequest(http.MethodPost, "/recommendations/u1", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it should return 404", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestRecommendationsDefaultsOption(t *testing.T) {
	Convey("Given a server with custom defaults", t, func() {
		deps := &mockDependencies{}
		mux := newTestMux(deps, &mockStatsProvider{}, api.WithDefaults(api.Defaults{
			Count:            25,
			MaxCount:         50,
			DiversifiedRatio: 0.2,
			MinRating:        5.0,
		}))

		Convey("When requesting recommendations without parameters", func() {
			req := httptest.NewRequest(http.MethodGet, "/recommendations/u1", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the custom defaults should apply", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.lastRequest.Count, ShouldEqual, 25)
				So(deps.lastRequest.DiversifiedRatio, ShouldEqual, 0.2)
				So(deps.lastRequest.MinRating, ShouldEqual, 5.0)
			})
		})

		Convey("When exceeding the custom cap", func() {
			req := httptest.NewRequest(http.MethodGet, "/recommendations/u1?n=51", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it should be rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestUsersEndpoint(t *testing.T) {
	Convey("Given a users endpoint", t, func() {
		deps := &mockDependencies{
			profiles: map[string]model.UserProfile{
				"u1": {
					UserID:           "u1",
					PreferredGenres:  []string{"Action", "Sci-Fi"},
					AverageWatchTime: 110,
					FavoriteMovieIDs: []string{"tt1"},
				},
			},
		}
		mux := newTestMux(deps, &mockStatsProvider{})

		Convey("When requesting a known user", func() {
			req := httptest.NewRequest(http.MethodGet, "/users/u1", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it should return the profile", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var profile model.UserProfile
				So(json.Unmarshal(rec.Body.Bytes(), &profile), ShouldBeNil)
				So(profile.UserID, ShouldEqual, "u1")
				So(profile.PreferredGenres, ShouldResemble, []string{"Action", "Sci-Fi"})
			})
		})

		Convey("When requesting an unknown user", func() {
			req := httptest.NewRequest(http.MethodGet, "/users/ghost", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it should return 404", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the path has no user id", func() {
			req := httptest.NewRequest(http.MethodGet, "/users/", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it should return 400", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestHealthAndStatsEndpoints(t *testing.T) {
	Convey("Given health and stats endpoints", t, func() {
		stats := &mockStatsProvider{stats: map[string]interface{}{
			"started":     true,
			"catalogSize": 42,
		}}
		mux := newTestMux(&mockDependencies{}, stats)

		Convey("When requesting /healthz", func() {
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it should report ok", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var body map[string]string
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(body["status"], ShouldEqual, "ok")
			})
		})

		Convey("When requesting /metrics", func() {
			req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it should serve the Prometheus exposition", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When requesting /stats", func() {
			req := httptest.NewRequest(http.MethodGet, "/stats", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it should return the service stats", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var body map[string]interface{}
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(body["started"], ShouldEqual, true)
				So(body["catalogSize"], ShouldEqual, 42)
			})
		})
	})
}
