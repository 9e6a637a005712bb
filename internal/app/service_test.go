package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/gwbadge/internal/adapters/repository"
	service "github.com/okian/gwbadge/internal/app"
	"github.com/okian/gwbadge/internal/domain/catalog"
	"github.com/okian/gwbadge/internal/domain/model"
	"github.com/okian/gwbadge/internal/domain/types"
	"github.com/okian/gwbadge/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// settledBody has a 25-point captain, a rank climb of exactly 70% and
// every starter finished.
const settledBody = `{
	"gw": 5, "live_points": 80, "bench_points": 3, "hit": 0, "safety": 40,
	"old_rank": 1000000, "post_rank": 300000,
	"team": [
		{"name": "Haaland", "role": "captain", "position": "FWD", "status": "a",
		 "stats": [["minutes", 90, 2], ["goals_scored", 3, 12], ["assists", 2, 6], ["bonus", 3, 3], ["defensive_contribution", 1, 2]]},
		{"name": "Saka", "role": "vice", "position": "MID", "status": "a",
		 "stats": [["minutes", 90, 2], ["assists", 1, 3]]},
		{"name": "Raya", "role": "bench", "position": "GKP", "status": "a",
		 "stats": [["minutes", 90, 2], ["saves", 3, 1]]}
	]
}`

// liveBody is settledBody with a starter who has not played yet.
const liveBody = `{
	"gw": 5, "live_points": 80, "bench_points": 3, "hit": 0, "safety": 40,
	"old_rank": 1000000, "post_rank": 300000,
	"team": [
		{"name": "Haaland", "role": "captain", "position": "FWD", "status": "a",
		 "stats": [["minutes", 90, 2], ["goals_scored", 3, 12], ["assists", 2, 6], ["bonus", 3, 3], ["defensive_contribution", 1, 2]]},
		{"name": "Saka", "role": "vice", "position": "MID", "status": "a", "stats": []}
	]
}`

func startService(opts ...service.Option) (*service.Service, context.Context) {
	svc := service.New(opts...)
	ctx := context.Background()
	So(svc.Start(ctx), ShouldBeNil)
	return svc, ctx
}

func findState(r types.Report, id int) (model.State, bool) {
	for _, g := range r.Tiers {
		for _, st := range g.States {
			if st.ID == id {
				return st, true
			}
		}
	}
	return model.State{}, false
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithHistoryWorkers(3), service.WithHistoryQueueSize(16))

		Convey("Then stats report it stopped", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(stats["rules"], ShouldEqual, catalog.Default().Len())
		})

		Convey("When evaluating before start", func() {
			_, err := svc.Evaluate(context.Background(), "42", []byte(settledBody), types.ViewAll)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})

		Convey("When started and stopped", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
			So(svc.Start(context.Background()), ShouldBeNil)
			So(svc.GetStats()["started"], ShouldEqual, true)
			So(svc.GetStats()["store"], ShouldEqual, "memory")

			svc.Stop()
			svc.Stop()
			So(svc.GetStats()["started"], ShouldEqual, false)
			So(svc.GetStats()["stopped"], ShouldEqual, true)
		})
	})

	Convey("Given a stopped service with its own store", t, func() {
		svc := service.New(service.WithStore("shared", repository.NewMemoryStore()))
		So(svc.Start(context.Background()), ShouldBeNil)
		svc.Stop()

		Convey("When started again", func() {
			err := svc.Start(context.Background())

			Convey("Then it refuses instead of swapping stores", func() {
				So(errors.Is(err, service.ErrStopped), ShouldBeTrue)
				So(svc.GetStats()["store"], ShouldEqual, "shared")
				So(svc.GetStats()["started"], ShouldEqual, false)

				_, evalErr := svc.Evaluate(context.Background(), "42", []byte(settledBody), types.ViewAll)
				So(errors.Is(evalErr, service.ErrNotStarted), ShouldBeTrue)
			})
		})
	})
}

func TestService_Evaluate(t *testing.T) {
	Convey("Given a started service", t, func() {
		fixed := time.Date(2025, 9, 20, 15, 0, 0, 0, time.UTC)
		svc, ctx := startService(
			service.WithClock(func() time.Time { return fixed }),
			service.WithIDGenerator(func() string { return "eval-1" }),
		)
		defer svc.Stop()

		Convey("When the squad id is blank", func() {
			_, err := svc.Evaluate(ctx, "  ", []byte(settledBody), types.ViewAll)
			So(errors.Is(err, service.ErrInvalidSquad), ShouldBeTrue)
		})

		Convey("When the body is empty or null", func() {
			for _, body := range []string{"", "null"} {
				r, err := svc.Evaluate(ctx, "42", []byte(body), types.ViewAll)
				So(err, ShouldBeNil)
				So(r.Status, ShouldEqual, types.StatusNoData)
				So(r.Tiers, ShouldBeEmpty)
				So(r.NewlyUnlocked, ShouldBeEmpty)
				So(r.Celebration.Active, ShouldBeFalse)
			}
		})

		Convey("When the payload carries no team", func() {
			r, err := svc.Evaluate(ctx, "77", []byte(`{"live_points": 0}`), types.ViewAll)
			So(err, ShouldBeNil)

			Convey("Then only the hit rule is earned", func() {
				So(r.Status, ShouldEqual, types.StatusReady)
				So(r.NewlyUnlocked, ShouldResemble, []int{27})
				So(r.Overall.EarnedOopsies, ShouldEqual, 0)
				So(r.Overall.EarnedAll, ShouldEqual, 1)
			})
		})

		Convey("When the body is not a JSON object", func() {
			_, err := svc.Evaluate(ctx, "42", []byte("{oops"), types.ViewAll)
			So(errors.Is(err, service.ErrInvalidPayload), ShouldBeTrue)
		})

		Convey("When a settled squad is evaluated for the first time", func() {
			r, err := svc.Evaluate(ctx, "42", []byte(settledBody), types.ViewAll)
			So(err, ShouldBeNil)

			Convey("Then the report is ready and stamped", func() {
				So(r.Status, ShouldEqual, types.StatusReady)
				So(r.EvaluationID, ShouldEqual, "eval-1")
				So(r.SquadID, ShouldEqual, "42")
				So(r.Gameweek, ShouldEqual, 5)
				So(r.EvaluatedAt, ShouldEqual, fixed.UnixMilli())
				So(r.Unsettled, ShouldBeFalse)
			})

			Convey("Then Captain Fantastic is unlocked with its progress", func() {
				st, ok := findState(r, 1)
				So(ok, ShouldBeTrue)
				So(st.Unlocked, ShouldBeTrue)
				So(st.Progress, ShouldEqual, "25/20")
			})

			Convey("Then tiers are complete and counted", func() {
				So(r.Tiers, ShouldHaveLength, 4)
				total := 0
				for _, g := range r.Tiers {
					total += g.Total
				}
				So(total, ShouldEqual, catalog.Default().Len())
				So(r.Overall.Total+r.Overall.TotalOopsies, ShouldEqual, total)
				So(r.Overall.TotalAll, ShouldEqual, total)
			})

			Convey("Then new unlocks are reported with a celebration", func() {
				So(r.NewlyUnlocked, ShouldContain, 1)
				So(r.Celebration.Active, ShouldBeTrue)
				So(r.Celebration.DurationMS, ShouldEqual, 2500)
			})

			Convey("And when the same payload is evaluated again", func() {
				again, err := svc.Evaluate(ctx, "42", []byte(settledBody), types.ViewAll)
				So(err, ShouldBeNil)

				Convey("Then nothing is new and the states are identical", func() {
					So(again.NewlyUnlocked, ShouldBeEmpty)
					So(again.Celebration.Active, ShouldBeFalse)
					So(again.Tiers, ShouldResemble, r.Tiers)
				})
			})
		})

		Convey("When the earned view is requested", func() {
			r, err := svc.Evaluate(ctx, "7", []byte(settledBody), types.ViewEarned)
			So(err, ShouldBeNil)

			Convey("Then only unlocked states are listed but counts are full", func() {
				listed := 0
				for _, g := range r.Tiers {
					for _, st := range g.States {
						So(st.Unlocked, ShouldBeTrue)
						listed++
					}
				}
				So(listed, ShouldEqual, r.Overall.Earned+r.Overall.EarnedOopsies)
				So(r.Overall.Total+r.Overall.TotalOopsies, ShouldEqual, catalog.Default().Len())
			})
		})

		Convey("When a squad still has players to play", func() {
			r, err := svc.Evaluate(ctx, "9", []byte(liveBody), types.ViewAll)
			So(err, ShouldBeNil)

			Convey("Then deferred rules are pending and not celebrated", func() {
				So(r.Unsettled, ShouldBeTrue)
				So(r.PendingPlayers, ShouldResemble, []string{"Saka"})
				st, _ := findState(r, 1)
				So(st.Pending, ShouldBeTrue)
				So(st.Unlocked, ShouldBeFalse)
				So(r.NewlyUnlocked, ShouldNotContain, 1)
			})
		})
	})
}

func TestService_History(t *testing.T) {
	Convey("Given a squad evaluated for two gameweeks", t, func() {
		svc, ctx := startService()
		defer svc.Stop()

		_, err := svc.Evaluate(ctx, "42", []byte(settledBody), types.ViewAll)
		So(err, ShouldBeNil)
		_, err = svc.Evaluate(ctx, "42", []byte(`{"gw": 2, "team": []}`), types.ViewAll)
		So(err, ShouldBeNil)

		Convey("Then the history lists both in gameweek order", func() {
			var h types.History
			deadline := time.Now().Add(2 * time.Second)
			for time.Now().Before(deadline) {
				h, err = svc.History(ctx, "42")
				So(err, ShouldBeNil)
				if len(h.Summaries) == 2 {
					break
				}
				time.Sleep(10 * time.Millisecond)
			}
			So(h.Summaries, ShouldHaveLength, 2)
			So(h.Summaries[0].Gameweek, ShouldEqual, 2)
			So(h.Summaries[1].Gameweek, ShouldEqual, 5)
			So(h.Summaries[1].Total+h.Summaries[1].TotalOopsies, ShouldEqual, catalog.Default().Len())
		})

		Convey("Then a blank squad is rejected", func() {
			_, err := svc.History(ctx, "")
			So(errors.Is(err, service.ErrInvalidSquad), ShouldBeTrue)
		})
	})
}

func TestService_Catalog(t *testing.T) {
	Convey("Given the catalog listing", t, func() {
		rules := service.New().Catalog()
		So(rules, ShouldHaveLength, catalog.Default().Len())
		So(rules[0].ID, ShouldEqual, 1)
		So(rules[0].Title, ShouldEqual, "Captain Fantastic")
		So(rules[0].DeferWhileLive, ShouldBeTrue)
	})
}

type brokenStore struct {
	*repository.MemoryStore
}

func (brokenStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("read failed")
}

func (brokenStore) Put(context.Context, string, []byte) error {
	return errors.New("write failed")
}

func TestService_StoreFailures(t *testing.T) {
	Convey("Given a store that cannot read or write", t, func() {
		svc, ctx := startService(service.WithStore("broken", brokenStore{repository.NewMemoryStore()}))
		defer svc.Stop()

		Convey("Then evaluation still succeeds and treats every unlock as new", func() {
			first, err := svc.Evaluate(ctx, "42", []byte(settledBody), types.ViewAll)
			So(err, ShouldBeNil)
			So(first.Status, ShouldEqual, types.StatusReady)
			So(first.NewlyUnlocked, ShouldContain, 1)

			second, err := svc.Evaluate(ctx, "42", []byte(settledBody), types.ViewAll)
			So(err, ShouldBeNil)
			So(second.NewlyUnlocked, ShouldResemble, first.NewlyUnlocked)
		})
	})
}

func TestService_SQLitePersistence(t *testing.T) {
	Convey("Given a SQLite-backed service restarted between evaluations", t, func() {
		path := filepath.Join(t.TempDir(), "gwbadge.db")
		ctx := context.Background()

		kv, err := repository.OpenSQLite(ctx, path)
		So(err, ShouldBeNil)
		first := service.New(service.WithStore("sqlite", kv))
		So(first.Start(ctx), ShouldBeNil)
		r1, err := first.Evaluate(ctx, "42", []byte(settledBody), types.ViewAll)
		So(err, ShouldBeNil)
		first.Stop()

		kv, err = repository.OpenSQLite(ctx, path)
		So(err, ShouldBeNil)
		second := service.New(service.WithStore("sqlite", kv))
		So(second.Start(ctx), ShouldBeNil)
		defer second.Stop()
		r2, err := second.Evaluate(ctx, "42", []byte(settledBody), types.ViewAll)
		So(err, ShouldBeNil)

		Convey("Then the unlock set survives the restart", func() {
			So(r1.NewlyUnlocked, ShouldNotBeEmpty)
			So(r2.NewlyUnlocked, ShouldBeEmpty)
		})

		Convey("Then the summary written before shutdown is listed", func() {
			h, err := second.History(ctx, "42")
			So(err, ShouldBeNil)
			So(h.Summaries, ShouldNotBeEmpty)
			So(h.Summaries[0].Gameweek, ShouldEqual, 5)
		})
	})
}
