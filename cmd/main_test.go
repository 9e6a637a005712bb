package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/gwbadge/internal/adapters/http/api"
	"github.com/okian/gwbadge/internal/adapters/repository"
	service "github.com/okian/gwbadge/internal/app"
	"github.com/okian/gwbadge/internal/config"
	"github.com/okian/gwbadge/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainConfiguration(t *testing.T) {
	convey.Convey("Given environment overrides", t, func() {
		t.Setenv("GWBADGE_ADDR", ":8080")
		t.Setenv("GWBADGE_HISTORY_WORKERS", "4")
		t.Setenv("GWBADGE_CELEBRATION_MS", "2450")

		convey.Convey("Then configuration is loadable", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.HistoryWorkers, convey.ShouldEqual, 4)
			convey.So(cfg.CelebrationMS, convey.ShouldEqual, 2450)
		})
	})
}

func TestOpenStore(t *testing.T) {
	convey.Convey("Given a store driver", t, func() {
		ctx := context.Background()

		convey.Convey("When memory is selected", func() {
			cfg := config.New()
			kv, err := openStore(ctx, cfg)
			convey.So(err, convey.ShouldBeNil)
			_, ok := kv.(*repository.MemoryStore)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(kv.Close(), convey.ShouldBeNil)
		})

		convey.Convey("When sqlite is selected", func() {
			cfg := config.New()
			cfg.StoreDriver = config.StoreSQLite
			cfg.SQLitePath = filepath.Join(t.TempDir(), "gwbadge.db")
			kv, err := openStore(ctx, cfg)
			convey.So(err, convey.ShouldBeNil)
			_, ok := kv.(*repository.SQLiteStore)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(kv.Close(), convey.ShouldBeNil)
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given a started service", t, func() {
		convey.So(logger.Init(), convey.ShouldBeNil)
		svc := service.New(service.WithLogger(logger.Nop()))
		convey.So(svc.Start(context.Background()), convey.ShouldBeNil)
		defer svc.Stop()

		convey.Convey("Then the metrics updater returns when the context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			convey.So(func() { startServiceMetricsUpdater(ctx, svc) }, convey.ShouldNotPanic)
		})

		convey.Convey("Then runtime collectors register without panicking", func() {
			convey.So(registerRuntimeCollectors, convey.ShouldNotPanic)
			convey.So(registerRuntimeCollectors, convey.ShouldNotPanic)
		})

		convey.Convey("When the API is mounted", func() {
			mux := http.NewServeMux()
			api.NewServer(svc, svc).Register(mux)

			body := `{"gw": 3, "team": [{"name": "Salah", "role": "captain", "position": "MID", "status": "a",
				"stats": [["minutes", 90, 2], ["goals_scored", 2, 10], ["bonus", 3, 3]]}]}`
			req := httptest.NewRequest(http.MethodPost, "/squads/7/achievements", strings.NewReader(body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			convey.Convey("Then an evaluation round-trips", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, `"status":"ready"`)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, `"gw":3`)
			})
		})
	})
}
