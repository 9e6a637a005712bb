package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	service "github.com/okian/gwbadge/internal/app"
	"github.com/okian/gwbadge/internal/domain/types"
	"github.com/okian/gwbadge/pkg/logger"
)

const payloadDoc = `{"gw": 9, "hit": 0, "safety": 12, "team": [
	{"name": "Palmer", "role": "captain", "position": "MID", "status": "a",
	 "stats": [["minutes", 90, 2], ["goals_scored", 2, 10], ["assists", 1, 3], ["bonus", 3, 3]]}]}`

func decodeReport(buf *bytes.Buffer) types.Report {
	var r types.Report
	convey.So(json.Unmarshal(buf.Bytes(), &r), convey.ShouldBeNil)
	return r
}

func TestRun(t *testing.T) {
	convey.Convey("Given the evaluate command", t, func() {
		convey.So(logger.Init(logger.WithOutput(&bytes.Buffer{})), convey.ShouldBeNil)
		ctx := context.Background()

		convey.Convey("When the payload comes from stdin", func() {
			var out bytes.Buffer
			err := run(ctx, "-", "s1", types.ViewAll, "", strings.NewReader(payloadDoc), &out)

			convey.Convey("Then the report is printed", func() {
				convey.So(err, convey.ShouldBeNil)
				r := decodeReport(&out)
				convey.So(r.Status, convey.ShouldEqual, types.StatusReady)
				convey.So(r.Gameweek, convey.ShouldEqual, 9)
				convey.So(r.SquadID, convey.ShouldEqual, "s1")
				convey.So(len(r.NewlyUnlocked), convey.ShouldBeGreaterThan, 0)
			})
		})

		convey.Convey("When stdin is empty", func() {
			var out bytes.Buffer
			err := run(ctx, "-", "s1", types.ViewAll, "", strings.NewReader(""), &out)
			convey.So(err, convey.ShouldBeNil)
			convey.So(decodeReport(&out).Status, convey.ShouldEqual, types.StatusNoData)
		})

		convey.Convey("When the payload is not JSON", func() {
			err := run(ctx, "-", "s1", types.ViewAll, "", strings.NewReader("{"), &bytes.Buffer{})
			convey.So(errors.Is(err, service.ErrInvalidPayload), convey.ShouldBeTrue)
		})

		convey.Convey("When the file does not exist", func() {
			err := run(ctx, filepath.Join(t.TempDir(), "missing.json"), "s1", types.ViewAll, "", nil, &bytes.Buffer{})
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "read payload")
		})

		convey.Convey("When unlock sets are kept in SQLite", func() {
			dir := t.TempDir()
			in := filepath.Join(dir, "gw9.json")
			convey.So(os.WriteFile(in, []byte(payloadDoc), 0o600), convey.ShouldBeNil)
			db := filepath.Join(dir, "state.db")

			var first, second bytes.Buffer
			convey.So(run(ctx, in, "s1", types.ViewEarned, db, nil, &first), convey.ShouldBeNil)
			convey.So(run(ctx, in, "s1", types.ViewEarned, db, nil, &second), convey.ShouldBeNil)

			convey.Convey("Then the second run reports nothing new", func() {
				convey.So(len(decodeReport(&first).NewlyUnlocked), convey.ShouldBeGreaterThan, 0)
				r := decodeReport(&second)
				convey.So(r.NewlyUnlocked, convey.ShouldBeEmpty)
				convey.So(r.Celebration.Active, convey.ShouldBeFalse)
				convey.So(r.View, convey.ShouldEqual, types.ViewEarned)
			})
		})
	})
}
