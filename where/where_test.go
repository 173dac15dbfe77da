package where

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lectern-cli/lectern/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Config() honours the override variable", func() {
			custom := filepath.Join(os.TempDir(), "lectern-where-test")
			t.Setenv(EnvConfigPath, custom)

			So(Config(), ShouldEqual, custom)
			So(lo.Must(filesystem.API().IsDir(custom)), ShouldBeTrue)
			So(Progress(), ShouldEqual, filepath.Join(custom, "progress.json"))
			So(Queries(), ShouldEqual, filepath.Join(custom, "queries.json"))
		})

		Convey("Logs() lives under the config directory", func() {
			t.Setenv(EnvConfigPath, "/cfg")
			So(Logs(), ShouldEqual, filepath.Join("/cfg", "logs"))
			So(lo.Must(filesystem.API().IsDir(Logs())), ShouldBeTrue)
		})

		Convey("Temp()", func() {
			path := Temp()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})
	})
}
