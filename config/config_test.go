package config

import (
	"testing"

	"github.com/lectern-cli/lectern/filesystem"
	"github.com/lectern-cli/lectern/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
			So(viper.GetFloat64(key.PlayerDefaultSpeed), ShouldEqual, 1.0)
			So(viper.GetInt(key.WaveformBars), ShouldEqual, 35)
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("player.default_speed")
			So(result, ShouldEqual, "player_default_speed")
		})
	})
}

func TestField(t *testing.T) {
	Convey("Given a registered field", t, func() {
		field := Default[key.PlayerDefaultSpeed]

		Convey("Env is prefixed with the application name", func() {
			So(field.Env(), ShouldEqual, "LECTERN_PLAYER_DEFAULT_SPEED")
		})

		Convey("Type names cover floats", func() {
			So(field.typeName(), ShouldEqual, "float64")
			bars := Default[key.WaveformBars]
			So(bars.typeName(), ShouldEqual, "int")
		})
	})
}
