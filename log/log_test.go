package log

import (
	"bytes"
	"testing"

	"github.com/lectern-cli/lectern/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestEntry(t *testing.T) {
	Convey("Given logging is disabled", t, func() {
		enabled = false

		Convey("With returns a discarding entry", func() {
			e := With(Fields{"session": "abc"})
			So(e.entry, ShouldBeNil)
			So(func() { e.Infof("ignored %d", 1) }, ShouldNotPanic)
		})
	})

	Convey("Given logging is enabled into a buffer", t, func() {
		var buf bytes.Buffer
		viper.Set(key.LogsJson, true)
		viper.Set(key.LogsLevel, "debug")
		configure(&buf)
		enabled = true
		defer func() { enabled = false }()

		Convey("Fields are written alongside the message", func() {
			With(Fields{"locator": "t1.mp3"}).Infof("loaded")
			So(buf.String(), ShouldContainSubstring, `"locator":"t1.mp3"`)
			So(buf.String(), ShouldContainSubstring, `"msg":"loaded"`)
		})

		Convey("Debug lines pass at debug level", func() {
			Debugf("dropped stale %s", "ready")
			So(buf.String(), ShouldContainSubstring, "dropped stale ready")
		})
	})
}
