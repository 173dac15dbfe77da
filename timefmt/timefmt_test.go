package timefmt

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFormat(t *testing.T) {
	Convey("Format", t, func() {
		Convey("Zero and whole minutes", func() {
			So(Format(0), ShouldEqual, "0:00")
			So(Format(60), ShouldEqual, "1:00")
			So(Format(65), ShouldEqual, "1:05")
		})

		Convey("Fractions are floored", func() {
			So(Format(30.99), ShouldEqual, "0:30")
			So(Format(599.5), ShouldEqual, "9:59")
		})

		Convey("Minutes are not wrapped into hours", func() {
			So(Format(3725), ShouldEqual, "62:05")
		})

		Convey("Invalid input renders as zero", func() {
			So(Format(math.NaN()), ShouldEqual, "0:00")
			So(Format(-1), ShouldEqual, "0:00")
			So(Format(math.Inf(1)), ShouldEqual, "0:00")
		})

		Convey("Huge values saturate instead of overflowing", func() {
			So(Format(1e19), ShouldEqual, "153722867280912930:07")
			So(Format(1e300), ShouldEqual, "153722867280912930:07")
			So(Format(math.MaxFloat64), ShouldNotStartWith, "-")
		})
	})
}

func TestParse(t *testing.T) {
	Convey("Parse", t, func() {
		Convey("Reads clock strings", func() {
			v, ok := Parse("8:52")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 532)

			v, ok = Parse("1:02:03")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 3723)

			v, ok = Parse(" 45 ")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 45)
		})

		Convey("Rejects labels and malformed values", func() {
			for _, s := range []string{"", "45 min", "3h 20m", "1:75", "a:10", "-1:00", "1:2:3:4"} {
				_, ok := Parse(s)
				So(ok, ShouldBeFalse)
			}
		})

		Convey("Round-trips through Format", func() {
			v, _ := Parse("12:04")
			So(Format(v), ShouldEqual, "12:04")
		})
	})
}
