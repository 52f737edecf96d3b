package logger

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		err := Init()
		So(err, ShouldBeNil)

		Convey("When fetching the global logger", func() {
			l := Get()

			Convey("Then it should accept all levels without panicking", func() {
				ctx := context.Background()
				So(func() {
					l.Debug(ctx, "debug line", String("k", "v"))
					l.Info(ctx, "info line", Int("n", 1))
					l.Warn(ctx, "warn line", Float64("f", 1.5))
					l.Error(ctx, "error line", Error(nil))
				}, ShouldNotPanic)
			})
		})

		Convey("When creating a named logger", func() {
			l := Named("replay")

			Convey("Then it should be usable", func() {
				So(func() { l.Info(context.Background(), "named line") }, ShouldNotPanic)
			})
		})

		Convey("When setting levels from strings", func() {
			So(SetLevelString("debug"), ShouldBeNil)
			So(SetLevelString("WARN"), ShouldBeNil)
			So(SetLevelString(""), ShouldBeNil)
			So(SetLevelString("verbose"), ShouldNotBeNil)
		})
	})
}

func TestFieldConstructors(t *testing.T) {
	Convey("Given the field constructors", t, func() {
		Convey("Then each should carry its key and value", func() {
			So(String("a", "b").Key, ShouldEqual, "a")
			So(Int("n", 2).Value, ShouldEqual, 2)
			So(Int64("id", 9).Value, ShouldEqual, int64(9))
			So(Bool("ok", true).Value, ShouldEqual, true)
			So(Any("x", 1.0).Key, ShouldEqual, "x")
			So(Error(nil).Key, ShouldEqual, "error")
		})
	})
}
