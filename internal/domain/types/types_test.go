package types_test

import (
	"math"
	"testing"

	types "github.com/okian/gradient/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStatus(t *testing.T) {
	Convey("Given the result statuses", t, func() {
		Convey("Then only StatusOK reports OK", func() {
			So(types.StatusOK.OK(), ShouldBeTrue)
			So(types.StatusInsufficientData.OK(), ShouldBeFalse)
			So(types.StatusFailed.OK(), ShouldBeFalse)
		})
	})
}

func TestClamp(t *testing.T) {
	Convey("Given values around a range", t, func() {
		Convey("Then they are bounded", func() {
			So(types.Clamp(120, 0, 100), ShouldEqual, 100)
			So(types.Clamp(-3, 0, 100), ShouldEqual, 0)
			So(types.Clamp(42.5, 0, 100), ShouldEqual, 42.5)
		})

		Convey("Then NaN maps to the lower bound", func() {
			So(types.Clamp(math.NaN(), 0, 1), ShouldEqual, 0)
		})

		Convey("Then infinities are bounded", func() {
			So(types.Clamp(math.Inf(1), 0, 1), ShouldEqual, 1)
			So(types.Clamp(math.Inf(-1), 0, 1), ShouldEqual, 0)
		})
	})
}

func TestMeanAndFloat(t *testing.T) {
	Convey("Given a few scores", t, func() {
		So(types.Mean([]float64{60, 70, 80}), ShouldEqual, 70)
		So(types.Mean(nil), ShouldEqual, 0)

		p := types.Float(0)
		So(p, ShouldNotBeNil)
		So(*p, ShouldEqual, 0)
	})
}
