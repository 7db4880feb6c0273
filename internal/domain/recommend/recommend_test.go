package recommend_test

import (
	"math"
	"testing"

	recommend "github.com/okian/gradient/internal/domain/recommend"
	types "github.com/okian/gradient/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerate(t *testing.T) {
	Convey("Given no student or course data", t, func() {
		recs := recommend.Generate(recommend.StudentData{}, recommend.CourseData{})

		Convey("Then a single general recommendation is returned", func() {
			So(recs, ShouldHaveLength, 1)
			So(recs[0].Type, ShouldEqual, recommend.KindGeneral)
			So(recs[0].Description, ShouldEqual, "Review course materials and practice exercises")
			So(recs[0].Reason, ShouldEqual, "Regular review helps reinforce learning")
		})
	})

	Convey("Given past assignments across topics", t, func() {
		student := recommend.StudentData{
			PastAssignments: []recommend.PastAssignment{
				{Topic: "algebra", Score: types.Float(60)},
				{Topic: "geometry", Score: types.Float(95)},
				{Topic: "algebra", Score: types.Float(75)},
				{Score: types.Float(50)},
				{Topic: "calculus", Score: nil},
			},
		}
		recs := recommend.Generate(student, recommend.CourseData{})

		Convey("Then weak topics get practice recommendations in first-seen order", func() {
			So(recs, ShouldHaveLength, 2)
			So(recs[0].Type, ShouldEqual, recommend.KindPractice)
			So(recs[0].Topic, ShouldEqual, "algebra")
			So(recs[0].Reason, ShouldEqual,
				"Your average score in algebra is 67.5%. Additional practice could help improve your understanding.")
			So(recs[1].Topic, ShouldEqual, "general")
			So(recs[1].Reason, ShouldContainSubstring, "is 50.0%")
		})
	})

	Convey("Given a topic averaging exactly the threshold", t, func() {
		recs := recommend.Generate(recommend.StudentData{
			PastAssignments: []recommend.PastAssignment{{Topic: "history", Score: types.Float(75)}},
		}, recommend.CourseData{})

		Convey("Then it is not weak", func() {
			So(recs[0].Type, ShouldEqual, recommend.KindGeneral)
		})
	})

	Convey("Given a learning style", t, func() {
		Convey("When it is known", func() {
			for style, desc := range map[string]string{
				"visual":      "Visual learning resources like diagrams and videos",
				"auditory":    "Audio lectures and discussion groups",
				"kinesthetic": "Hands-on practice exercises and interactive simulations",
			} {
				recs := recommend.Generate(recommend.StudentData{LearningStyle: style}, recommend.CourseData{})
				So(recs, ShouldHaveLength, 1)
				So(recs[0].Type, ShouldEqual, recommend.KindResource)
				So(recs[0].Description, ShouldEqual, desc)
			}
		})

		Convey("When it is unknown", func() {
			recs := recommend.Generate(recommend.StudentData{LearningStyle: "reading"}, recommend.CourseData{})

			Convey("Then it adds nothing", func() {
				So(recs, ShouldHaveLength, 1)
				So(recs[0].Type, ShouldEqual, recommend.KindGeneral)
			})
		})
	})

	Convey("Given a high achiever", t, func() {
		student := recommend.StudentData{OverallAverage: types.Float(92)}
		course := recommend.CourseData{AdvancedTopics: []string{"topology", "measure theory", "category theory"}}
		recs := recommend.Generate(student, course)

		Convey("Then the first two advanced topics are suggested", func() {
			So(recs, ShouldHaveLength, 2)
			So(recs[0].Type, ShouldEqual, recommend.KindAdvancedTopic)
			So(recs[0].Topic, ShouldEqual, "topology")
			So(recs[1].Topic, ShouldEqual, "measure theory")
			So(recs[1].Reason, ShouldEqual, "Based on your strong performance, you might enjoy exploring this advanced topic")
		})

		Convey("Then without advanced topics the general fallback applies", func() {
			recs := recommend.Generate(student, recommend.CourseData{})
			So(recs[0].Type, ShouldEqual, recommend.KindGeneral)
		})
	})

	Convey("Given every rule firing", t, func() {
		recs := recommend.Generate(recommend.StudentData{
			PastAssignments: []recommend.PastAssignment{{Topic: "optics", Score: types.Float(40)}},
			LearningStyle:   "visual",
			OverallAverage:  types.Float(90),
		}, recommend.CourseData{AdvancedTopics: []string{"lasers"}})

		Convey("Then rules contribute in order", func() {
			kinds := make([]recommend.Kind, len(recs))
			for i, r := range recs {
				kinds[i] = r.Type
			}
			So(kinds, ShouldResemble, []recommend.Kind{
				recommend.KindPractice, recommend.KindResource, recommend.KindAdvancedTopic,
			})
		})
	})

	Convey("Given non-finite values", t, func() {
		Convey("When a score is NaN", func() {
			recs := recommend.Generate(recommend.StudentData{
				PastAssignments: []recommend.PastAssignment{{Topic: "x", Score: types.Float(math.NaN())}},
			}, recommend.CourseData{})

			Convey("Then a single error recommendation is returned", func() {
				So(recs, ShouldHaveLength, 1)
				So(recs[0].Type, ShouldEqual, recommend.KindError)
				So(recs[0].Description, ShouldEqual, "Unable to generate personalized recommendations")
				So(recs[0].Reason, ShouldStartWith, "An error occurred: ")
			})
		})

		Convey("When finite scores in one topic sum past the float range", func() {
			recs := recommend.Generate(recommend.StudentData{
				PastAssignments: []recommend.PastAssignment{
					{Topic: "x", Score: types.Float(math.MaxFloat64)},
					{Topic: "x", Score: types.Float(math.MaxFloat64)},
				},
			}, recommend.CourseData{})

			Convey("Then a single error recommendation is returned", func() {
				So(recs, ShouldHaveLength, 1)
				So(recs[0].Type, ShouldEqual, recommend.KindError)
				So(recs[0].Reason, ShouldContainSubstring, recommend.ErrNonFinite.Error())
			})
		})

		Convey("When the overall average is infinite", func() {
			recs := recommend.Generate(recommend.StudentData{OverallAverage: types.Float(math.Inf(1))}, recommend.CourseData{})
			So(recs[0].Type, ShouldEqual, recommend.KindError)
		})
	})
}
