package analysis_test

import (
	"strings"
	"testing"

	analysis "github.com/okian/gradient/internal/domain/analysis"
	text "github.com/okian/gradient/internal/domain/text"
	types "github.com/okian/gradient/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

const instructions = "Explain photosynthesis: chlorophyll, light, energy and glucose."

func newAnalyzer() *analysis.Analyzer {
	return analysis.NewAnalyzer(analysis.WithNormalizer(text.NewNormalizer()))
}

func TestAnalyzer_EmptyInput(t *testing.T) {
	Convey("Given an analyzer", t, func() {
		a := newAnalyzer()

		Convey("When the submission is empty", func() {
			res := a.Analyze(analysis.Input{Submission: "", Instructions: "x", Rubric: "r"})

			Convey("Then no score is produced", func() {
				So(res.Status, ShouldEqual, types.StatusInsufficientData)
				So(res.ScoreRecommendation, ShouldBeNil)
				So(res.Confidence, ShouldEqual, 0)
				So(res.Feedback, ShouldEqual, "Cannot analyze empty submission or missing assignment instructions.")
				So(res.KeyPoints, ShouldBeEmpty)
				So(res.ImprovementAreas, ShouldBeEmpty)
				So(res.Metrics, ShouldBeNil)
				So(res.Rubric, ShouldEqual, "r")
			})
		})

		Convey("When the instructions are empty", func() {
			res := a.Analyze(analysis.Input{Submission: "something", Instructions: ""})

			Convey("Then no score is produced", func() {
				So(res.Status, ShouldEqual, types.StatusInsufficientData)
				So(res.ScoreRecommendation, ShouldBeNil)
			})
		})
	})
}

func TestAnalyzer_Scoring(t *testing.T) {
	Convey("Given an analyzer", t, func() {
		a := newAnalyzer()

		Convey("When the submission covers every keyword", func() {
			res := a.Analyze(analysis.Input{
				Submission:   "Explain photosynthesis chlorophyll light energy glucose",
				Instructions: instructions,
			})

			Convey("Then coverage is complete and the score follows the coverage weight", func() {
				So(res.Status, ShouldEqual, types.StatusOK)
				So(res.Metrics.KeywordCoverage, ShouldEqual, 1.0)
				So(res.Metrics.WordCount, ShouldEqual, 6)
				So(res.Metrics.SimilarityToReference, ShouldBeNil)
				So(*res.ScoreRecommendation, ShouldAlmostEqual, 70.0, 1e-9)
				So(res.Confidence, ShouldEqual, 0.5)
			})

			Convey("Then only the brevity note is raised", func() {
				So(res.ImprovementAreas, ShouldResemble, []string{
					"The submission is quite brief. Consider providing more detailed explanations.",
				})
			})

			Convey("Then feedback joins the score and coverage bands", func() {
				So(res.Feedback, ShouldEqual,
					"Satisfactory work. The submission addresses the basic requirements but could be improved. "+
						"Excellent coverage of important concepts from the assignment.")
			})
		})

		Convey("When a matching reference answer is supplied", func() {
			sub := "Photosynthesis uses chlorophyll to turn light into energy stored as glucose."
			res := a.Analyze(analysis.Input{
				Submission:      sub,
				Instructions:    instructions,
				ReferenceAnswer: sub,
			})

			Convey("Then similarity joins the score and raises confidence", func() {
				So(res.Metrics.SimilarityToReference, ShouldNotBeNil)
				So(*res.Metrics.SimilarityToReference, ShouldAlmostEqual, 1.0, 1e-9)
				So(res.Confidence, ShouldEqual, 0.7)
				want := (res.Metrics.KeywordCoverage*0.7 + 0.8) / 2 * 100
				So(*res.ScoreRecommendation, ShouldAlmostEqual, want, 1e-9)
			})
		})

		Convey("When the submission misses the topic", func() {
			res := a.Analyze(analysis.Input{
				Submission:   "Volcanoes erupt when magma pressure builds underground.",
				Instructions: instructions,
			})

			Convey("Then coverage is zero and both notes are raised", func() {
				So(res.Metrics.KeywordCoverage, ShouldEqual, 0)
				So(*res.ScoreRecommendation, ShouldEqual, 0)
				So(res.ImprovementAreas, ShouldHaveLength, 2)
				So(res.ImprovementAreas[1], ShouldEqual,
					"The submission may not adequately address all required topics from the instructions.")
				So(res.Feedback, ShouldEqual,
					"The submission needs significant improvement to fully address the assignment requirements. "+
						"Several important concepts from the assignment instructions are not adequately addressed.")
			})
		})

		Convey("When the submission is very long", func() {
			res := a.Analyze(analysis.Input{
				Submission:   strings.Repeat("photosynthesis ", 1001),
				Instructions: instructions,
			})

			Convey("Then the length note is raised instead of the brevity note", func() {
				So(res.Metrics.WordCount, ShouldEqual, 1001)
				So(res.ImprovementAreas[0], ShouldEqual,
					"The submission is lengthy. Consider being more concise while maintaining key points.")
			})
		})

		Convey("When the submission has several relevant sentences", func() {
			res := a.Analyze(analysis.Input{
				Submission: "Photosynthesis happens in leaves. Short one. Cats are nice animals indeed! " +
					"Chlorophyll absorbs light energy? Glucose is stored as starch. Light matters a great deal.",
				Instructions: instructions,
			})

			Convey("Then the first three keyword sentences become key points", func() {
				So(res.KeyPoints, ShouldResemble, []string{
					"Photosynthesis happens in leaves",
					"Chlorophyll absorbs light energy",
					"Glucose is stored as starch",
				})
			})
		})

		Convey("When a rubric is supplied", func() {
			res := a.Analyze(analysis.Input{
				Submission:   "Explain photosynthesis",
				Instructions: instructions,
				Rubric:       "10 points for clarity",
			})

			Convey("Then it is carried through without changing the score", func() {
				plain := a.Analyze(analysis.Input{Submission: "Explain photosynthesis", Instructions: instructions})
				So(res.Rubric, ShouldEqual, "10 points for clarity")
				So(*res.ScoreRecommendation, ShouldEqual, *plain.ScoreRecommendation)
			})
		})
	})
}

func TestKeywords(t *testing.T) {
	Convey("Given a token stream with repeated tokens", t, func() {
		tokens := []string{"b", "a", "b", "c", "a", "d"}

		Convey("Then tokens are ranked by frequency with first-seen tie breaks", func() {
			So(analysis.Keywords(tokens, 10), ShouldResemble, []string{"b", "a", "c", "d"})
			So(analysis.Keywords(tokens, 2), ShouldResemble, []string{"b", "a"})
		})

		Convey("Then empty input yields nothing", func() {
			So(analysis.Keywords(nil, 10), ShouldBeEmpty)
		})
	})

	Convey("Given keywords and submission tokens", t, func() {
		So(analysis.Coverage([]string{"a", "b", "c", "d"}, []string{"a", "c", "z"}), ShouldEqual, 0.5)
		So(analysis.Coverage(nil, []string{"a"}), ShouldEqual, 0)
	})
}

func TestFailedResult(t *testing.T) {
	Convey("Given an internal failure", t, func() {
		res := analysis.Failed("boom")

		Convey("Then the result carries the sentinel shape", func() {
			So(res.Status, ShouldEqual, types.StatusFailed)
			So(res.ScoreRecommendation, ShouldBeNil)
			So(res.Confidence, ShouldEqual, 0)
			So(res.Feedback, ShouldEqual, "An error occurred during analysis: boom")
		})
	})
}
