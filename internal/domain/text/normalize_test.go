package text_test

import (
	"sync"
	"testing"

	text "github.com/okian/gradient/internal/domain/text"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalizer_Normalize(t *testing.T) {
	Convey("Given a normalizer with the rule lemmatizer", t, func() {
		n := text.NewNormalizer(text.WithLemmatizer(text.RuleLemmatizer()))

		Convey("When normalizing empty input", func() {
			Convey("Then it returns an empty string and no tokens", func() {
				So(n.Normalize(""), ShouldEqual, "")
				So(n.Tokens(""), ShouldBeEmpty)
			})
		})

		Convey("When normalizing a sentence", func() {
			out := n.Normalize("The cats are running!")

			Convey("Then stopwords are dropped and tokens lemmatized", func() {
				So(out, ShouldEqual, "cat run")
			})
		})

		Convey("When the input carries punctuation", func() {
			out := n.Normalize("Hello,world... it's   $100+ (really)")

			Convey("Then punctuation splits tokens and never survives", func() {
				So(out, ShouldEqual, "hello world 100 really")
			})
		})

		Convey("When the input carries unicode punctuation", func() {
			out := n.Normalize("Photosynthesis—light «energy»")

			Convey("Then it is replaced like ASCII punctuation", func() {
				So(out, ShouldEqual, "photosynthesis light energy")
			})
		})

		Convey("When the input is only stopwords", func() {
			Convey("Then nothing remains", func() {
				So(n.Normalize("It is what it is, and so on."), ShouldEqual, "")
				So(n.Tokens("the and of"), ShouldBeNil)
			})
		})

		Convey("When tokenizing", func() {
			tokens := n.Tokens("Students wrote essays about energy")

			Convey("Then order is preserved", func() {
				So(tokens, ShouldResemble, []string{"student", "write", "essay", "energy"})
			})
		})
	})

	Convey("Given custom options", t, func() {
		Convey("When using the identity lemmatizer", func() {
			n := text.NewNormalizer(text.WithLemmatizer(text.IdentityLemmatizer))

			Convey("Then tokens are only lowercased", func() {
				So(n.Normalize("Cats RUNNING"), ShouldEqual, "cats running")
			})
		})

		Convey("When using a custom stopword set", func() {
			n := text.NewNormalizer(
				text.WithStopwords(text.NewStopwordSet("Cat")),
				text.WithLemmatizer(text.IdentityLemmatizer),
			)

			Convey("Then only those words are dropped", func() {
				So(n.Normalize("the cat sat"), ShouldEqual, "the sat")
			})
		})

		Convey("When the lemmatizer panics", func() {
			n := text.NewNormalizer(text.WithLemmatizer(text.LemmatizerFunc(func(string) string {
				panic("broken dictionary")
			})))

			Convey("Then the token is kept unchanged", func() {
				So(func() { n.Normalize("essays") }, ShouldNotPanic)
				So(n.Normalize("essays"), ShouldEqual, "essays")
			})
		})

		Convey("When the lemmatizer returns nothing", func() {
			n := text.NewNormalizer(text.WithLemmatizer(text.LemmatizerFunc(func(string) string { return "" })))

			Convey("Then the token is kept unchanged", func() {
				So(n.Normalize("essays"), ShouldEqual, "essays")
			})
		})

		Convey("When nil options are passed", func() {
			n := text.NewNormalizer(text.WithStopwords(nil), text.WithLemmatizer(nil))

			Convey("Then defaults are kept", func() {
				So(n.Normalize("the cats"), ShouldEqual, "cat")
			})
		})
	})
}

func TestDefault(t *testing.T) {
	Convey("Given the process-wide normalizer", t, func() {
		Convey("When called concurrently", func() {
			var wg sync.WaitGroup
			results := make([]string, 16)
			for i := range results {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					results[i] = text.Normalize("The students are writing essays.")
				}(i)
			}
			wg.Wait()

			Convey("Then every call agrees and drops stopwords", func() {
				for _, r := range results {
					So(r, ShouldEqual, results[0])
				}
				So(results[0], ShouldNotContainSubstring, "the")
				So(results[0], ShouldNotBeEmpty)
			})
		})

		Convey("Then the same instance is returned", func() {
			So(text.Default(), ShouldEqual, text.Default())
		})

		Convey("Then empty input stays empty", func() {
			So(text.Normalize(""), ShouldEqual, "")
			So(text.Tokens(""), ShouldBeEmpty)
		})
	})
}

func TestRuleLemmatizer(t *testing.T) {
	Convey("Given the rule lemmatizer", t, func() {
		l := text.RuleLemmatizer()

		Convey("Then plural and verb suffixes are reduced", func() {
			cases := map[string]string{
				"cats":      "cat",
				"studies":   "study",
				"classes":   "class",
				"boxes":     "box",
				"churches":  "church",
				"running":   "run",
				"making":    "make",
				"testing":   "test",
				"reading":   "read",
				"stopped":   "stop",
				"based":     "base",
				"processes": "process",
				"children":  "child",
				"analyses":  "analysis",
			}
			for in, want := range cases {
				So(l.Lemma(in), ShouldEqual, want)
			}
		})

		Convey("Then short or protected words are untouched", func() {
			for _, w := range []string{"is", "bus", "focus", "analysis", "process", "thing", "string", "need", "speed"} {
				So(l.Lemma(w), ShouldEqual, w)
			}
		})
	})
}

func TestStopwords(t *testing.T) {
	Convey("Given the bundled stopword set", t, func() {
		set := text.EnglishStopwords()

		Convey("Then it holds common function words", func() {
			So(len(set), ShouldBeGreaterThan, 100)
			So(set.Contains("the"), ShouldBeTrue)
			So(set.Contains("and"), ShouldBeTrue)
			So(set.Contains("photosynthesis"), ShouldBeFalse)
		})

		Convey("Then each call returns an independent copy", func() {
			delete(set, "the")
			So(text.EnglishStopwords().Contains("the"), ShouldBeTrue)
		})
	})
}
