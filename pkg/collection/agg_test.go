package collection

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/recset/recset/pkg/record"
)

var _ = Describe("Aggregation", func() {
	var c *Collection

	BeforeEach(func() {
		c = FromRecords([]record.Record{
			{"class": "math", "grade": int64(80)},
			{"class": "math", "grade": int64(90)},
			{"class": "history", "grade": int64(70)},
		}).WithLogger(logger)
	})

	Describe("column summaries", func() {
		var missing *Collection

		BeforeEach(func() {
			missing = FromRecords([]record.Record{
				{"a": int64(7)},
				{"a": int64(2), "b": int64(7)},
				{"a": int64(3), "b": int64(6)},
				{"a": int64(2), "b": int64(7)},
			}).WithLogger(logger)
		})

		It("should skip records missing the column", func() {
			sum, err := missing.Sum("b")
			Expect(err).NotTo(HaveOccurred())
			Expect(sum).To(Equal(int64(20)))

			count, err := missing.Count("b")
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(3)))

			nuniq, err := missing.NUnique("b")
			Expect(err).NotTo(HaveOccurred())
			Expect(nuniq).To(Equal(int64(2)))
		})

		It("should average, bound and rank the present values only", func() {
			mean, err := missing.Mean("b")
			Expect(err).NotTo(HaveOccurred())
			Expect(mean).To(BeNumerically("~", 20.0/3.0, 1e-12))

			min, err := missing.Min("b")
			Expect(err).NotTo(HaveOccurred())
			Expect(min).To(Equal(int64(6)))

			max, err := missing.Max("b")
			Expect(err).NotTo(HaveOccurred())
			Expect(max).To(Equal(int64(7)))

			med, err := missing.Median("b")
			Expect(err).NotTo(HaveOccurred())
			Expect(med).To(Equal(int64(7)))
		})

		It("should list the distinct values", func() {
			uniq, err := missing.Unique("b")
			Expect(err).NotTo(HaveOccurred())
			Expect(uniq).To(Equal([]any{int64(7), int64(6)}))
		})

		It("should compute sample dispersion", func() {
			v, err := missing.Var("b")
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(BeNumerically("~", 1.0/3.0, 1e-12))

			s, err := missing.Std("b")
			Expect(err).NotTo(HaveOccurred())
			Expect(s).To(BeNumerically("~", 0.5773502691896258, 1e-12))
		})

		It("should fall back to the documented empty sentinels", func() {
			empty := New()

			sum, err := empty.Sum("b")
			Expect(err).NotTo(HaveOccurred())
			Expect(sum).To(Equal(int64(0)))

			mean, err := empty.Mean("b")
			Expect(err).NotTo(HaveOccurred())
			Expect(mean).To(BeNil())

			min, err := empty.Min("b")
			Expect(err).NotTo(HaveOccurred())
			Expect(min).To(BeNil())

			count, err := empty.Count("b")
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(0)))

			uniq, err := empty.Unique("b")
			Expect(err).NotTo(HaveOccurred())
			Expect(uniq).To(BeEmpty())
		})

		It("should accept a custom reduction function", func() {
			res, err := c.SummariseCol(func(values []any) (any, error) {
				return int64(len(values)), nil
			}, "grade")
			Expect(err).NotTo(HaveOccurred())
			Expect(res).To(Equal(int64(3)))
		})

		It("should reject an unknown reducer name", func() {
			_, err := c.SummariseCol("total", "grade")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ungrouped aggregation", func() {
		It("should summarize into a single record", func() {
			out, err := c.Agg(
				AggSpec{Name: "avg", Column: "grade", Reducer: "mean"},
				AggSpec{Name: "n", Column: "grade", Reducer: "count"},
			)
			Expect(err).NotTo(HaveOccurred())

			recs, err := out.Records()
			Expect(err).NotTo(HaveOccurred())
			Expect(recs).To(HaveLen(1))
			Expect(recs[0]["avg"]).To(Equal(80.0))
			Expect(recs[0]["n"]).To(Equal(int64(3)))
		})
	})

	Describe("grouped aggregation", func() {
		It("should emit one summary per group combination", func() {
			out, err := c.GroupBy("class").Agg(
				AggSpec{Name: "sum", Column: "grade", Reducer: "sum"},
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.GroupKeys()).To(Equal([]string{"class"}))

			recs, err := out.Records()
			Expect(err).NotTo(HaveOccurred())
			Expect(recs).To(Equal([]record.Record{
				{"class": "math", "sum": int64(170)},
				{"class": "history", "sum": int64(70)},
			}))
		})

		It("should synthesize empty groups for unobserved combinations", func() {
			obs := FromRecords([]record.Record{
				{"g1": "a", "g2": "x", "v": int64(1)},
				{"g1": "b", "g2": "y", "v": int64(2)},
			}).WithLogger(logger)

			out, err := obs.GroupBy("g1", "g2").Agg(
				AggSpec{Name: "n", Column: "v", Reducer: "count"},
			)
			Expect(err).NotTo(HaveOccurred())

			// 2 observed combinations but 4 Cartesian ones
			recs, err := out.Records()
			Expect(err).NotTo(HaveOccurred())
			Expect(recs).To(HaveLen(4))
			Expect(fieldValues(recs, "n")).To(Equal([]any{
				int64(1), int64(0), int64(0), int64(1),
			}))
		})

		It("should fail aggregating an empty group with a mean", func() {
			obs := FromRecords([]record.Record{
				{"g1": "a", "g2": "x", "v": int64(1)},
				{"g1": "b", "g2": "y", "v": int64(2)},
			})

			_, err := obs.GroupBy("g1", "g2").Agg(
				AggSpec{Name: "avg", Column: "v", Reducer: "mean"},
			)
			Expect(err).To(HaveOccurred())
		})

		It("should not touch the input records", func() {
			_, err := c.GroupBy("class").Agg(
				AggSpec{Name: "sum", Column: "grade", Reducer: "sum"},
			)
			Expect(err).NotTo(HaveOccurred())

			recs, err := c.Records()
			Expect(err).NotTo(HaveOccurred())
			Expect(recs[0]).To(Equal(record.Record{"class": "math", "grade": int64(80)}))
		})

		It("should reject non-record items", func() {
			_, err := New("a").GroupBy("x").Agg(
				AggSpec{Name: "n", Column: "x", Reducer: "count"},
			)
			Expect(errors.Is(err, ErrTypeMismatch)).To(BeTrue())
		})
	})
})
