package collection

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/recset/recset/pkg/record"
)

var _ = Describe("Joins", func() {
	var people, pets *Collection

	BeforeEach(func() {
		people = FromRecords([]record.Record{
			{"id": int64(1), "name": "joe"},
			{"id": int64(2), "name": "jane"},
			{"id": int64(3), "name": "jim"},
		}).WithLogger(logger)

		pets = FromRecords([]record.Record{
			{"owner": int64(1), "pet": "cat"},
			{"owner": int64(1), "pet": "dog"},
			{"owner": int64(2), "pet": "fish"},
		}).WithLogger(logger)
	})

	Describe("left join", func() {
		It("should emit one record per matching pair plus the unmatched left", func() {
			out, err := people.LeftJoin(pets, Mapping{"id": "owner"})
			Expect(err).NotTo(HaveOccurred())

			recs, err := out.Records()
			Expect(err).NotTo(HaveOccurred())
			Expect(recs).To(Equal([]record.Record{
				{"id": int64(1), "name": "joe", "owner": int64(1), "pet": "cat"},
				{"id": int64(1), "name": "joe", "owner": int64(1), "pet": "dog"},
				{"id": int64(2), "name": "jane", "owner": int64(2), "pet": "fish"},
				{"id": int64(3), "name": "jim"},
			}))
		})

		It("should not touch the inputs", func() {
			out, err := people.LeftJoin(pets, Mapping{"id": "owner"})
			Expect(err).NotTo(HaveOccurred())

			recs, err := out.Records()
			Expect(err).NotTo(HaveOccurred())
			recs[0]["name"] = "someone else"

			orig, err := people.Records()
			Expect(err).NotTo(HaveOccurred())
			Expect(orig[0]["name"]).To(Equal("joe"))
		})
	})

	Describe("inner join", func() {
		It("should drop unmatched records on both sides", func() {
			out, err := people.InnerJoin(pets, Mapping{"id": "owner"})
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Len()).To(Equal(3))

			recs, err := out.Records()
			Expect(err).NotTo(HaveOccurred())
			for i := range recs {
				Expect(recs[i]["id"]).To(Equal(recs[i]["owner"]))
			}
		})

		It("should never emit more records than the left join", func() {
			left, err := people.LeftJoin(pets, Mapping{"id": "owner"})
			Expect(err).NotTo(HaveOccurred())
			inner, err := people.InnerJoin(pets, Mapping{"id": "owner"})
			Expect(err).NotTo(HaveOccurred())
			Expect(left.Len()).To(BeNumerically(">=", inner.Len()))
		})
	})

	Describe("match semantics", func() {
		It("should treat a missing mapped field as a non-match", func() {
			right := FromRecords([]record.Record{
				{"pet": "stray"},
				{"owner": int64(1), "pet": "cat"},
			})

			out, err := people.InnerJoin(right, Mapping{"id": "owner"})
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Len()).To(Equal(1))
		})

		It("should require every mapped pair to match", func() {
			left := FromRecords([]record.Record{
				{"a": int64(1), "b": int64(1)},
			})
			right := FromRecords([]record.Record{
				{"a": int64(1), "b": int64(2)},
			})

			out, err := left.InnerJoin(right, Mapping{"a": "a", "b": "b"})
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Len()).To(Equal(0))
		})

		It("should compare values structurally", func() {
			left := FromRecords([]record.Record{
				{"k": []any{int64(1), int64(2)}, "l": "left"},
			})
			right := FromRecords([]record.Record{
				{"k": []any{int64(1), int64(2)}, "r": "right"},
			})

			out, err := left.InnerJoin(right, Mapping{"k": "k"})
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Len()).To(Equal(1))
		})
	})

	Describe("collision suffixing", func() {
		var left, right *Collection

		BeforeEach(func() {
			left = FromRecords([]record.Record{
				{"id": int64(1), "x": int64(10)},
			}).WithLogger(logger)
			right = FromRecords([]record.Record{
				{"id": int64(1), "x": int64(99)},
			}).WithLogger(logger)
		})

		It("should suffix colliding non-mapped fields on both sides", func() {
			out, err := left.InnerJoin(right, Mapping{"id": "id"})
			Expect(err).NotTo(HaveOccurred())

			recs, err := out.Records()
			Expect(err).NotTo(HaveOccurred())
			Expect(recs[0]).To(Equal(record.Record{
				"id":       int64(1),
				"x":        int64(10),
				"x_joined": int64(99),
			}))
		})

		It("should never suffix a mapped field", func() {
			out, err := left.InnerJoin(right, Mapping{"id": "id"})
			Expect(err).NotTo(HaveOccurred())

			recs, err := out.Records()
			Expect(err).NotTo(HaveOccurred())
			Expect(recs[0]).NotTo(HaveKey("id_joined"))
		})

		It("should honor custom suffixes", func() {
			out, err := left.InnerJoin(right, Mapping{"id": "id"},
				WithSuffixes("_l", "_r"))
			Expect(err).NotTo(HaveOccurred())

			recs, err := out.Records()
			Expect(err).NotTo(HaveOccurred())
			Expect(recs[0]).To(Equal(record.Record{
				"id":  int64(1),
				"x_l": int64(10),
				"x_r": int64(99),
			}))
		})
	})

	It("should reject non-record items on either side", func() {
		_, err := New("a").LeftJoin(pets, Mapping{"id": "owner"})
		Expect(errors.Is(err, ErrTypeMismatch)).To(BeTrue())

		_, err = people.LeftJoin(New("b"), Mapping{"id": "owner"})
		Expect(errors.Is(err, ErrTypeMismatch)).To(BeTrue())
	})
})
