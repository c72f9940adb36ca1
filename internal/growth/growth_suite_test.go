package growth_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/popsim/internal/growth"
)

func TestGrowth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Growth Suite")
}

var scenarios = []growth.Input{
	{PopulationA: 80000, RateA: 3.0, PopulationB: 200000, RateB: 1.5, MaxYears: 500},
	{PopulationA: 100, RateA: 0, PopulationB: 200, RateB: 0, MaxYears: 500},
	{PopulationA: 200, RateA: 5, PopulationB: 100, RateB: 5, MaxYears: 500},
	{PopulationA: 1000, RateA: 10, PopulationB: 1100, RateB: 5, MaxYears: 2},
	{PopulationA: 1000, RateA: 10, PopulationB: 1100, RateB: 5, MaxYears: 3},
	{PopulationA: 5e6, RateA: 0.7, PopulationB: 9e6, RateB: 0.9, MaxYears: 50},
	{PopulationA: 12.5, RateA: 2.25, PopulationB: 13.75, RateB: 0, MaxYears: 1},
}

var _ = Describe("Simulate", func() {
	It("numbers years consecutively from 1", func() {
		for _, in := range scenarios {
			res, err := growth.Simulate(in)
			Expect(err).NotTo(HaveOccurred())
			for i, rec := range res.Records {
				Expect(rec.Year).To(Equal(i + 1))
			}
		}
	})

	It("never produces more records than the cap", func() {
		for _, in := range scenarios {
			res, err := growth.Simulate(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(len(res.Records)).To(BeNumerically("<=", in.MaxYears))
		}
	})

	It("reports years elapsed as the last record's year", func() {
		for _, in := range scenarios {
			res, err := growth.Simulate(in)
			Expect(err).NotTo(HaveOccurred())
			last, ok := res.Last()
			if ok {
				Expect(res.YearsElapsed).To(Equal(last.Year))
			} else {
				Expect(res.YearsElapsed).To(BeZero())
			}
		}
	})

	It("keeps both series non-decreasing", func() {
		for _, in := range scenarios {
			res, err := growth.Simulate(in)
			Expect(err).NotTo(HaveOccurred())
			for i := 1; i < len(res.Records); i++ {
				Expect(res.Records[i].PopulationA).To(BeNumerically(">=", res.Records[i-1].PopulationA))
				Expect(res.Records[i].PopulationB).To(BeNumerically(">=", res.Records[i-1].PopulationB))
			}
		}
	})

	It("fills the cap exactly when A never catches up", func() {
		for _, in := range scenarios {
			res, err := growth.Simulate(in)
			Expect(err).NotTo(HaveOccurred())
			if res.Outcome == growth.NeverOvertakes {
				Expect(res.Records).To(HaveLen(in.MaxYears))
				last, _ := res.Last()
				Expect(last.PopulationA).To(BeNumerically("<", last.PopulationB))
			}
		}
	})

	DescribeTable("outcomes",
		func(in growth.Input, outcome growth.Outcome, years int) {
			res, err := growth.Simulate(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Outcome).To(Equal(outcome))
			Expect(res.YearsElapsed).To(Equal(years))
		},
		Entry("statement values", scenarios[0], growth.Overtaken, 63),
		Entry("zero rates", scenarios[1], growth.NeverOvertakes, 500),
		Entry("already ahead", scenarios[2], growth.Overtaken, 0),
		Entry("cap one year short", scenarios[3], growth.NeverOvertakes, 2),
		Entry("cap exactly at crossing", scenarios[4], growth.Overtaken, 3),
	)

	It("rejects invalid input with ErrInvalidInput", func() {
		_, err := growth.Run(-1, 1, 10, 1, 10)
		Expect(err).To(MatchError(growth.ErrInvalidInput))
	})
})
