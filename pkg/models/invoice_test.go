package models

import (
	"encoding/json"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestModels(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Models Suite")
}

var _ = Describe("Record", func() {
	var (
		input  string
		record Record
		err    error
	)

	JustBeforeEach(func() {
		record = Record{}
		err = json.Unmarshal([]byte(input), &record)
	})

	When("decoding a service record", func() {
		BeforeEach(func() {
			input = `{"id": 7, "type": "Online (PDF)", "invoice_number": "TC39000001",
				"total_amount": "21.00", "currency": "USD", "total_amount_twd": 672.0,
				"exchange_rate_used": 32, "invoice_date_iso": null, "company_name": "OpenAL LLC"}`
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should keep the key order", func() {
			var keys []string
			for _, f := range record.Fields() {
				keys = append(keys, f.Key)
			}
			Expect(keys).To(Equal([]string{
				"id", "type", "invoice_number", "total_amount", "currency",
				"total_amount_twd", "exchange_rate_used", "invoice_date_iso", "company_name",
			}))
		})

		It("should expose typed accessors", func() {
			Expect(record.ID()).To(Equal("7"))
			Expect(record.Type()).To(Equal("Online (PDF)"))
			Expect(record.TotalAmount()).To(Equal("21.00"))
			Expect(record.TotalAmountTWD()).To(Equal(672.0))
			Expect(record.ExchangeRateUsed()).To(Equal(32.0))
		})

		It("should read null and absent fields as zero values", func() {
			Expect(record.InvoiceDateISO()).To(BeEmpty())
			Expect(record.ItemDescription()).To(BeEmpty())
			Expect(record.Status()).To(BeEmpty())
		})

		It("should encode back in the same order", func() {
			out, err := json.Marshal(record)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(out)).To(HavePrefix(`{"id":7,"type":"Online (PDF)","invoice_number":"TC39000001"`))
		})
	})

	When("decoding something other than an object", func() {
		BeforeEach(func() {
			input = `["id"]`
		})

		It("should return an error", func() {
			Expect(err).To(HaveOccurred())
		})
	})

	When("decoding a list that contains null", func() {
		It("should leave the null entry empty", func() {
			var records []Record
			Expect(json.Unmarshal([]byte(`[{"id":1}, null]`), &records)).To(Succeed())
			Expect(records).To(HaveLen(2))
			Expect(records[1].Len()).To(BeZero())
		})
	})
})
