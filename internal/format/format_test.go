package format

import (
	"encoding/json"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestFormat(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Format Suite")
}

var _ = Describe("placeholders", func() {
	DescribeTable("falsy input renders as N/A",
		func(render func() string) {
			Expect(render()).To(Equal(Placeholder))
		},
		Entry("Amount(nil)", func() string { return Amount(nil) }),
		Entry("Amount(\"\")", func() string { return Amount("") }),
		Entry("Amount(json 0)", func() string { return Amount(json.Number("0")) }),
		Entry("Amount(json 0.00)", func() string { return Amount(json.Number("0.00")) }),
		Entry("Money(0)", func() string { return Money(0) }),
		Entry("Rate(0)", func() string { return Rate(0) }),
		Entry("Truncate(\"\")", func() string { return Truncate("") }),
		Entry("Date(\"\")", func() string { return Date("") }),
		Entry("ROCDate(\"\")", func() string { return ROCDate("") }),
		Entry("Value(false)", func() string { return Value(false) }),
		Entry("Value(0.0)", func() string { return Value(0.0) }),
	)
})

var _ = Describe("Amount", func() {
	It("returns a textual amount verbatim", func() {
		Expect(Amount("21.00")).To(Equal("21.00"))
	})

	It("keeps the original notation of numbers", func() {
		Expect(Amount(json.Number("1309"))).To(Equal("1309"))
	})
})

var _ = Describe("Money", func() {
	It("pads to two decimals with the currency prefix", func() {
		Expect(Money(1234.5)).To(Equal("NT$ 1234.50"))
	})

	It("rounds half away from zero", func() {
		Expect(Money(10.125)).To(Equal("NT$ 10.13"))
	})

	It("keeps the sign of refunds", func() {
		Expect(Money(-42)).To(Equal("NT$ -42.00"))
	})
})

var _ = Describe("Rate", func() {
	It("renders four decimals with standard rounding", func() {
		Expect(Rate(0.03125)).To(Equal("0.0313"))
	})

	It("pads short rates", func() {
		Expect(Rate(32)).To(Equal("32.0000"))
	})
})

var _ = Describe("Truncate", func() {
	It("leaves 30 characters unchanged", func() {
		s := strings.Repeat("A", 30)
		Expect(Truncate(s)).To(Equal(s))
	})

	It("cuts 31 characters to 30 plus an ellipsis", func() {
		Expect(Truncate(strings.Repeat("A", 31))).To(Equal(strings.Repeat("A", 30) + "..."))
	})

	It("counts characters rather than bytes", func() {
		s := strings.Repeat("發", 30)
		Expect(Truncate(s)).To(Equal(s))
		Expect(Truncate(s + "票")).To(Equal(s + "..."))
	})
})

var _ = Describe("Date", func() {
	It("passes ISO dates through", func() {
		Expect(Date("2025-10-14")).To(Equal("2025-10-14"))
	})
})

var _ = Describe("ROCDate", func() {
	It("converts the ROC year", func() {
		Expect(ROCDate("1120315")).To(Equal("2023 / 03 / 15"))
	})

	It("keeps leading zeros of month and day", func() {
		Expect(ROCDate("1140101")).To(Equal("2025 / 01 / 01"))
	})

	It("returns malformed input unchanged", func() {
		Expect(ROCDate("11203")).To(Equal("11203"))
		Expect(ROCDate("112-3-1")).To(Equal("112-3-1"))
	})
})

var _ = Describe("TranslateType", func() {
	It("translates known capture methods", func() {
		Expect(TranslateType("Online (PDF)")).To(Equal("線上 PDF 發票"))
		Expect(TranslateType("Electronic (QR Code)")).To(Equal("電子發票 (QR Code)"))
		Expect(TranslateType("Traditional (OCR)")).To(Equal("傳統紙本發票 (OCR)"))
	})

	It("passes unknown values through", func() {
		Expect(TranslateType("Unknown X")).To(Equal("Unknown X"))
	})
})

var _ = Describe("FieldLabel", func() {
	It("labels known keys", func() {
		Expect(FieldLabel("exchange_rate_used")).To(Equal("當時匯率"))
	})

	It("falls back to the raw key", func() {
		Expect(FieldLabel("seller_tax_id")).To(Equal("seller_tax_id"))
	})
})
