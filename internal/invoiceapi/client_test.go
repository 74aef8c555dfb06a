package invoiceapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"

	"invoicedesk/pkg/models"
)

func TestInvoiceAPI(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Invoice API Suite")
}

var _ = Describe("Client", func() {
	var (
		server *ghttp.Server
		client *Client
		ctx    context.Context
	)

	BeforeEach(func() {
		server = ghttp.NewServer()
		var err error
		client, err = New(Config{BaseURL: server.URL()})
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("New", func() {
		It("should reject URLs without an http scheme", func() {
			_, err := New(Config{BaseURL: "ftp://example.com"})
			Expect(err).To(HaveOccurred())
		})

		It("should reject an empty URL", func() {
			_, err := New(Config{})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Submit", func() {
		var (
			record *models.Record
			err    error

			gotFilename    string
			gotContentType string
			gotData        []byte
		)

		captureUpload := func(w http.ResponseWriter, r *http.Request) {
			f, header, ferr := r.FormFile("file")
			if ferr != nil {
				return
			}
			defer f.Close()
			gotFilename = header.Filename
			gotContentType = header.Header.Get("Content-Type")
			gotData, _ = io.ReadAll(f)
		}

		BeforeEach(func() {
			gotFilename, gotContentType, gotData = "", "", nil
		})

		JustBeforeEach(func() {
			record, err = client.Submit(ctx, "scans/receipt.PDF", []byte("%PDF-1.7 test"))
		})

		When("the service recognizes the file", func() {
			BeforeEach(func() {
				server.AppendHandlers(ghttp.CombineHandlers(
					ghttp.VerifyRequest(http.MethodPost, "/process-invoice"),
					captureUpload,
					ghttp.RespondWith(http.StatusOK, `{"id": 1, "invoice_number": "TC39000001", "total_amount_twd": 672}`),
				))
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return the stored record", func() {
				Expect(record.InvoiceNumber()).To(Equal("TC39000001"))
				Expect(record.TotalAmountTWD()).To(Equal(672.0))
			})

			It("should upload the file as the file field", func() {
				Expect(gotFilename).To(Equal("receipt.PDF"))
				Expect(gotContentType).To(Equal("application/pdf"))
				Expect(string(gotData)).To(Equal("%PDF-1.7 test"))
			})
		})

		When("the service rejects the file with a detail", func() {
			BeforeEach(func() {
				server.AppendHandlers(ghttp.RespondWith(http.StatusBadRequest, `{"detail":"bad image"}`))
			})

			It("should return a recognition error carrying the detail", func() {
				Expect(err).To(MatchError(ErrRecognition))
				Expect(err.Error()).To(Equal("bad image"))

				var apiErr *APIError
				Expect(errors.As(err, &apiErr)).To(BeTrue())
				Expect(apiErr.StatusCode).To(Equal(http.StatusBadRequest))
				Expect(apiErr.Op).To(Equal("Submit"))
			})
		})

		When("the service fails without a detail", func() {
			BeforeEach(func() {
				server.AppendHandlers(ghttp.RespondWith(http.StatusInternalServerError, `{"status":"error","message":"boom"}`))
			})

			It("should fall back to the generic message", func() {
				Expect(err).To(MatchError(ErrRecognition))
				Expect(err.Error()).To(Equal("辨識失敗"))
			})
		})

		When("a successful status carries a malformed body", func() {
			BeforeEach(func() {
				server.AppendHandlers(ghttp.RespondWith(http.StatusOK, `<html>`))
			})

			It("should fail with the decode error attached", func() {
				Expect(err).To(MatchError(ErrRecognition))
				Expect(errors.Unwrap(err)).To(HaveOccurred())
				Expect(record).To(BeNil())
			})

			It("should report the cause without repeating the generic message", func() {
				Expect(err.Error()).To(Equal(errors.Unwrap(err).Error()))
				Expect(err.Error()).NotTo(ContainSubstring("辨識失敗"))
			})
		})
	})

	Describe("ListInvoices", func() {
		var (
			records []models.Record
			err     error
		)

		JustBeforeEach(func() {
			records, err = client.ListInvoices(ctx)
		})

		When("records exist", func() {
			BeforeEach(func() {
				server.AppendHandlers(ghttp.CombineHandlers(
					ghttp.VerifyRequest(http.MethodGet, "/invoices"),
					ghttp.RespondWith(http.StatusOK, `[{"invoice_number":"A"},{"invoice_number":"B"}]`),
				))
			})

			It("should return them in order", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(records).To(HaveLen(2))
				Expect(records[0].InvoiceNumber()).To(Equal("A"))
				Expect(records[1].InvoiceNumber()).To(Equal("B"))
			})
		})

		When("the service returns null", func() {
			BeforeEach(func() {
				server.AppendHandlers(ghttp.RespondWith(http.StatusOK, `null`))
			})

			It("should return an empty list", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(records).To(BeEmpty())
				Expect(records).NotTo(BeNil())
			})
		})

		When("the service fails with a plain-text body", func() {
			BeforeEach(func() {
				server.AppendHandlers(ghttp.RespondWith(http.StatusServiceUnavailable, `upstream down`))
			})

			It("should use the status text", func() {
				Expect(err).To(MatchError(ErrFetch))
				Expect(err.Error()).To(Equal("Service Unavailable"))
			})
		})

		When("the service fails with a detail", func() {
			BeforeEach(func() {
				server.AppendHandlers(ghttp.RespondWith(http.StatusInternalServerError, `{"detail":"db locked"}`))
			})

			It("should prefer the detail", func() {
				Expect(err).To(MatchError(ErrFetch))
				Expect(err.Error()).To(Equal("db locked"))
			})
		})

		When("a successful status carries a malformed body", func() {
			BeforeEach(func() {
				server.AppendHandlers(ghttp.RespondWith(http.StatusOK, `<html>`))
			})

			It("should use the generic message rather than the status text", func() {
				Expect(err).To(MatchError(ErrFetch))
				Expect(records).To(BeNil())

				var apiErr *APIError
				Expect(errors.As(err, &apiErr)).To(BeTrue())
				Expect(apiErr.Message).To(Equal("request failed"))
				Expect(err.Error()).NotTo(ContainSubstring("OK"))
				Expect(err.Error()).To(Equal(apiErr.Err.Error()))
			})
		})
	})

	Describe("FetchSummary", func() {
		var (
			summary *models.Summary
			err     error
		)

		JustBeforeEach(func() {
			summary, err = client.FetchSummary(ctx)
		})

		When("the summary is available", func() {
			BeforeEach(func() {
				server.AppendHandlers(ghttp.CombineHandlers(
					ghttp.VerifyRequest(http.MethodGet, "/summary"),
					ghttp.RespondWith(http.StatusOK, `{"monthly":[{"month":"2025-10","total_twd":1309},
						{"month":"2025-06","total_twd":672}],"total_all_time":1981,
						"processed_count":2,"db_total_count":2}`),
				))
			})

			It("should decode it without reordering", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(summary.Monthly).To(Equal([]models.MonthlySummary{
					{Month: "2025-10", TotalTWD: 1309},
					{Month: "2025-06", TotalTWD: 672},
				}))
				Expect(summary.TotalAllTime).To(Equal(1981.0))
				Expect(summary.ProcessedCount).To(HaveValue(Equal(2)))
			})
		})

		When("the service fails with a detail", func() {
			BeforeEach(func() {
				server.AppendHandlers(ghttp.RespondWith(http.StatusInternalServerError, `{"detail":"Python 彙總計算失敗"}`))
			})

			It("should use the detail", func() {
				Expect(err).To(MatchError(ErrFetch))
				Expect(err.Error()).To(Equal("Python 彙總計算失敗"))
			})
		})

		When("the service fails without a body", func() {
			BeforeEach(func() {
				server.AppendHandlers(ghttp.RespondWith(http.StatusNotFound, ``))
			})

			It("should use the status text", func() {
				Expect(err.Error()).To(Equal("Not Found"))
			})
		})

		When("a successful status carries a malformed body", func() {
			BeforeEach(func() {
				server.AppendHandlers(ghttp.RespondWith(http.StatusOK, `{"monthly":`))
			})

			It("should fail with the generic message", func() {
				Expect(err).To(MatchError(ErrFetch))
				Expect(summary).To(BeNil())

				var apiErr *APIError
				Expect(errors.As(err, &apiErr)).To(BeTrue())
				Expect(apiErr.Message).To(Equal("request failed"))
			})
		})
	})

	Describe("DeleteAll", func() {
		var (
			result *models.DeleteResult
			err    error
		)

		JustBeforeEach(func() {
			result, err = client.DeleteAll(ctx)
		})

		When("the purge succeeds", func() {
			BeforeEach(func() {
				server.AppendHandlers(ghttp.CombineHandlers(
					ghttp.VerifyRequest(http.MethodDelete, "/invoices"),
					ghttp.RespondWith(http.StatusOK, `{"message":"12 rows removed"}`),
				))
			})

			It("should return the service message", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(result.Message).To(Equal("12 rows removed"))
			})
		})

		When("the purge succeeds with an empty object", func() {
			BeforeEach(func() {
				server.AppendHandlers(ghttp.RespondWith(http.StatusOK, `{}`))
			})

			It("should return an empty message", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(result.Message).To(BeEmpty())
			})
		})

		When("the service refuses with a detail", func() {
			BeforeEach(func() {
				server.AppendHandlers(ghttp.RespondWith(http.StatusForbidden, `{"detail":"read-only mode"}`))
			})

			It("should return a delete error with the detail", func() {
				Expect(err).To(MatchError(ErrDelete))
				Expect(err.Error()).To(Equal("read-only mode"))
			})
		})

		When("the service fails with an unparseable body", func() {
			BeforeEach(func() {
				server.AppendHandlers(ghttp.RespondWith(http.StatusBadGateway, `<html>bad gateway</html>`))
			})

			It("should use the generic message", func() {
				Expect(err).To(MatchError(ErrDelete))
				Expect(err.Error()).To(Equal("刪除失敗"))
			})
		})
	})

	When("the service is unreachable", func() {
		BeforeEach(func() {
			server.Close()
		})

		It("should report a fetch error with the transport cause", func() {
			_, err := client.ListInvoices(ctx)
			Expect(err).To(MatchError(ErrFetch))
			Expect(errors.Unwrap(err)).To(HaveOccurred())
		})

		It("should report a delete error naming only the cause", func() {
			_, err := client.DeleteAll(ctx)
			Expect(err).To(MatchError(ErrDelete))
			Expect(err.Error()).NotTo(ContainSubstring("刪除失敗"))
			Expect(err.Error()).To(Equal(errors.Unwrap(err).Error()))
		})
	})
})

var _ = Describe("DetectContentType", func() {
	DescribeTable("maps extensions",
		func(name, want string) {
			Expect(DetectContentType(name, nil)).To(Equal(want))
		},
		Entry("pdf", "a.pdf", "application/pdf"),
		Entry("jpeg", "a.JPEG", "image/jpeg"),
		Entry("png", "a.png", "image/png"),
		Entry("heic", "a.heic", "image/heic"),
		Entry("webp", "a.webp", "image/webp"),
	)

	It("sniffs unknown extensions", func() {
		Expect(DetectContentType("scan", []byte("%PDF-1.4\n"))).To(Equal("application/pdf"))
	})
})
