package document_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"

	"github.com/zombor/cashmate/internal/document"
	"github.com/zombor/cashmate/internal/extraction"
	"github.com/zombor/cashmate/internal/scanning"
)

// fakeScanner stands in for the OCR model
type fakeScanner struct {
	text  string
	calls int
}

func (f *fakeScanner) ScanText(ctx context.Context, imageData []byte, contentType string) (string, error) {
	f.calls++
	return f.text, nil
}

func (f *fakeScanner) Close() error {
	return nil
}

func upload(url, filename string, data []byte) *http.Response {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	Expect(err).NotTo(HaveOccurred())
	_, err = part.Write(data)
	Expect(err).NotTo(HaveOccurred())
	Expect(writer.Close()).To(Succeed())

	resp, err := http.Post(url, writer.FormDataContentType(), body)
	Expect(err).NotTo(HaveOccurred())
	return resp
}

var _ = Describe("Integration", func() {
	var (
		db       *document.BoltDB
		store    *document.LocalStorage
		scanner  *fakeScanner
		ghServer *ghttp.Server
	)

	BeforeEach(func() {
		tempDir := GinkgoT().TempDir()

		var err error
		db, err = document.NewBoltDB(filepath.Join(tempDir, "test.db"))
		Expect(err).NotTo(HaveOccurred())

		store, err = document.NewLocalStorage(filepath.Join(tempDir, "uploads"))
		Expect(err).NotTo(HaveOccurred())

		scanner = &fakeScanner{text: "Corner Cafe\n12 Market Road\n05/01/2024\nCappuccino 3.50\nGrand Total 12.50"}
		service := document.NewService(db, scanning.NewDocumentReader(scanner), store, 2)
		server := document.NewServer(service, document.ServerConfig{Version: "test"})

		ghServer = ghttp.NewServer()
		ghServer.AppendHandlers(server.ServeHTTP, server.ServeHTTP, server.ServeHTTP)
	})

	AfterEach(func() {
		ghServer.Close()
		db.Close()
	})

	It("should extract a receipt image and keep it retrievable", func() {
		resp := upload(ghServer.URL()+"/ocr/receipt", "cafe.png", []byte("\x89PNG fake image"))
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var body struct {
			ID   string                       `json:"id"`
			Data extraction.ReceiptExtraction `json:"data"`
		}
		raw, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		Expect(err).NotTo(HaveOccurred())
		Expect(json.Unmarshal(raw, &body)).To(Succeed())

		Expect(scanner.calls).To(Equal(1))
		Expect(body.Data.Vendor).To(Equal("Corner Cafe"))
		Expect(*body.Data.Date).To(Equal("2024-01-05"))
		Expect(body.Data.Amount.Decimal.Equal(decimal.RequireFromString("12.50"))).To(BeTrue())
		_, err = ulid.ParseStrict(body.ID)
		Expect(err).NotTo(HaveOccurred())

		record, err := db.GetRecord(body.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(record.ContentType).To(Equal("image/png"))

		data, err := store.Get(record.StoredPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal([]byte("\x89PNG fake image")))

		fileResp, err := http.Get(ghServer.URL() + "/api/documents/" + body.ID + "/file")
		Expect(err).NotTo(HaveOccurred())
		fileResp.Body.Close()
		Expect(fileResp.StatusCode).To(Equal(http.StatusOK))
	})

	It("should reconstruct a CSV statement end to end", func() {
		csv := "Account Number: 123456789012\n" +
			"Txn Date,Particulars,Withdrawal Amt,Deposit Amt,Closing Balance\n" +
			"01/06/2023,Salary Credit,,\"50,000.00\",\"1,50,000.00\"\n" +
			"02/06/2023,ATM Withdrawal,2000.00,,\"1,48,000.00\"\n"

		resp := upload(ghServer.URL()+"/parse-statement", "june.csv", []byte(csv))
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var statement extraction.ParsedStatement
		raw, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		Expect(err).NotTo(HaveOccurred())
		Expect(json.Unmarshal(raw, &statement)).To(Succeed())

		Expect(scanner.calls).To(BeZero())
		Expect(statement.TransactionCount).To(Equal(2))
		Expect(statement.TotalCredits.Equal(decimal.RequireFromString("50000"))).To(BeTrue())
		Expect(statement.TotalDebits.Equal(decimal.RequireFromString("2000"))).To(BeTrue())
		Expect(statement.Transactions[1].Balance.Decimal.Equal(decimal.RequireFromString("148000"))).To(BeTrue())

		records, err := db.ListRecords(document.KindStatement)
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(1))
		Expect(records[0].Diagnostics).NotTo(BeNil())
	})
})
