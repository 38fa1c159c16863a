package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"

	"docuextract/internal/export"
	"docuextract/internal/server"
)

func TestIntegration(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Integration Suite")
}

// MockExtractor stands in for the hosted model
type MockExtractor struct {
	text       string
	extractErr error
}

func (m *MockExtractor) Extract(ctx context.Context, imageData []byte, contentType string) (string, error) {
	if m.extractErr != nil {
		return "", m.extractErr
	}
	return m.text, nil
}

func (m *MockExtractor) Close() error {
	return nil
}

const modelResponse = "```json\n" + `{
  "cashMemo": {
    "number": "CM-55",
    "date": "2025-02-11",
    "shop": {"name": "মা এন্টারপ্রাইজ", "tagline": "Hardware & Sanitary"},
    "customer": {"name": "Rahim Uddin"},
    "products": [
      {"slNo": 1, "description": "GI Pipe", "size": "20ft", "quantity": 4, "rate": 950, "amount": 3800},
      {"slNo": 2, "description": "Ball valve", "quantity": 2, "rate": "160.25", "amount": "320.5"}
    ],
    "totals": {"total": "4120.5", "advance": 2000, "balance": 2120.5},
    "inWords": "Four Thousand One Hundred Twenty and Fifty Paisa Only",
    "footer": {"note": "Goods once sold are not returned"},
    "language": "bn"
  }
}` + "\n```"

var _ = Describe("Integration", func() {
	var (
		extractor *MockExtractor
		svc       *server.Service
		srv       *server.Server
		ghServer  *ghttp.Server
	)

	BeforeEach(func() {
		extractor = &MockExtractor{text: modelResponse}
		svc = server.NewService(extractor, export.NewExporter(""))
		srv = server.NewServerWithMux(svc, server.BasicAuth{}, http.NewServeMux())
		ghServer = ghttp.NewServer()
	})

	AfterEach(func() {
		if ghServer != nil {
			ghServer.Close()
		}
	})

	// Register one handler per request the spec is going to make
	expectRequests := func(n int) {
		for i := 0; i < n; i++ {
			ghServer.AppendHandlers(srv.ServeHTTP)
		}
	}

	extract := func() string {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, err := writer.CreateFormFile("image", "memo.jpg")
		Expect(err).NotTo(HaveOccurred())
		_, err = part.Write([]byte("fake image bytes"))
		Expect(err).NotTo(HaveOccurred())
		Expect(writer.Close()).To(Succeed())

		resp, err := http.Post(ghServer.URL()+"/api/extract", writer.FormDataContentType(), body)
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var result map[string]string
		Expect(json.NewDecoder(resp.Body).Decode(&result)).To(Succeed())
		return result["text"]
	}

	exportFile := func(text, format string) (*http.Response, []byte) {
		payload, err := json.Marshal(map[string]string{"text": text, "format": format})
		Expect(err).NotTo(HaveOccurred())
		resp, err := http.Post(ghServer.URL()+"/api/export", "application/json", bytes.NewReader(payload))
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		data, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		return resp, data
	}

	It("should extract a memo and export it in every format", func() {
		formats := map[string]string{
			"xlsx":   "xlsx",
			"csv":    "csv",
			"json":   "json",
			"pdf":    "pdf",
			"docx":   "docx",
			"xml":    "xml",
			"gsheet": "csv",
		}
		expectRequests(1 + len(formats))

		text := extract()
		Expect(text).To(Equal(modelResponse))

		for format, ext := range formats {
			resp, data := exportFile(text, format)
			Expect(resp.StatusCode).To(Equal(http.StatusOK), "format %s", format)
			Expect(resp.Header.Get("Content-Disposition")).To(
				Equal(`attachment; filename="cash_memo_CM-55.`+ext+`"`), "format %s", format)
			Expect(data).NotTo(BeEmpty(), "format %s", format)
		}
	})

	It("should carry string-typed amounts through to the export", func() {
		expectRequests(1)

		resp, data := exportFile(modelResponse, "csv")
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(string(data)).To(ContainSubstring("Total:,4120.5"))
	})

	It("should refuse to export a response the model could not structure", func() {
		extractor.text = "I could not read this document."
		expectRequests(2)

		text := extract()

		resp, data := exportFile(text, "xlsx")
		Expect(resp.StatusCode).To(Equal(http.StatusUnprocessableEntity))

		var result map[string]string
		Expect(json.Unmarshal(data, &result)).To(Succeed())
		Expect(result["error"]).NotTo(BeEmpty())
	})
})
