package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"

	"docuextract/internal/export"
	"docuextract/internal/extraction"
)

var _ = Describe("Server", func() {
	var (
		extractor   *mockExtractor
		service     *Service
		srv         *Server
		auth        BasicAuth
		ghttpServer *ghttp.Server
	)

	setupServer := func() {
		if ghttpServer != nil {
			ghttpServer.Close()
		}
		srv = NewServerWithMux(service, auth, http.NewServeMux())
		ghttpServer = ghttp.NewServer()
		ghttpServer.AppendHandlers(srv.ServeHTTP)
	}

	multipartImage := func(field, filename string, content []byte) (*bytes.Buffer, string) {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, err := writer.CreateFormFile(field, filename)
		Expect(err).NotTo(HaveOccurred())
		_, err = part.Write(content)
		Expect(err).NotTo(HaveOccurred())
		Expect(writer.Close()).To(Succeed())
		return body, writer.FormDataContentType()
	}

	BeforeEach(func() {
		extractor = &mockExtractor{text: fencedMemoJSON}
		service = NewService(extractor, export.NewExporter(""))
		auth = BasicAuth{}
		setupServer()
	})

	AfterEach(func() {
		if ghttpServer != nil {
			ghttpServer.Close()
		}
	})

	Describe("handleIndex", func() {
		It("should serve the HTML interface", func() {
			resp, err := http.Get(ghttpServer.URL() + "/")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring("DocuExtract"))
		})
	})

	Describe("handleExtract", func() {
		When("an image is uploaded", func() {
			It("should return the raw model text", func() {
				body, contentType := multipartImage("image", "memo.jpg", []byte("fake image"))
				resp, err := http.Post(ghttpServer.URL()+"/api/extract", contentType, body)
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusOK))

				var result map[string]string
				Expect(json.NewDecoder(resp.Body).Decode(&result)).To(Succeed())
				Expect(result["text"]).To(Equal(fencedMemoJSON))
			})

			It("should infer the content type from the filename", func() {
				body, contentType := multipartImage("image", "memo.png", []byte("fake image"))
				resp, err := http.Post(ghttpServer.URL()+"/api/extract", contentType, body)
				Expect(err).NotTo(HaveOccurred())
				resp.Body.Close()
				Expect(extractor.lastContentType).To(Equal("image/png"))
			})
		})

		When("no image field is present", func() {
			It("should return 400 with a JSON error", func() {
				body, contentType := multipartImage("attachment", "memo.jpg", []byte("fake image"))
				resp, err := http.Post(ghttpServer.URL()+"/api/extract", contentType, body)
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))

				var result map[string]string
				Expect(json.NewDecoder(resp.Body).Decode(&result)).To(Succeed())
				Expect(result["error"]).NotTo(BeEmpty())
				Expect(extractor.calls).To(BeZero())
			})
		})

		When("the upload to the model service fails", func() {
			BeforeEach(func() {
				extractor.err = &extraction.UploadError{Err: errors.New("no file URI returned")}
				setupServer()
			})

			It("should return 400 with the upload error message", func() {
				body, contentType := multipartImage("image", "memo.jpg", []byte("fake image"))
				resp, err := http.Post(ghttpServer.URL()+"/api/extract", contentType, body)
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))

				var result map[string]string
				Expect(json.NewDecoder(resp.Body).Decode(&result)).To(Succeed())
				Expect(result["error"]).To(ContainSubstring("file upload failed"))
			})
		})

		When("generation fails", func() {
			BeforeEach(func() {
				extractor.err = &extraction.GenerationError{Err: errors.New("service unavailable")}
				setupServer()
			})

			It("should return 502", func() {
				body, contentType := multipartImage("image", "memo.jpg", []byte("fake image"))
				resp, err := http.Post(ghttpServer.URL()+"/api/extract", contentType, body)
				Expect(err).NotTo(HaveOccurred())
				resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusBadGateway))
			})
		})
	})

	Describe("handleExport", func() {
		exportRequest := func(text, format string) *http.Response {
			payload, err := json.Marshal(map[string]string{"text": text, "format": format})
			Expect(err).NotTo(HaveOccurred())
			resp, err := http.Post(ghttpServer.URL()+"/api/export", "application/json", bytes.NewReader(payload))
			Expect(err).NotTo(HaveOccurred())
			return resp
		}

		It("should reply with a named attachment", func() {
			resp := exportRequest(fencedMemoJSON, "csv")
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("Content-Disposition")).To(Equal(`attachment; filename="cash_memo_77.csv"`))
			Expect(resp.Header.Get("Content-Type")).To(ContainSubstring("text/csv"))

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring("Cash Memo No:,77"))
		})

		It("should carry the Google Sheets notice as a header", func() {
			resp := exportRequest(fencedMemoJSON, "gsheet")
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("X-Export-Notice")).To(ContainSubstring("Google Sheets"))
		})

		When("the text holds no record", func() {
			It("should return 422 with a JSON error", func() {
				resp := exportRequest("not json", "csv")
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusUnprocessableEntity))

				var result map[string]string
				Expect(json.NewDecoder(resp.Body).Decode(&result)).To(Succeed())
				Expect(result["error"]).To(ContainSubstring("Invalid JSON"))
			})
		})

		When("the body is not JSON", func() {
			It("should return 400", func() {
				resp, err := http.Post(ghttpServer.URL()+"/api/export", "application/json", strings.NewReader("nope"))
				Expect(err).NotTo(HaveOccurred())
				resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			})
		})
	})

	Describe("basic auth", func() {
		BeforeEach(func() {
			auth = BasicAuth{Username: "user", Password: "pass"}
			setupServer()
		})

		It("should reject requests without credentials", func() {
			resp, err := http.Get(ghttpServer.URL() + "/")
			Expect(err).NotTo(HaveOccurred())
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
		})

		It("should accept valid credentials", func() {
			req, err := http.NewRequest(http.MethodGet, ghttpServer.URL()+"/", nil)
			Expect(err).NotTo(HaveOccurred())
			req.SetBasicAuth("user", "pass")
			resp, err := http.DefaultClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
		})
	})
})
