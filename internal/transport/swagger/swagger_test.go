package swagger_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/academic-requests/internal/transport/swagger"
)

var _ = Describe("OpenAPI document", func() {
	It("loads and validates the shipped document", func() {
		doc, err := swagger.Load(context.Background(), filepath.Join("..", "..", "..", "api", "openapi.yml"))
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Paths.Find("/requests/{id}/status")).NotTo(BeNil())
		Expect(doc.Paths.Find("/notifications/{user_id}")).NotTo(BeNil())
	})

	It("rejects a malformed document", func() {
		path := filepath.Join(GinkgoT().TempDir(), "broken.yml")
		Expect(os.WriteFile(path, []byte("openapi: 3.0.3\ninfo: {}\npaths: {}\n"), 0o600)).To(Succeed())

		_, err := swagger.Load(context.Background(), path)
		Expect(err).To(HaveOccurred())
	})
})
