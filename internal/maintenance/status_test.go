package maintenance

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("ParseStatus", func() {
	ginkgo.It("accepts the canonical statuses", func() {
		for _, value := range []string{"pending", "in_progress", "completed", "cancelled"} {
			status, err := ParseStatus(value)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(string(status)).To(gomega.Equal(value))
		}
	})

	ginkgo.It("normalizes the legacy spaced form", func() {
		status, err := ParseStatus("in progress")
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(status).To(gomega.Equal(StatusInProgress))
	})

	ginkgo.It("rejects unknown values", func() {
		_, err := ParseStatus("paused")
		gomega.Expect(err).To(gomega.HaveOccurred())
	})
})
