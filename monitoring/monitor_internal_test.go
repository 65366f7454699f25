package monitoring

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/drrip"
)

var _ = Describe("Monitor", func() {
	var (
		monitor *Monitor
		engine  drrip.Engine
		server  *httptest.Server
	)

	BeforeEach(func() {
		engine = drrip.MakeBuilder().
			WithNumSets(8).
			WithNumWays(4).
			Build("L2Policy")

		monitor = NewMonitor()
		monitor.RegisterEngine(engine)

		server = httptest.NewServer(monitor.router())
	})

	AfterEach(func() {
		server.Close()
	})

	get := func(path string) (*http.Response, []byte) {
		rsp, err := http.Get(server.URL + path)
		Expect(err).NotTo(HaveOccurred())

		body, err := io.ReadAll(rsp.Body)
		Expect(err).NotTo(HaveOccurred())
		rsp.Body.Close()

		return rsp, body
	}

	It("should list registered engines", func() {
		_, body := get("/api/engines")

		Expect(string(body)).To(Equal(`["L2Policy"]`))
	})

	It("should report the PSEL value", func() {
		engine.Access(0, 0, false)

		_, body := get("/api/engine/L2Policy/psel")

		Expect(string(body)).To(Equal(`{"psel":510}`))
	})

	It("should report the epsilon counter", func() {
		_, body := get("/api/engine/L2Policy/epsilon")

		Expect(string(body)).To(Equal(`{"epsilon":0}`))
	})

	It("should report one set's RRPVs as numbers", func() {
		engine.Access(0, 0, false)

		_, body := get("/api/engine/L2Policy/rrpv/0")

		var values []int
		Expect(json.Unmarshal(body, &values)).To(Succeed())
		Expect(values).To(Equal([]int{2, 3, 3, 3}))
	})

	It("should report the full RRPV table", func() {
		_, body := get("/api/engine/L2Policy/rrpv")

		var table [][]int
		Expect(json.Unmarshal(body, &table)).To(Succeed())
		Expect(table).To(HaveLen(8))
		Expect(table[0]).To(Equal([]int{3, 3, 3, 3}))
	})

	It("should reject an out-of-range set index", func() {
		rsp, _ := get("/api/engine/L2Policy/rrpv/100")

		Expect(rsp.StatusCode).To(Equal(http.StatusBadRequest))
	})

	It("should return 404 for an unknown engine", func() {
		rsp, _ := get("/api/engine/Nope/psel")

		Expect(rsp.StatusCode).To(Equal(http.StatusNotFound))
	})
})
