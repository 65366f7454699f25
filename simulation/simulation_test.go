package simulation_test

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/drrip"
	"github.com/sarchlab/drrip/datarecording"
	"github.com/sarchlab/drrip/simulation"
	"github.com/sarchlab/drrip/trace"
)

var _ = Describe("Simulation", func() {
	var (
		db     *sql.DB
		sim    *simulation.Simulation
		engine drrip.Engine
	)

	BeforeEach(func() {
		var err error
		db, err = sql.Open("sqlite3", ":memory:")
		Expect(err).NotTo(HaveOccurred())

		sim = simulation.NewSimulationWithRecorder(
			datarecording.NewRecorderWithDB(db))

		engine = drrip.MakeBuilder().
			WithNumSets(16).
			WithNumWays(4).
			Build("L1Policy")
		sim.RegisterEngine(engine)
	})

	AfterEach(func() {
		db.Close()
	})

	It("should reject duplicate engine names", func() {
		dup := drrip.MakeBuilder().Build("L1Policy")

		Expect(func() { sim.RegisterEngine(dup) }).To(Panic())
	})

	It("should find engines by name", func() {
		Expect(sim.GetEngine("L1Policy")).To(BeIdenticalTo(engine))
		Expect(sim.GetEngine("Nope")).To(BeNil())
	})

	It("should replay a trace and summarize it", func() {
		accesses := []trace.Access{
			{Set: 0, Way: 0, Hit: false},
			{Set: 0, Way: 0, Hit: true},
			{Set: 5, Way: 0, Hit: false},
		}

		summary := sim.Replay("L1Policy", accesses)

		Expect(summary.Accesses).To(Equal(3))
		Expect(summary.Hits).To(Equal(1))
		Expect(summary.Misses).To(Equal(2))
		Expect(summary.FinalPSEL).To(Equal(uint32(510)))
	})

	It("should log every access to the database", func() {
		accesses := []trace.Access{
			{Set: 0, Way: 0, Hit: false},
			{Set: 4, Way: 1, Hit: true},
		}

		sim.Replay("L1Policy", accesses)

		reader := datarecording.NewReaderWithDB(db)
		reader.MapTable(
			simulation.AccessLogTable, simulation.AccessRecord{})

		results, total, err := reader.Query(
			context.Background(),
			simulation.AccessLogTable,
			datarecording.QueryParams{OrderBy: "Seq"},
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(2))

		first := results[0].(*simulation.AccessRecord)
		Expect(first.Engine).To(Equal("L1Policy"))
		Expect(first.Hit).To(BeFalse())
		Expect(first.VictimWay).To(Equal(0))
		Expect(first.Policy).To(Equal("srrip"))
		Expect(first.PSEL).To(Equal(uint32(510)))

		second := results[1].(*simulation.AccessRecord)
		Expect(second.Hit).To(BeTrue())
		Expect(second.VictimWay).To(Equal(-1))
	})

	It("should panic when replaying through an unknown engine", func() {
		Expect(func() {
			sim.Replay("Nope", nil)
		}).To(Panic())
	})
})
