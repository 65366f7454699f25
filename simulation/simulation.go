// Package simulation wires a replacement engine, a data recorder, and a
// monitor into one replay run.
package simulation

import (
	"github.com/rs/xid"

	"github.com/sarchlab/drrip"
	"github.com/sarchlab/drrip/datarecording"
	"github.com/sarchlab/drrip/monitoring"
	"github.com/sarchlab/drrip/trace"
)

// AccessLogTable is the database table that stores one row per access.
const AccessLogTable = "access_log"

// An AccessRecord is one row of the access log.
type AccessRecord struct {
	Seq         int
	Engine      string
	SetID       int
	WayID       int
	Hit         bool
	VictimWay   int
	Policy      string
	AgingPasses int
	PSEL        uint32
}

// A ReplaySummary aggregates one replay run.
type ReplaySummary struct {
	Accesses    int
	Hits        int
	Misses      int
	AgingPasses int
	FinalPSEL   uint32
}

// A Simulation provides the services required to replay traces through
// replacement engines.
type Simulation struct {
	engines         []drrip.Engine
	engineNameIndex map[string]int

	dataRecorder datarecording.DataRecorder
	monitor      *monitoring.Monitor

	seq int
}

// NewSimulation creates a new simulation backed by a uniquely-named SQLite
// database.
func NewSimulation() *Simulation {
	name := xid.New().String()

	return NewSimulationWithRecorder(
		datarecording.NewRecorder("drrip_sim_" + name))
}

// NewSimulationWithRecorder creates a new simulation on a given recorder.
func NewSimulationWithRecorder(
	recorder datarecording.DataRecorder,
) *Simulation {
	s := &Simulation{
		engineNameIndex: make(map[string]int),
		dataRecorder:    recorder,
		monitor:         monitoring.NewMonitor(),
	}

	s.dataRecorder.CreateTable(AccessLogTable, AccessRecord{})

	return s
}

// RegisterEngine registers an engine with the simulation.
func (s *Simulation) RegisterEngine(e drrip.Engine) {
	name := e.Name()
	if _, ok := s.engineNameIndex[name]; ok {
		panic("engine " + name + " already registered")
	}

	s.engines = append(s.engines, e)
	s.engineNameIndex[name] = len(s.engines) - 1

	s.monitor.RegisterEngine(e)
}

// GetEngine returns the registered engine with the given name, or nil.
func (s *Simulation) GetEngine(name string) drrip.Engine {
	index, ok := s.engineNameIndex[name]
	if !ok {
		return nil
	}

	return s.engines[index]
}

// GetDataRecorder returns the data recorder used in the simulation.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor used in the simulation.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// Replay feeds the accesses through the named engine one at a time,
// logging every outcome to the data recorder.
func (s *Simulation) Replay(
	engineName string,
	accesses []trace.Access,
) ReplaySummary {
	engine := s.GetEngine(engineName)
	if engine == nil {
		panic("engine " + engineName + " is not registered")
	}

	summary := ReplaySummary{}

	for _, access := range accesses {
		result := engine.Access(access.Set, access.Way, access.Hit)

		summary.Accesses++
		if result.Hit {
			summary.Hits++
		} else {
			summary.Misses++
		}
		summary.AgingPasses += result.AgingPasses

		s.dataRecorder.InsertData(AccessLogTable, AccessRecord{
			Seq:         s.seq,
			Engine:      engineName,
			SetID:       access.Set,
			WayID:       access.Way,
			Hit:         result.Hit,
			VictimWay:   result.VictimWay,
			Policy:      result.Policy.String(),
			AgingPasses: result.AgingPasses,
			PSEL:        engine.PSEL(),
		})
		s.seq++
	}

	summary.FinalPSEL = engine.PSEL()

	s.dataRecorder.Flush()

	return summary
}
