// Package monitoring turns a set of replacement engines into a web server
// so that their state can be inspected while a replay is running. The
// monitor is read-only; it never mutates engine state.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/drrip"
	"github.com/sarchlab/drrip/monitoring/web"
)

// Monitor exposes the observable state of registered engines over HTTP.
type Monitor struct {
	engines    []drrip.Engine
	portNumber int
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterEngine registers an engine to be monitored.
func (m *Monitor) RegisterEngine(e drrip.Engine) {
	m.engines = append(m.engines, e)
}

// StartServer starts the monitor as a web server and returns its URL.
func (m *Monitor) StartServer() string {
	r := m.router()

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring replay with %s\n", url)

	go func() {
		err = http.Serve(listener, r)
		dieOnErr(err)
	}()

	return url
}

func (m *Monitor) router() *mux.Router {
	r := mux.NewRouter()

	fServer := http.FileServer(web.GetAssets())
	r.HandleFunc("/api/engines", m.listEngines)
	r.HandleFunc("/api/engine/{name}", m.listEngineDetails)
	r.HandleFunc("/api/engine/{name}/psel", m.reportPSEL)
	r.HandleFunc("/api/engine/{name}/epsilon", m.reportEpsilon)
	r.HandleFunc("/api/engine/{name}/rrpv", m.reportRRPVs)
	r.HandleFunc("/api/engine/{name}/rrpv/{set}", m.reportRRPVSet)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/").Handler(fServer)

	return r
}

func (m *Monitor) listEngines(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, "[")
	for i, e := range m.engines {
		if i > 0 {
			fmt.Fprint(w, ",")
		}

		fmt.Fprintf(w, "%q", e.Name())
	}
	fmt.Fprint(w, "]")
}

func (m *Monitor) listEngineDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	engine := m.findEngineOr404(w, name)
	if engine == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(engine)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

func (m *Monitor) reportPSEL(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	engine := m.findEngineOr404(w, name)
	if engine == nil {
		return
	}

	fmt.Fprintf(w, "{\"psel\":%d}", engine.PSEL())
}

func (m *Monitor) reportEpsilon(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	engine := m.findEngineOr404(w, name)
	if engine == nil {
		return
	}

	fmt.Fprintf(w, "{\"epsilon\":%d}", engine.EpsilonCounter())
}

func (m *Monitor) reportRRPVs(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	engine := m.findEngineOr404(w, name)
	if engine == nil {
		return
	}

	bytes, err := json.Marshal(snapshotAsInts(engine.RRPVs()))
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) reportRRPVSet(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	engine := m.findEngineOr404(w, name)
	if engine == nil {
		return
	}

	set, err := strconv.Atoi(mux.Vars(r)["set"])
	if err != nil || set < 0 || set >= engine.NumSets() {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Invalid set index %s", mux.Vars(r)["set"])

		return
	}

	bytes, err := json.Marshal(snapshotAsInts(engine.RRPVs())[set])
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

// snapshotAsInts widens the snapshot so that JSON renders arrays of numbers
// rather than base64 byte strings.
func snapshotAsInts(snapshot [][]uint8) [][]int {
	out := make([][]int, len(snapshot))
	for i, set := range snapshot {
		out[i] = make([]int, len(set))
		for j, value := range set {
			out[i][j] = int(value)
		}
	}

	return out
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	proc, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memoryInfo, err := proc.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memoryInfo.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	bytes, err := json.Marshal(prof)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) findEngineOr404(
	w http.ResponseWriter,
	name string,
) drrip.Engine {
	var engine drrip.Engine

	for _, e := range m.engines {
		if e.Name() == name {
			engine = e
		}
	}

	if engine == nil {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Engine not found"))
		dieOnErr(err)
	}

	return engine
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
