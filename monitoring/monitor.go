// Package monitoring turns a simulation into a server that can be paused,
// stepped, and inspected from outside while it runs.
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
	"sync"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/trajsim/sim"
)

// Monitor can turn a simulation into a server and allows external
// monitoring and controlling of the simulation.
type Monitor struct {
	simulator   *sim.Simulator
	portNumber  int
	openBrowser bool

	pauseLock sync.Mutex
	pauseCond *sync.Cond
	isPaused  bool

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	m := &Monitor{}
	m.pauseCond = sync.NewCond(&m.pauseLock)
	return m
}

// WithPortNumber sets the port number of the monitor server. Without it, a
// free port is picked.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	m.portNumber = portNumber
	return m
}

// WithBrowser opens the monitor URL in the default browser when the server
// starts.
func (m *Monitor) WithBrowser() *Monitor {
	m.openBrowser = true
	return m
}

// RegisterSimulator registers the simulator to be monitored. The monitor
// hooks into the event loop so that a pause request blocks the loop between
// two events.
func (m *Monitor) RegisterSimulator(s *sim.Simulator) {
	m.simulator = s
	s.AcceptHook(&pauseHook{monitor: m})
}

// Pause blocks the event loop after the current event.
func (m *Monitor) Pause() {
	m.pauseLock.Lock()
	defer m.pauseLock.Unlock()

	m.isPaused = true
}

// Continue lets a paused event loop proceed.
func (m *Monitor) Continue() {
	m.pauseLock.Lock()
	defer m.pauseLock.Unlock()

	m.isPaused = false
	m.pauseCond.Broadcast()
}

// A pauseHook blocks the event loop while the monitor is paused.
type pauseHook struct {
	monitor *Monitor
}

func (h *pauseHook) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosBeforeEvent {
		return
	}

	m := h.monitor
	m.pauseLock.Lock()
	for m.isPaused {
		m.pauseCond.Wait()
	}
	m.pauseLock.Unlock()
}

// CreateProgressBar creates a progress bar that the monitor API reports.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        fmt.Sprintf("progressbar_%d", len(m.progressBars)),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a progress bar from the monitor API.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// StartServer starts the monitor server and reports its address on stderr.
func (m *Monitor) StartServer() {
	r := m.router()
	http.Handle("/", r)

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	if m.openBrowser {
		err := browser.OpenURL(url)
		if err != nil {
			log.Printf("cannot open browser: %s", err)
		}
	}

	go func() {
		err = http.Serve(listener, nil)
		dieOnErr(err)
	}()
}

func (m *Monitor) router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.pauseSimulation)
	r.HandleFunc("/api/continue", m.continueSimulation)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/peek", m.peek)
	r.HandleFunc("/api/run", m.run)
	r.HandleFunc("/api/list_resources", m.listResources)
	r.HandleFunc("/api/resource/{name}", m.listResourceDetails)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/host", m.hostStats)
	r.HandleFunc("/api/profile", m.collectProfile)

	return r
}

func (m *Monitor) pauseSimulation(w http.ResponseWriter, _ *http.Request) {
	m.Pause()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) continueSimulation(w http.ResponseWriter, _ *http.Request) {
	m.Continue()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, "{\"now\":%.10f}", float64(m.simulator.Now()))
}

func (m *Monitor) peek(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, "{\"peek\":%.10f}", float64(m.simulator.Peek()))
}

func (m *Monitor) run(_ http.ResponseWriter, r *http.Request) {
	until, err := strconv.ParseFloat(r.URL.Query().Get("until"), 64)
	dieOnErr(err)

	go func() {
		m.simulator.Run(sim.VTimeInSec(until))
	}()
}

type resourceRsp struct {
	Name      string `json:"name"`
	Capacity  int    `json:"capacity"`
	QueueSize int    `json:"queue_size"`
	Server    int    `json:"server"`
	Queue     int    `json:"queue"`
	Preempted int    `json:"preempted"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	rsp := make([]resourceRsp, 0)
	for name, res := range m.simulator.Resources() {
		rsp = append(rsp, resourceRsp{
			Name:      name,
			Capacity:  res.Capacity(),
			QueueSize: res.QueueSize(),
			Server:    res.ServerCount(),
			Queue:     res.QueueLength(),
			Preempted: res.PreemptedLength(),
		})
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) listResourceDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	res, found := m.simulator.Resources()[name]
	if !found {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(res)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	bytes, err := json.Marshal(m.progressBars)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

type hostRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) hostStats(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	proc, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memoryInfo, err := proc.MemoryInfo()
	dieOnErr(err)

	rsp := hostRsp{
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

	rsp, err := json.Marshal(prof)
	dieOnErr(err)

	_, err = w.Write(rsp)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
