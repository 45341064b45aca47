// Package simulation assembles a simulator with its data recorder and
// monitor into one artifact, so that hosts wire everything the same way.
package simulation

import (
	"github.com/rs/xid"

	"github.com/sarchlab/trajsim/datarecording"
	"github.com/sarchlab/trajsim/monitoring"
	"github.com/sarchlab/trajsim/sim"
	"github.com/sarchlab/trajsim/tracing"
)

// A Simulation provides the services required to define a simulation.
type Simulation struct {
	id string

	simulator    *sim.Simulator
	dataRecorder datarecording.DataRecorder
	monitor      *monitoring.Monitor
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// Simulator returns the simulator of the simulation.
func (s *Simulation) Simulator() *sim.Simulator {
	return s.simulator
}

// DataRecorder returns the data recorder of the simulation, or nil when
// recording is disabled.
func (s *Simulation) DataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// Monitor returns the monitor of the simulation, or nil when monitoring is
// disabled.
func (s *Simulation) Monitor() *monitoring.Monitor {
	return s.monitor
}

// Terminate ends the simulation, flushing and closing the recorder.
func (s *Simulation) Terminate() {
	if s.dataRecorder != nil {
		s.dataRecorder.Close()
	}
}

// Builder can be used to build a simulation.
type Builder struct {
	name           string
	verbose        bool
	monitorOn      bool
	monitorPort    int
	recordingOn    bool
	outputFileName string
}

// MakeBuilder creates a new builder with monitoring and recording on.
func MakeBuilder() Builder {
	return Builder{
		name:        "simulation",
		monitorOn:   true,
		recordingOn: true,
	}
}

// WithName sets the name of the simulator.
func (b Builder) WithName(name string) Builder {
	b.name = name
	return b
}

// WithVerbose makes the simulator log every dispatched event.
func (b Builder) WithVerbose() Builder {
	b.verbose = true
	return b
}

// WithoutMonitoring sets the simulation to not use monitoring.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithoutRecording sets the simulation to not record traces.
func (b Builder) WithoutRecording() Builder {
	b.recordingOn = false
	return b
}

// WithOutputFileName sets the custom output file name for the data
// recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}

	if !b.recordingOn && b.outputFileName != "" {
		panic("output file name cannot be set when recording is disabled")
	}
}

// Build builds the simulation.
func (b Builder) Build() *Simulation {
	b.parametersMustBeValid()

	s := &Simulation{
		id: xid.New().String(),
	}

	s.simulator = sim.NewSimulator(b.name, b.verbose)

	if b.recordingOn {
		outputPath := b.outputFileName
		if outputPath == "" {
			outputPath = "trajsim_" + s.id
		}
		s.dataRecorder = datarecording.New(outputPath)
		tracing.CollectTrace(s.simulator, tracing.NewDBTracer(s.dataRecorder))
	}

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor().WithPortNumber(b.monitorPort)
		s.monitor.RegisterSimulator(s.simulator)
		s.monitor.StartServer()
	}

	return s
}
