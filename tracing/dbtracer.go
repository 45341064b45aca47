package tracing

import (
	"github.com/sarchlab/trajsim/datarecording"
	"github.com/sarchlab/trajsim/sim"
)

// ArrivalStartEntry is the table row for one arrival creation.
type ArrivalStartEntry struct {
	Name string
	Time float64
}

// ArrivalEndEntry is the table row for one arrival termination.
type ArrivalEndEntry struct {
	Name     string
	Time     float64
	Finished bool
}

// ResourceChangeEntry is the table row for one resource snapshot.
type ResourceChangeEntry struct {
	Name     string
	Time     float64
	Server   int
	Queue    int
	Capacity int
}

// AttributeEntry is the table row for one attribute write.
type AttributeEntry struct {
	Name  string
	Time  float64
	Key   string
	Value float64
}

// A DBTracer stores the monitoring records in the tables of a data
// recorder, one table per record kind.
type DBTracer struct {
	recorder datarecording.DataRecorder
}

// NewDBTracer creates a DBTracer and prepares its tables on the recorder.
func NewDBTracer(recorder datarecording.DataRecorder) *DBTracer {
	t := &DBTracer{recorder: recorder}

	recorder.CreateTable("arrival_starts", ArrivalStartEntry{})
	recorder.CreateTable("arrival_ends", ArrivalEndEntry{})
	recorder.CreateTable("resource_changes", ResourceChangeEntry{})
	recorder.CreateTable("attributes", AttributeEntry{})

	return t
}

// ArrivalStart records one arrival creation.
func (t *DBTracer) ArrivalStart(info sim.ArrivalInfo) {
	t.recorder.InsertData("arrival_starts", ArrivalStartEntry{
		Name: info.Name,
		Time: float64(info.Time),
	})
}

// ArrivalEnd records one arrival termination.
func (t *DBTracer) ArrivalEnd(info sim.ArrivalInfo) {
	t.recorder.InsertData("arrival_ends", ArrivalEndEntry{
		Name:     info.Name,
		Time:     float64(info.Time),
		Finished: info.Finished,
	})
}

// ResourceChange records one resource snapshot.
func (t *DBTracer) ResourceChange(info sim.ResourceInfo) {
	t.recorder.InsertData("resource_changes", ResourceChangeEntry{
		Name:     info.Name,
		Time:     float64(info.Time),
		Server:   info.Server,
		Queue:    info.Queue,
		Capacity: info.Capacity,
	})
}

// Attribute records one attribute write.
func (t *DBTracer) Attribute(info sim.AttributeInfo) {
	t.recorder.InsertData("attributes", AttributeEntry{
		Name:  info.Name,
		Time:  float64(info.Time),
		Key:   info.Key,
		Value: info.Value,
	})
}
