package tracing

import (
	"fmt"
	"os"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/trajsim/sim"
)

// CSVTraceWriter is a tracer that stores the monitoring records in a CSV
// file, one row per record.
type CSVTraceWriter struct {
	path string
	file *os.File

	rows       []string
	bufferSize int
}

// NewCSVTraceWriter creates a CSVTraceWriter. With an empty path, a unique
// file name is generated.
func NewCSVTraceWriter(path string) *CSVTraceWriter {
	return &CSVTraceWriter{
		path:       path,
		bufferSize: 1000,
	}
}

// Init creates the tracing CSV file. An existing file with the same name is
// an error.
func (t *CSVTraceWriter) Init() {
	if t.path == "" {
		t.path = "trajsim_trace_" + xid.New().String()
	}

	filename := t.path + ".csv"
	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	file, err := os.Create(filename)
	if err != nil {
		panic(err)
	}
	t.file = file

	fmt.Fprintf(file,
		"Kind, Name, Time, Finished, Server, Queue, Capacity, Key, Value\n")

	atexit.Register(func() {
		t.Flush()
		err := t.file.Close()
		if err != nil {
			panic(err)
		}
	})
}

// ArrivalStart buffers one arrival-start row.
func (t *CSVTraceWriter) ArrivalStart(info sim.ArrivalInfo) {
	t.write(fmt.Sprintf("arrival_start, %s, %.10f, , , , , , ",
		info.Name, info.Time))
}

// ArrivalEnd buffers one arrival-end row.
func (t *CSVTraceWriter) ArrivalEnd(info sim.ArrivalInfo) {
	t.write(fmt.Sprintf("arrival_end, %s, %.10f, %t, , , , , ",
		info.Name, info.Time, info.Finished))
}

// ResourceChange buffers one resource snapshot row.
func (t *CSVTraceWriter) ResourceChange(info sim.ResourceInfo) {
	t.write(fmt.Sprintf("resource, %s, %.10f, , %d, %d, %d, , ",
		info.Name, info.Time, info.Server, info.Queue, info.Capacity))
}

// Attribute buffers one attribute-write row.
func (t *CSVTraceWriter) Attribute(info sim.AttributeInfo) {
	t.write(fmt.Sprintf("attribute, %s, %.10f, , , , , %s, %.10f",
		info.Name, info.Time, info.Key, info.Value))
}

func (t *CSVTraceWriter) write(row string) {
	t.rows = append(t.rows, row)
	if len(t.rows) >= t.bufferSize {
		t.Flush()
	}
}

// Flush writes the buffered rows to the CSV file.
func (t *CSVTraceWriter) Flush() {
	for _, row := range t.rows {
		fmt.Fprintln(t.file, row)
	}

	t.rows = nil
}
