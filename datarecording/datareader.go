package datarecording

import (
	"database/sql"
	"fmt"
	"reflect"
)

// DataReader reads recorded tables back into struct values.
type DataReader interface {
	// MapTable establishes a mapping between a database table and a Go
	// struct type. The mapping is required before reading a table.
	MapTable(tableName string, sampleEntry any)

	// ListTables returns the names of all mapped tables.
	ListTables() []string

	// ReadAll returns every row of a mapped table, in insertion order, as
	// values of the mapped struct type.
	ReadAll(tableName string) []any

	// Close closes the reader.
	Close() error
}

// NewReader creates a DataReader on the SQLite file at path, without the
// .sqlite3 suffix.
func NewReader(path string) DataReader {
	db, err := sql.Open("sqlite3", path+".sqlite3")
	if err != nil {
		panic(err)
	}

	return &sqliteReader{
		db:      db,
		typeMap: make(map[string]reflect.Type),
	}
}

// NewReaderWithDB creates a DataReader on an already opened database.
func NewReaderWithDB(db *sql.DB) DataReader {
	return &sqliteReader{
		db:      db,
		typeMap: make(map[string]reflect.Type),
	}
}

type sqliteReader struct {
	db *sql.DB

	typeMap map[string]reflect.Type
}

// MapTable establishes the struct type that rows of a table decode into.
func (r *sqliteReader) MapTable(tableName string, sampleEntry any) {
	t := reflect.TypeOf(sampleEntry)
	if t.Kind() != reflect.Struct {
		panic(fmt.Sprintf("sample entry for table %s must be a struct",
			tableName))
	}

	r.typeMap[tableName] = t
}

// ListTables returns the names of all mapped tables.
func (r *sqliteReader) ListTables() []string {
	names := make([]string, 0, len(r.typeMap))
	for name := range r.typeMap {
		names = append(names, name)
	}

	return names
}

// ReadAll returns every row of a mapped table as mapped struct values.
func (r *sqliteReader) ReadAll(tableName string) []any {
	t, ok := r.typeMap[tableName]
	if !ok {
		panic(fmt.Sprintf("table %s is not mapped", tableName))
	}

	rows, err := r.db.Query("SELECT * FROM " + tableName)
	if err != nil {
		panic(err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		entry := reflect.New(t).Elem()

		fields := make([]any, t.NumField())
		for i := range fields {
			fields[i] = entry.Field(i).Addr().Interface()
		}

		err := rows.Scan(fields...)
		if err != nil {
			panic(err)
		}

		results = append(results, entry.Interface())
	}

	err = rows.Err()
	if err != nil {
		panic(err)
	}

	return results
}

// Close closes the reader.
func (r *sqliteReader) Close() error {
	return r.db.Close()
}
