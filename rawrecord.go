package statbench

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// The raw sample record is a stable contract consumed by external
// tooling: one row per measurement window per benchmark. The measured
// value is the sum for the whole window, not per-iteration; consumers
// divide by the iteration count. Numeric fields round-trip exactly:
// floats are written with strconv's shortest representation, which
// parses back to the identical bits.

// RawRecord is one row of the raw sample interchange format.
type RawRecord struct {
	Group          string
	Function       string
	ValueParameter string
	ThroughputNum  string // decimal count, empty when no throughput configured
	ThroughputType string // "bytes" or "elements", empty when no throughput configured
	SampleValue    float64
	Unit           string
	IterationCount uint64
}

// rawRecords flattens a report into interchange rows.
func rawRecords(rep *Report) []RawRecord {
	var num, typ string
	if rep.Throughput != nil {
		num = strconv.FormatUint(rep.Throughput.Amount, 10)
		typ = string(rep.Throughput.Kind)
	}
	rows := make([]RawRecord, rep.Sample.Len())
	for i := range rows {
		rows[i] = RawRecord{
			Group:          rep.ID.Group,
			Function:       rep.ID.Function,
			ValueParameter: rep.ID.Parameter,
			ThroughputNum:  num,
			ThroughputType: typ,
			SampleValue:    rep.Sample.Values[i],
			Unit:           rep.Unit.Label,
			IterationCount: rep.Sample.Iterations[i],
		}
	}
	return rows
}

// WriteRawRecords writes the report's sample as CSV rows, one per
// measurement window, preceded by no header: the column order is the
// contract.
func WriteRawRecords(w io.Writer, rep *Report) error {
	cw := csv.NewWriter(w)
	for _, r := range rawRecords(rep) {
		row := []string{
			r.Group,
			r.Function,
			r.ValueParameter,
			r.ThroughputNum,
			r.ThroughputType,
			strconv.FormatFloat(r.SampleValue, 'g', -1, 64),
			r.Unit,
			strconv.FormatUint(r.IterationCount, 10),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write raw record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadRawRecords parses rows written by WriteRawRecords. Persisted
// numeric fields are recovered exactly.
func ReadRawRecords(r io.Reader) ([]RawRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 8
	var out []RawRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read raw record: %w", err)
		}
		value, err := strconv.ParseFloat(row[5], 64)
		if err != nil {
			return nil, fmt.Errorf("raw record sample value %q: %w", row[5], err)
		}
		iters, err := strconv.ParseUint(row[7], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("raw record iteration count %q: %w", row[7], err)
		}
		out = append(out, RawRecord{
			Group:          row[0],
			Function:       row[1],
			ValueParameter: row[2],
			ThroughputNum:  row[3],
			ThroughputType: row[4],
			SampleValue:    value,
			Unit:           row[6],
			IterationCount: iters,
		})
	}
}
