package filter

// Select keeps only the named fields of each record, in the order given by
// fields. A nil or empty fields list returns records unchanged.
//
// Fields missing from a record are skipped for that record, so heterogeneous
// rows each keep their own subset. A record matching none of the fields comes
// back empty rather than being dropped.
func Select(records RecordSequence, fields []string) RecordSequence {
	if len(fields) == 0 {
		return records
	}

	out := make(RecordSequence, len(records))
	for i, rec := range records {
		projected := Record{values: make(map[string]any, len(fields))}
		for _, f := range fields {
			if v, ok := rec.values[f]; ok {
				projected.set(f, v)
			}
		}
		out[i] = projected
	}
	return out
}
