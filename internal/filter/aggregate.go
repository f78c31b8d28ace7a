package filter

// Aggregate reduces records according to policy.
//
// AggregateFirst and AggregateLast return a one-element sequence, or an empty
// one for empty input. Any other policy returns records unchanged.
func Aggregate(records RecordSequence, policy AggregatePolicy) RecordSequence {
	switch policy {
	case AggregateFirst:
		if len(records) == 0 {
			return RecordSequence{}
		}
		return RecordSequence{records[0]}
	case AggregateLast:
		if len(records) == 0 {
			return RecordSequence{}
		}
		return RecordSequence{records[len(records)-1]}
	default:
		return records
	}
}
