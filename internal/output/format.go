package output

// FormatRecord returns a copy of the record with the ranking cut to the
// top entries. top <= 1 drops the ranking since the winner is already in
// Lang and Proba.
func FormatRecord(r Record, top int) Record {
	if top <= 1 {
		r.Ranking = nil
		return r
	}
	if len(r.Ranking) > top {
		r.Ranking = r.Ranking[:top:top]
	}
	return r
}
