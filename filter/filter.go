package filter

// Filter is anything that answers approximate membership queries.
type Filter interface {
	Contains(data []byte) bool
}

// MeasureFalsePositives returns the share of probes f reports as present.
// Every probe is assumed to have never been inserted.
func MeasureFalsePositives(f Filter, probes [][]byte) float64 {
	if len(probes) == 0 {
		return 0
	}
	fp := 0
	for _, p := range probes {
		if f.Contains(p) {
			fp++
		}
	}
	return float64(fp) / float64(len(probes))
}
