package newton

// trustRegion is the stubbed alternative globalization strategy. It holds
// the same validation contract as the line search so a future dogleg or
// Levenberg implementation can drop in behind it, but the refinement itself
// always reports ErrNotImplemented.
func trustRegion(p Problem, trial, resid, step []float64) error {
	for _, v := range [][]float64{trial, resid, step} {
		if err := p.Layout.CheckLen(v); err != nil {
			return newtonErrorf(opTrustRegion, err)
		}
	}

	return newtonErrorf(opTrustRegion, ErrNotImplemented)
}
