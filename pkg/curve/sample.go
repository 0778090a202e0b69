package curve

// Sample fills dst with the curve evaluated at len(dst) evenly spaced
// distances from DomainMin to DomainMax inclusive.
func (c *Curve) Sample(dst []float64) {
	for i := range dst {
		dst[i] = c.Evaluate(SampleX(i, len(dst)))
	}
}

// SampleX returns the distance of sample i out of n, matching Sample.
func SampleX(i, n int) float64 {
	if n <= 1 {
		return DomainMin
	}
	return DomainMin + (DomainMax-DomainMin)*float64(i)/float64(n-1)
}
