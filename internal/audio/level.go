package audio

// MeanAbs returns the mean absolute amplitude of the samples (0.0-1.0
// for normalized input). Used for live level metering.
func MeanAbs(data []float32) float64 {
	if len(data) == 0 {
		return 0
	}

	var sum float64
	for _, s := range data {
		if s < 0 {
			sum -= float64(s)
		} else {
			sum += float64(s)
		}
	}
	return sum / float64(len(data))
}

// Peak returns the maximum absolute amplitude in the samples.
func Peak(data []float32) float64 {
	var peak float64
	for _, s := range data {
		v := float64(s)
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	return peak
}
