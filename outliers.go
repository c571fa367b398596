package statbench

// Outlier classification using Tukey's fences. Outliers are reported,
// never removed: every downstream statistic runs on the full sample,
// because silently dropping slow windows would bias the estimates
// toward the machine's best-case behavior rather than its real one.

// OutlierLabel classifies one data point relative to the Tukey fences.
type OutlierLabel int8

const (
	NotAnOutlier OutlierLabel = iota
	LowMild
	LowSevere
	HighMild
	HighSevere
)

// String returns a short human-readable name for the label.
func (l OutlierLabel) String() string {
	switch l {
	case LowSevere:
		return "low severe"
	case LowMild:
		return "low mild"
	case HighMild:
		return "high mild"
	case HighSevere:
		return "high severe"
	default:
		return "normal"
	}
}

// OutlierReport holds the outlier census of a sample's per-iteration
// times: how many points fell in each bucket and the fence values that
// produced the classification.
type OutlierReport struct {
	LowSevere  int `json:"low_severe"`
	LowMild    int `json:"low_mild"`
	HighMild   int `json:"high_mild"`
	HighSevere int `json:"high_severe"`

	// Fences are, in order: the low severe, low mild, high mild and
	// high severe thresholds. They always satisfy
	// Fences[0] ≤ Fences[1] ≤ Fences[2] ≤ Fences[3].
	Fences [4]float64 `json:"fences"`

	// Labels classifies each input point, in input order.
	Labels []OutlierLabel `json:"-"`
}

// ClassifyOutliers computes quartiles Q1 and Q3 of times, the
// interquartile range IQR = Q3 - Q1, and the fences
//
//	mild:   [Q1 - 1.5·IQR, Q3 + 1.5·IQR]
//	severe: [Q1 - 3·IQR,   Q3 + 3·IQR]
//
// and buckets every point into exactly one of five classes: normal,
// mild low/high (outside the mild fence but inside the severe one) or
// severe low/high (outside the severe fence).
func ClassifyOutliers(times []float64) OutlierReport {
	sorted := sortedCopy(times)
	q1 := percentileSorted(sorted, 25)
	q3 := percentileSorted(sorted, 75)
	iqr := q3 - q1

	lowSevere := q1 - 3*iqr
	lowMild := q1 - 1.5*iqr
	highMild := q3 + 1.5*iqr
	highSevere := q3 + 3*iqr

	r := OutlierReport{
		Fences: [4]float64{lowSevere, lowMild, highMild, highSevere},
		Labels: make([]OutlierLabel, len(times)),
	}
	for i, x := range times {
		switch {
		case x < lowSevere:
			r.Labels[i] = LowSevere
			r.LowSevere++
		case x > highSevere:
			r.Labels[i] = HighSevere
			r.HighSevere++
		case x < lowMild:
			r.Labels[i] = LowMild
			r.LowMild++
		case x > highMild:
			r.Labels[i] = HighMild
			r.HighMild++
		default:
			r.Labels[i] = NotAnOutlier
		}
	}
	return r
}

// Total returns the number of points classified as any kind of outlier.
func (r OutlierReport) Total() int {
	return r.LowSevere + r.LowMild + r.HighMild + r.HighSevere
}

// Fraction returns the share of points classified as outliers.
func (r OutlierReport) Fraction() float64 {
	if len(r.Labels) == 0 {
		return 0
	}
	return float64(r.Total()) / float64(len(r.Labels))
}
