package domain

// Pillar is one stem+branch pair in a four-pillar chart.
type Pillar struct {
	Stem   string `json:"stem"`
	Branch string `json:"branch"`
}

// Profile holds the user's four pillars (year, month, day, hour of birth).
// Its branches form the reference set for daily risk classification.
type Profile struct {
	YearPillar  Pillar `json:"yearPillar"`
	MonthPillar Pillar `json:"monthPillar"`
	DayPillar   Pillar `json:"dayPillar"`
	HourPillar  Pillar `json:"hourPillar"`
}

// Branches returns the four branch symbols of the profile chart.
func (p Profile) Branches() []string {
	return []string{
		p.YearPillar.Branch,
		p.MonthPillar.Branch,
		p.DayPillar.Branch,
		p.HourPillar.Branch,
	}
}

// SignatureEntry is one behavioral log. Entries are keyed by day signature,
// not by date: Date records when the log was made, but recall groups by the
// recurring 60-day stem-branch combination.
type SignatureEntry struct {
	ID        string `json:"id"`
	Date      string `json:"date"` // YYYY-MM-DD when logged
	Tag       string `json:"tag"`
	Text      string `json:"text,omitempty"`
	CreatedAt int64  `json:"createdAt"` // epoch milliseconds
}

// DaySignatureData is the entry bucket for one of the 60 day signatures.
type DaySignatureData struct {
	ID      string           `json:"id"` // the signature itself, e.g. "戊午"
	Entries []SignatureEntry `json:"entries"`
}

// AppStore is the single persisted snapshot: all signature buckets, the
// optional profile, and the user's tag vocabulary.
type AppStore struct {
	Signatures map[string]DaySignatureData `json:"signatures"`
	Profile    *Profile                    `json:"profile"`
	CustomTags []string                    `json:"customTags"`
}

// TagCount is one row of a per-signature tag frequency table.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Analysis summarizes the logged history of one signature.
type Analysis struct {
	TotalLogs int              `json:"totalLogs"`
	TopTag    string           `json:"topTag"`
	TagCounts []TagCount       `json:"tagCounts"` // descending by count, ties keep first-encountered order
	LastThree []SignatureEntry `json:"lastThree"` // most recent first
}
