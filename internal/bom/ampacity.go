package bom

// BandCount is the number of ampacity bands.
const BandCount = 6

// StandardCrossSections are the band cable cross-sections in mm², ascending.
var StandardCrossSections = [BandCount]float64{1.5, 2.5, 4, 6, 10, 16}

// StandardBreakerRatings are the breaker ratings in A paired with StandardCrossSections.
var StandardBreakerRatings = [BandCount]int{16, 20, 25, 32, 50, 63}

// Band is one row of the ampacity table.
type Band struct {
	Index         int     `json:"index"`
	CrossSection  float64 `json:"crossSection"`
	MaxCurrent    float64 `json:"maxCurrent"`
	BreakerRating int     `json:"breakerRating"`
}

// AmpacityTable maps a device current to a cable cross-section and breaker rating.
type AmpacityTable struct {
	bands [BandCount]Band
}

// NewAmpacityTable combines the fixed cross-sections and breaker ratings with
// the configured maximum currents.
func NewAmpacityTable(maxCurrent [BandCount]float64) AmpacityTable {
	var t AmpacityTable
	for i := range t.bands {
		t.bands[i] = Band{
			Index:         i,
			CrossSection:  StandardCrossSections[i],
			MaxCurrent:    maxCurrent[i],
			BreakerRating: StandardBreakerRatings[i],
		}
	}
	return t
}

// Lookup returns the smallest band whose max current covers current.
// If no band qualifies the largest band is returned.
func (t AmpacityTable) Lookup(current float64) Band {
	for _, b := range t.bands {
		if b.MaxCurrent >= current {
			return b
		}
	}
	return t.bands[BandCount-1]
}

// Bands returns a copy of the table rows.
func (t AmpacityTable) Bands() []Band {
	res := make([]Band, BandCount)
	copy(res, t.bands[:])
	return res
}
