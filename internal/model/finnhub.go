package model

// FinnhubQuote is the /quote response. Pointers distinguish an absent field from zero.
type FinnhubQuote struct {
	Current       *float64 `json:"c"`
	Change        *float64 `json:"d"`
	PercentChange *float64 `json:"dp"`
	High          *float64 `json:"h"`
	Low           *float64 `json:"l"`
	Open          *float64 `json:"o"`
	PreviousClose *float64 `json:"pc"`
	Timestamp     int64    `json:"t"`
}

// FinnhubProfile is the /stock/profile2 response
type FinnhubProfile struct {
	Name            string   `json:"name"`
	Ticker          string   `json:"ticker"`
	Exchange        string   `json:"exchange"`
	Country         string   `json:"country"`
	Currency        string   `json:"currency"`
	FinnhubIndustry string   `json:"finnhubIndustry"`
	WebURL          string   `json:"weburl"`
	Logo            string   `json:"logo"`
	Description     string   `json:"description"`
	MarketCap       *float64 `json:"marketCapitalization"`
}

// FinnhubMetrics is the /stock/metric?metric=all response, reduced to the
// fields the service reads
type FinnhubMetrics struct {
	Metric struct {
		MarketCapitalization         *float64 `json:"marketCapitalization"`
		PENormalizedAnnual           *float64 `json:"peNormalizedAnnual"`
		DividendYieldIndicatedAnnual *float64 `json:"dividendYieldIndicatedAnnual"`
		EPSBasicExclExtraord         *float64 `json:"epsBasicExclExtraord"`
	} `json:"metric"`
	Symbol string `json:"symbol"`
}

// FinnhubSearchResult is one entry of the /search response
type FinnhubSearchResult struct {
	Description   string `json:"description"`
	DisplaySymbol string `json:"displaySymbol"`
	Symbol        string `json:"symbol"`
	Type          string `json:"type"`
}

// FinnhubSearchResponse is the /search response
type FinnhubSearchResponse struct {
	Count  int                   `json:"count"`
	Result []FinnhubSearchResult `json:"result"`
}

// FinnhubNewsArticle is one article of the /company-news and /news responses
type FinnhubNewsArticle struct {
	ID       int64  `json:"id"`
	Category string `json:"category"`
	Datetime int64  `json:"datetime"`
	Headline string `json:"headline"`
	Image    string `json:"image"`
	Related  string `json:"related"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}
