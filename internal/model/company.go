package model

// Company is display metadata for a featured ticker on the home page.
type Company struct {
	Name   string
	Ticker string
	Image  string
}

// FeaturedCompanies is the fixed carousel shown on the home page.
var FeaturedCompanies = []Company{
	{Name: "Apple Inc.", Ticker: "AAPL", Image: "apple.png"},
	{Name: "Alphabet Inc.", Ticker: "GOOGL", Image: "google.png"},
	{Name: "Microsoft Corp.", Ticker: "MSFT", Image: "microsoft.png"},
	{Name: "Amazon.com Inc.", Ticker: "AMZN", Image: "amazon.png"},
	{Name: "Meta Platforms Inc.", Ticker: "META", Image: "facebook.png"},
	{Name: "Tesla Inc.", Ticker: "TSLA", Image: "tesla.png"},
	{Name: "Netflix Inc.", Ticker: "NFLX", Image: "netflix.png"},
	{Name: "NVIDIA Corp.", Ticker: "NVDA", Image: "nvidia.png"},
	{Name: "Intel Corp.", Ticker: "INTC", Image: "intel.png"},
	{Name: "Adobe Inc.", Ticker: "ADBE", Image: "adobe.png"},
}
