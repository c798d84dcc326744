package diagnostics

// Catalog categories. The cascade in diagnose.go decides which one a
// message maps to; the entries themselves never change at runtime.
const (
	CategoryOpenAIAPIKey     = "openai_api_key"
	CategoryOrgVerification  = "organization_verification"
	CategoryAlpacaAPIKey     = "alpaca_api_key"
	CategoryRateLimit        = "rate_limit"
	CategoryNetwork          = "network_connection"
	CategoryInsufficientData = "insufficient_data"
	CategoryTimeout          = "timeout"
)

var catalog = map[string]Diagnosis{
	CategoryOpenAIAPIKey: {
		Category:    CategoryOpenAIAPIKey,
		Title:       "🔑 OpenAI API Key Error",
		Description: "OpenAI API key is missing, invalid, or has insufficient credits",
		Solutions: []string{
			"1. Check your .env file contains: OPENAI_API_KEY=your_key_here",
			"2. Verify your API key at https://platform.openai.com/api-keys",
			"3. Ensure you have sufficient credits in your OpenAI account",
			"4. Try regenerating your API key if it's old",
		},
		Links: []string{
			"OpenAI API Keys: https://platform.openai.com/api-keys",
			"Usage Dashboard: https://platform.openai.com/usage",
		},
	},
	CategoryOrgVerification: {
		Category:    CategoryOrgVerification,
		Title:       "🏢 OpenAI Organization Verification Error",
		Description: "Your OpenAI organization requires verification or has billing issues",
		Solutions: []string{
			"1. Complete organization verification at https://platform.openai.com/account/organization",
			"2. Add a valid payment method to your account",
			"3. Check if your organization has any usage limits",
			"4. Contact OpenAI support if verification is pending",
		},
		Links: []string{
			"Organization Settings: https://platform.openai.com/account/organization",
			"Billing Settings: https://platform.openai.com/account/billing",
			"OpenAI Support: https://help.openai.com/",
		},
	},
	CategoryAlpacaAPIKey: {
		Category:    CategoryAlpacaAPIKey,
		Title:       "📈 Alpaca API Key Error",
		Description: "Alpaca trading API credentials are missing or invalid",
		Solutions: []string{
			"1. Get API keys from https://app.alpaca.markets/paper/dashboard/overview",
			"2. Add to .env file: ALPACA_API_KEY=your_key and ALPACA_SECRET_KEY=your_secret",
			"3. Ensure you're using the correct environment (paper vs live trading)",
			"4. Check API key permissions include market data access",
		},
		Links: []string{
			"Alpaca Dashboard: https://app.alpaca.markets/paper/dashboard/overview",
			"API Documentation: https://alpaca.markets/docs/",
		},
	},
	CategoryRateLimit: {
		Category:    CategoryRateLimit,
		Title:       "⏱️ API Rate Limit Error",
		Description: "You've exceeded the API request limits",
		Solutions: []string{
			"1. Wait 60 seconds before retrying",
			"2. Consider upgrading your API plan for higher limits",
			"3. Reduce the frequency of analysis runs",
			"4. Check if multiple instances are running simultaneously",
		},
		Links: []string{
			"OpenAI Rate Limits: https://platform.openai.com/docs/guides/rate-limits",
			"Alpaca Rate Limits: https://alpaca.markets/docs/api-references/trading-api/orders/",
		},
	},
	CategoryNetwork: {
		Category:    CategoryNetwork,
		Title:       "🌐 Network Connection Error",
		Description: "Unable to connect to external APIs",
		Solutions: []string{
			"1. Check your internet connection",
			"2. Verify firewall/antivirus isn't blocking the application",
			"3. Try using a different network or VPN",
			"4. Check if the API service is currently available",
		},
		Links: []string{
			"OpenAI Status: https://status.openai.com/",
			"Alpaca Status: https://status.alpaca.markets/",
		},
	},
	CategoryInsufficientData: {
		Category:    CategoryInsufficientData,
		Title:       "📊 Insufficient Data Error",
		Description: "Not enough historical data available for analysis",
		Solutions: []string{
			"1. Try a different ticker symbol",
			"2. Adjust the lookback period (reduce days)",
			"3. Verify the ticker symbol format (BTC/USD for crypto, AAPL for stocks)",
			"4. Check if it's a weekend/holiday when markets are closed",
		},
		Links: []string{
			"Market Hours: https://www.alpaca.markets/support/what-are-the-market-hours/",
			"Supported Assets: https://alpaca.markets/docs/api-references/market-data-api/stock-pricing-data/",
		},
	},
	CategoryTimeout: {
		Category:    CategoryTimeout,
		Title:       "⏰ Operation Timeout Error",
		Description: "A tool or API call took too long to complete",
		Solutions: []string{
			"1. Check your internet connection speed",
			"2. Try again in a few minutes (may be temporary API slowness)",
			"3. Reduce the amount of data being processed",
			"4. Consider using a different analysis date range",
		},
		Links: []string{
			"Network Speed Test: https://fast.com/",
		},
	},
}

// catalogOrder fixes the listing order for API responses.
var catalogOrder = []string{
	CategoryOpenAIAPIKey,
	CategoryOrgVerification,
	CategoryAlpacaAPIKey,
	CategoryRateLimit,
	CategoryNetwork,
	CategoryInsufficientData,
	CategoryTimeout,
}

// Catalog returns every entry in listing order.
func Catalog() []Diagnosis {
	out := make([]Diagnosis, 0, len(catalogOrder))
	for _, category := range catalogOrder {
		out = append(out, catalog[category])
	}
	return out
}

// Lookup returns the entry for one category.
func Lookup(category string) (Diagnosis, bool) {
	d, ok := catalog[category]
	return d, ok
}
