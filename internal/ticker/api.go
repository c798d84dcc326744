package ticker

// API identifies a downstream consumer with its own symbol convention.
type API string

const (
	APIAlpaca   API = "alpaca"
	APIOpenAI   API = "openai"
	APIYahoo    API = "yahoo"
	APICoindesk API = "coindesk"
	APIDisplay  API = "display"
	APIClean    API = "clean"
)

// ForAPI picks the spelling for one consumer. Unknown names fall back
// to the standardized original.
func (d Descriptor) ForAPI(api API) string {
	switch api {
	case APIAlpaca:
		return d.Alpaca
	case APIOpenAI:
		return d.OpenAI
	case APIYahoo:
		return d.Yahoo
	case APICoindesk:
		return d.Coindesk
	case APIDisplay:
		return d.Display
	case APIClean:
		return d.Clean
	}
	return d.Original
}

// Convert standardizes raw and returns the spelling for the given API.
func Convert(raw string, api API) (string, error) {
	d, err := Standardize(raw)
	if err != nil {
		return "", err
	}
	return d.ForAPI(api), nil
}
