package dto

// PresetsResponse lists every preset the server resolves, keyed by name.
type PresetsResponse struct {
	Presets map[string][]string `json:"presets"`
	Names   []string            `json:"names" example:"ohlc,price"`
}
