package domain

// AggregateStats são os números derivados de uma coleção (cards de estatística).
// Nunca são persistidos; sempre recalculados a partir da fonte.
type AggregateStats struct {
	Count          int                `json:"count"`
	ByLabel        map[string]int     `json:"by_label"`
	Percentages    map[string]float64 `json:"percentages"`
	Sums           map[string]float64 `json:"sums"`
	Averages       map[string]float64 `json:"averages"`
	DropOffs       map[string]float64 `json:"drop_offs"`
	Recent         int                `json:"recent"`
	PreviousRecent int                `json:"previous_recent"`
	// ChangePercent compara a janela recente com a anterior de mesmo tamanho.
	// Fica ausente quando a janela anterior está vazia (variação indefinida).
	ChangePercent *float64 `json:"change_percent,omitempty"`
}
