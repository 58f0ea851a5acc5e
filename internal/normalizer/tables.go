package normalizer

// Tables holds the static lookup tables used during normalization.
type Tables struct {
	// Races maps every race spelling the decoder emits to a one-letter code.
	Races map[string]string
	// Maps maps punctuation-stripped map titles to canonical map names.
	Maps map[string]string
}

// DefaultRaces covers full and short English names plus zh-CN names.
func DefaultRaces() map[string]string {
	return map[string]string{
		"Protoss": "P", "Prot": "P", "星灵": "P",
		"Terran": "T", "Terr": "T", "人类": "T",
		"Zerg": "Z", "异虫": "Z",
		"Random": "R", "Rand": "R", "随机": "R",
	}
}

// DefaultMaps is the reference season's ladder pool. Keys are titles with
// ASCII punctuation removed.
func DefaultMaps() map[string]string {
	return map[string]string{
		"Automaton LE":       "Automaton LE",
		"机械城  天梯版":           "Automaton LE",
		"Kings Cove LE":      "Kings Cove LE",
		"国王藏宝地天梯版":           "Kings Cove LE",
		"Year Zero LE":       "Year Zero LE",
		"New Repugnancy LE":  "New Repugnancy LE",
		"Cyber Forest LE":    "Cyber Forest LE",
		"赛博森林天梯版":            "Cyber Forest LE",
		"Port Aleksander LE": "Port Aleksander LE",
		"Kairos Junction LE": "Kairos Junction LE",
		"Acropolis LE":       "Acropolis LE",
		"Thunderbird LE":     "Thunderbird LE",
		"Turbo Cruise 84 LE": "Turbo Cruise 84 LE",
		"Triton LE":          "Triton LE",
		"Disco Bloodbath LE": "Disco Bloodbath LE",
		"Winters Gate LE":    "Winters Gate LE",
		"Ephemeron LE":       "Ephemeron LE",
	}
}

// DefaultTables returns the reference race and map tables.
func DefaultTables() Tables {
	return Tables{Races: DefaultRaces(), Maps: DefaultMaps()}
}
