// Package knowledge holds the static dataset that grounds the assistant's
// answers. The dataset is read-only at runtime and can be swapped for any
// structured product data.
package knowledge

// Stat is a single gauge-style metric of the ship.
type Stat struct {
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	Unit     string  `json:"unit"`
	FullMark float64 `json:"fullMark"`
}

// Issue pairs a known problem with its resolution.
type Issue struct {
	Problem  string `json:"problem"`
	Solution string `json:"solution"`
}

// QA is a frequently asked question with its answer.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Base is the grounding document handed to the model verbatim.
type Base struct {
	ProductName     string            `json:"productName"`
	Version         string            `json:"version"`
	Description     string            `json:"description"`
	Stats           []Stat            `json:"stats"`
	Features        map[string]string `json:"features"`
	Troubleshooting []Issue           `json:"troubleshooting"`
	FAQ             []QA              `json:"faq"`
}

// Default returns the kiyotoX exploration-vessel dataset.
func Default() Base {
	return Base{
		ProductName: "kiyotoX",
		Version:     "Mk. IV (Class: Explorer)",
		Description: "Advanced deep-space exploration vessel equipped with the latest hyper-drive technology and AI companionship modules.",
		Stats: []Stat{
			{Name: "Fuel Cells", Value: 87, Unit: "%", FullMark: 100},
			{Name: "Shield Integrity", Value: 100, Unit: "%", FullMark: 100},
			{Name: "Oxygen", Value: 95, Unit: "%", FullMark: 100},
			{Name: "Warp Core", Value: 42, Unit: "TB/s", FullMark: 100},
			{Name: "Hull Health", Value: 98, Unit: "%", FullMark: 100},
		},
		Features: map[string]string{
			"Hyper-Drive":        "Capable of jumping between star systems in microseconds using dimension folding.",
			"Nano-Repair":        "Automated hull repair using nanobots deployed from the outer shell.",
			"StellarMap":         "Real-time holographic mapping of the known universe with hazard detection.",
			"GalacticTranslator": "Universal translator for over 6 million forms of communication.",
		},
		Troubleshooting: []Issue{
			{
				Problem:  "Warp drive refuses to engage.",
				Solution: "Ensure the navigation computer has a locked trajectory. If 'Nav-Lock' is red, recalibrate the star sensors.",
			},
			{
				Problem:  "Artificial Gravity fluctuating.",
				Solution: "Check the rotational stabilizers in Sector 4. Usually requires a manual reset of the gyros.",
			},
			{
				Problem:  "Food synthesizer tastes bland.",
				Solution: "Replace the flavor cartridge 'Pack C'. It likely ran out of salt reserves.",
			},
		},
		FAQ: []QA{
			{
				Question: "How fast is the ship?",
				Answer:   "The Orion Starliner travels at Factor 9.8 Warp, capable of crossing the quadrant in 2 weeks.",
			},
			{
				Question: "Can I pilot manually?",
				Answer:   "Manual piloting is available but not recommended during Warp. Switch to 'Manual Mode' on the console for sub-light travel.",
			},
			{
				Question: "What is the mission duration?",
				Answer:   "The Orion Starliner is designed for indefinite autonomous operation, but standard mission cycles are 5 years.",
			},
		},
	}
}
