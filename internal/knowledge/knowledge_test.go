package knowledge

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault_Shape(t *testing.T) {
	b := Default()
	require.Equal(t, "kiyotoX", b.ProductName)
	require.Len(t, b.Stats, 5)
	require.Len(t, b.Troubleshooting, 3)
	require.Len(t, b.FAQ, 3)
	require.Contains(t, b.Features, "Hyper-Drive")
}

func TestDefault_JSONKeys(t *testing.T) {
	// The dataset endpoint serves this verbatim; field names are part of
	// the wire contract with the stats view.
	data, err := json.Marshal(Default())
	require.NoError(t, err)
	require.Contains(t, string(data), `"productName"`)
	require.Contains(t, string(data), `"fullMark"`)
	require.Contains(t, string(data), `"troubleshooting"`)
}

func TestSystemPrompt_CarriesDataset(t *testing.T) {
	prompt := SystemPrompt(Default())
	require.Contains(t, prompt, "kiyotoX")
	require.Contains(t, prompt, "Fuel Cells: 87%")
	require.Contains(t, prompt, "Warp drive refuses to engage.")
	require.Contains(t, prompt, "How fast is the ship?")
	require.Contains(t, prompt, "GalacticTranslator")
}

func TestGreeting(t *testing.T) {
	g := Greeting(Default())
	require.Contains(t, g, "kiyotoX")
	require.Contains(t, g, "How can I assist you today?")
}
