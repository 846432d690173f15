package docs_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/hvac-weather-recorder/docs"
)

func TestSwaggerDoc_GetWeatherDocumentsWrite(t *testing.T) {
	var doc struct {
		Paths map[string]map[string]struct {
			Description string `json:"description"`
		} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(docs.SwaggerInfo.ReadDoc()), &doc))

	get := doc.Paths["/weather"]["get"]
	assert.Contains(t, get.Description, "stores the observation")
	assert.Contains(t, doc.Paths, "/observations")
}
