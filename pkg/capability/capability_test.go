package capability

import (
	"context"
	"testing"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bascanada/fhirquery/pkg/fhir/search"
	"github.com/bascanada/fhirquery/pkg/http"
)

const metadataBody = `{
  "resourceType": "CapabilityStatement",
  "fhirVersion": "4.0.1",
  "rest": [
    {
      "mode": "server",
      "resource": [
        {
          "type": "Patient",
          "searchParam": [
            {"name": "name", "type": "string"},
            {"name": "birthdate", "type": "date"}
          ]
        },
        {"type": "CustomWidget"},
        {"type": "Patient"}
      ]
    }
  ]
}`

func TestFetch(t *testing.T) {
	defer gock.Off()
	gock.DisableNetworking()

	gock.New("http://fhir.example.com").
		Get("/metadata").
		Reply(200).
		BodyString(metadataBody)

	client := http.GetClient("http://fhir.example.com")

	stmt, err := Fetch(context.Background(), client, nil)
	require.NoError(t, err)

	assert.Equal(t, "4.0.1", stmt.FhirVersion)
	assert.Equal(t, []string{"Patient", "CustomWidget"}, stmt.ResourceTypes())
	assert.Equal(t, []string{"name", "birthdate"}, stmt.SearchParams("Patient"))
	assert.Empty(t, stmt.SearchParams("Observation"))
	assert.True(t, gock.IsDone())
}

func TestFetchWrongResourceType(t *testing.T) {
	defer gock.Off()
	gock.DisableNetworking()

	gock.New("http://fhir.example.com").
		Get("/metadata").
		Reply(200).
		JSON(map[string]string{"resourceType": "OperationOutcome"})

	client := http.GetClient("http://fhir.example.com")

	_, err := Fetch(context.Background(), client, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OperationOutcome")
}

func TestFetchServerError(t *testing.T) {
	defer gock.Off()
	gock.DisableNetworking()

	gock.New("http://fhir.example.com").
		Get("/metadata").
		Reply(500).
		BodyString("boom")

	client := http.GetClient("http://fhir.example.com")

	_, err := Fetch(context.Background(), client, nil)
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	stmt := &Statement{
		ResourceType: "CapabilityStatement",
		Rest: []Rest{
			{Mode: "server", Resource: []Resource{{Type: "CustomWidget"}}},
		},
	}

	v := search.New(search.Options{})
	assert.False(t, v.IsValidResourceType("CustomWidget"))

	stmt.Apply(v)
	assert.True(t, v.IsValidResourceType("CustomWidget"))
	// Declared types also become valid reference-target qualifiers.
	assert.True(t, v.IsValidModifier("customwidget"))

	res := v.Validate("/CustomWidget?name=x")
	assert.Empty(t, res.Warnings)
}
