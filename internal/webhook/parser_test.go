// internal/webhook/parser_test.go
package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"manara-backend/internal/models"
)

func TestParseEvent_ShapesAreEquivalent(t *testing.T) {
	// The same logical change expressed in all three wire shapes must parse
	// to the same (id, type, operation) triple.
	bodies := map[string]string{
		"batch":     `{"operation":"update","ids":["ep-1"],"_type":"episode"}`,
		"single":    `{"_id":"ep-1","_type":"episode","operation":"update"}`,
		"mutations": `{"mutations":[{"mutation":"update","result":{"_id":"ep-1","_type":"episode"}}]}`,
	}

	expected := DocumentChange{
		ID:        "ep-1",
		Type:      models.TypeEpisode,
		Operation: models.OpUpdate,
	}

	for shape, body := range bodies {
		t.Run(shape, func(t *testing.T) {
			event := ParseEvent([]byte(body))
			assert.NotEqual(t, ShapeUnrecognized, event.Shape)
			assert.Len(t, event.Changes, 1)
			assert.Equal(t, expected, event.Changes[0])
		})
	}
}

func TestParseEvent_Batch(t *testing.T) {
	event := ParseEvent([]byte(`{"operation":"delete","ids":["a","b","c"],"_type":"article"}`))

	assert.Equal(t, ShapeBatch, event.Shape)
	assert.Len(t, event.Changes, 3)
	for i, id := range []string{"a", "b", "c"} {
		assert.Equal(t, id, event.Changes[i].ID)
		assert.Equal(t, models.TypeArticle, event.Changes[i].Type)
		assert.Equal(t, models.OpDelete, event.Changes[i].Operation)
	}
}

func TestParseEvent_SingleDefaultsToCreate(t *testing.T) {
	event := ParseEvent([]byte(`{"_id":"doc-9","_type":"playlist"}`))

	assert.Equal(t, ShapeSingle, event.Shape)
	assert.Len(t, event.Changes, 1)
	assert.Equal(t, models.OpCreate, event.Changes[0].Operation)
}

func TestParseEvent_MutationsSkipIncompleteEntries(t *testing.T) {
	body := `{"mutations":[
		{"mutation":"create","result":{"_id":"s-1","_type":"season"}},
		{"mutation":"create","result":{"_id":"","_type":"season"}},
		{"mutation":"delete","result":{"_id":"s-2","_type":"season"}}
	]}`

	event := ParseEvent([]byte(body))

	assert.Equal(t, ShapeMutations, event.Shape)
	assert.Len(t, event.Changes, 2)
	assert.Equal(t, "s-1", event.Changes[0].ID)
	assert.Equal(t, models.OpCreate, event.Changes[0].Operation)
	assert.Equal(t, "s-2", event.Changes[1].ID)
	assert.Equal(t, models.OpDelete, event.Changes[1].Operation)
}

func TestParseEvent_Unrecognized(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `this is not json`},
		{"empty object", `{}`},
		{"batch with empty ids", `{"operation":"update","ids":[],"_type":"episode"}`},
		{"batch with only blank ids", `{"operation":"update","ids":[""],"_type":"episode"}`},
		{"batch missing type", `{"operation":"update","ids":["a"]}`},
		{"single missing type", `{"_id":"doc-1"}`},
		{"mutations with no usable entries", `{"mutations":[{"mutation":"create","result":{}}]}`},
		{"unrelated json", `{"hello":"world"}`},
		{"json array", `[1,2,3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := ParseEvent([]byte(tt.body))
			assert.Equal(t, ShapeUnrecognized, event.Shape)
			assert.Empty(t, event.Changes)
		})
	}
}

func TestParseEvent_BatchWinsOverSingle(t *testing.T) {
	// A body carrying both batch and single fields matches the batch shape
	// first.
	body := `{"operation":"update","ids":["a"],"_type":"episode","_id":"other"}`

	event := ParseEvent([]byte(body))

	assert.Equal(t, ShapeBatch, event.Shape)
	assert.Len(t, event.Changes, 1)
	assert.Equal(t, "a", event.Changes[0].ID)
}

func TestParseEvent_UnknownOperationFallsBackToUpdate(t *testing.T) {
	event := ParseEvent([]byte(`{"operation":"appear","ids":["x"],"_type":"faq"}`))

	assert.Equal(t, ShapeBatch, event.Shape)
	assert.Equal(t, models.OpUpdate, event.Changes[0].Operation)
}
