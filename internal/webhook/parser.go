// internal/webhook/parser.go
package webhook

import (
	"encoding/json"

	"manara-backend/internal/models"
)

// rawEvent covers the union of fields across the three known wire shapes.
type rawEvent struct {
	Operation string        `json:"operation"`
	IDs       []string      `json:"ids"`
	ID        string        `json:"_id"`
	Type      string        `json:"_type"`
	Mutations []rawMutation `json:"mutations"`
}

type rawMutation struct {
	Mutation string `json:"mutation"`
	Result   struct {
		ID   string `json:"_id"`
		Type string `json:"_type"`
	} `json:"result"`
}

// ParseEvent pattern-matches the delivery body against the three known
// shapes, first match wins:
//
//  1. batch:     { operation, ids: [...], _type }
//  2. single:    { _id, _type, operation? }   (operation defaults to create)
//  3. mutations: { mutations: [{ mutation, result: { _id, _type } }] }
//
// Anything else parses as an unrecognized event with zero changes; callers
// acknowledge those without processing. A body that is not JSON at all is
// also unrecognized rather than an error, so that unknown payload versions
// never fail the delivery.
func ParseEvent(body []byte) Event {
	var raw rawEvent
	if err := json.Unmarshal(body, &raw); err != nil {
		return Event{Shape: ShapeUnrecognized}
	}

	if raw.Operation != "" && len(raw.IDs) > 0 && raw.Type != "" {
		op := models.ParseOperation(raw.Operation)
		changes := make([]DocumentChange, 0, len(raw.IDs))
		for _, id := range raw.IDs {
			if id == "" {
				continue
			}
			changes = append(changes, DocumentChange{
				ID:        id,
				Type:      models.ContentType(raw.Type),
				Operation: op,
			})
		}
		if len(changes) == 0 {
			return Event{Shape: ShapeUnrecognized}
		}
		return Event{Shape: ShapeBatch, Changes: changes}
	}

	if raw.ID != "" && raw.Type != "" {
		op := models.OpCreate
		if raw.Operation != "" {
			op = models.ParseOperation(raw.Operation)
		}
		return Event{
			Shape: ShapeSingle,
			Changes: []DocumentChange{{
				ID:        raw.ID,
				Type:      models.ContentType(raw.Type),
				Operation: op,
			}},
		}
	}

	if len(raw.Mutations) > 0 {
		changes := make([]DocumentChange, 0, len(raw.Mutations))
		for _, m := range raw.Mutations {
			if m.Result.ID == "" || m.Result.Type == "" {
				continue
			}
			op := models.OpCreate
			if m.Mutation != "" {
				op = models.ParseOperation(m.Mutation)
			}
			changes = append(changes, DocumentChange{
				ID:        m.Result.ID,
				Type:      models.ContentType(m.Result.Type),
				Operation: op,
			})
		}
		if len(changes) == 0 {
			return Event{Shape: ShapeUnrecognized}
		}
		return Event{Shape: ShapeMutations, Changes: changes}
	}

	return Event{Shape: ShapeUnrecognized}
}
