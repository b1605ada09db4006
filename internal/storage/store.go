package storage

import (
	"context"

	"bbnn/internal/model"
)

// Store defines persistence operations for wired networks and the inference
// history recorded against them.
type Store interface {
	Init(ctx context.Context) error
	SaveNetwork(ctx context.Context, snapshot model.NetworkSnapshot) error
	GetNetwork(ctx context.Context, id string) (model.NetworkSnapshot, bool, error)
	ListNetworks(ctx context.Context) ([]model.NetworkSnapshot, error)
	SaveInferences(ctx context.Context, networkID string, records []model.InferenceRecord) error
	GetInferences(ctx context.Context, networkID string) ([]model.InferenceRecord, bool, error)
}
