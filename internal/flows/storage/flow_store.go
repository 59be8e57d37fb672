// Package storage persists per-user flow history and usage counters in Redis.
package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/flowforge-labs/flowforge-backend/internal/flows/domain"
	"github.com/redis/go-redis/v9"
)

const (
	flowsKeyPrefix = "flowforge:flows:" // flowforge:flows:{user_id} -> JSON array of SavedFlow
	maxSavedFlows  = 50                 // history cap, most-recent first
)

var ErrFlowNotFound = errors.New("flow not found")

// FlowStore keeps each user's SavedFlow history as one JSON document,
// newest first, capped at maxSavedFlows on every write.
type FlowStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewFlowStore(client *redis.Client) *FlowStore {
	return &FlowStore{client: client, now: time.Now}
}

func (s *FlowStore) key(userID string) string {
	return flowsKeyPrefix + userID
}

// Save prepends a new SavedFlow and trims the history to the cap.
func (s *FlowStore) Save(ctx context.Context, userID string, features []domain.Feature, name string) (*domain.SavedFlow, error) {
	now := s.now().UTC()
	if name == "" {
		name = "Flow " + now.Format("2006-01-02")
	}

	flow := domain.SavedFlow{
		ID:        newFlowID(),
		Name:      name,
		Features:  features,
		CreatedAt: now,
		UpdatedAt: now,
	}

	flows, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	flows = append([]domain.SavedFlow{flow}, flows...)
	if len(flows) > maxSavedFlows {
		flows = flows[:maxSavedFlows]
	}

	if err := s.write(ctx, userID, flows); err != nil {
		return nil, err
	}
	return &flow, nil
}

// List returns the saved flows, most recent first. A corrupt document is
// treated as empty rather than poisoning the account.
func (s *FlowStore) List(ctx context.Context, userID string) ([]domain.SavedFlow, error) {
	data, err := s.client.Get(ctx, s.key(userID)).Result()
	if err == redis.Nil {
		return []domain.SavedFlow{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("flow store get: %w", err)
	}

	var flows []domain.SavedFlow
	if err := json.Unmarshal([]byte(data), &flows); err != nil {
		return []domain.SavedFlow{}, nil
	}
	return flows, nil
}

func (s *FlowStore) Get(ctx context.Context, userID, flowID string) (*domain.SavedFlow, error) {
	flows, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range flows {
		if flows[i].ID == flowID {
			return &flows[i], nil
		}
	}
	return nil, ErrFlowNotFound
}

// Update replaces mutable fields of a saved flow and bumps updatedAt.
// Nil features / empty name leave the stored value unchanged.
func (s *FlowStore) Update(ctx context.Context, userID, flowID string, name string, features []domain.Feature) (*domain.SavedFlow, error) {
	return s.mutate(ctx, userID, flowID, func(f *domain.SavedFlow) error {
		if name != "" {
			f.Name = name
		}
		if features != nil {
			f.Features = features
		}
		return nil
	})
}

// UpdateNode applies an in-place node edit keyed by (featureID, nodeID).
func (s *FlowStore) UpdateNode(ctx context.Context, userID, flowID, featureID, nodeID string, upd domain.NodeUpdate) (*domain.SavedFlow, error) {
	return s.mutate(ctx, userID, flowID, func(f *domain.SavedFlow) error {
		for i := range f.Features {
			if f.Features[i].ID != featureID {
				continue
			}
			if !f.Features[i].ApplyNodeUpdate(nodeID, upd) {
				return ErrFlowNotFound
			}
			return nil
		}
		return ErrFlowNotFound
	})
}

// DeleteFeature removes one feature from a saved flow.
func (s *FlowStore) DeleteFeature(ctx context.Context, userID, flowID, featureID string) (*domain.SavedFlow, error) {
	return s.mutate(ctx, userID, flowID, func(f *domain.SavedFlow) error {
		kept := f.Features[:0]
		found := false
		for _, feat := range f.Features {
			if feat.ID == featureID {
				found = true
				continue
			}
			kept = append(kept, feat)
		}
		if !found {
			return ErrFlowNotFound
		}
		f.Features = kept
		return nil
	})
}

// ClearFeatures empties a saved flow without deleting its record.
func (s *FlowStore) ClearFeatures(ctx context.Context, userID, flowID string) (*domain.SavedFlow, error) {
	return s.mutate(ctx, userID, flowID, func(f *domain.SavedFlow) error {
		f.Features = []domain.Feature{}
		return nil
	})
}

func (s *FlowStore) Delete(ctx context.Context, userID, flowID string) error {
	flows, err := s.List(ctx, userID)
	if err != nil {
		return err
	}

	kept := flows[:0]
	found := false
	for _, f := range flows {
		if f.ID == flowID {
			found = true
			continue
		}
		kept = append(kept, f)
	}
	if !found {
		return ErrFlowNotFound
	}
	return s.write(ctx, userID, kept)
}

// Trim drops history entries beyond limit (plan enforcement; -1 keeps all).
// Returns how many entries were removed.
func (s *FlowStore) Trim(ctx context.Context, userID string, limit int) (int, error) {
	if limit < 0 {
		return 0, nil
	}
	flows, err := s.List(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(flows) <= limit {
		return 0, nil
	}
	removed := len(flows) - limit
	if err := s.write(ctx, userID, flows[:limit]); err != nil {
		return 0, err
	}
	return removed, nil
}

func (s *FlowStore) mutate(ctx context.Context, userID, flowID string, fn func(*domain.SavedFlow) error) (*domain.SavedFlow, error) {
	flows, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range flows {
		if flows[i].ID != flowID {
			continue
		}
		if err := fn(&flows[i]); err != nil {
			return nil, err
		}
		flows[i].UpdatedAt = s.now().UTC()
		if err := s.write(ctx, userID, flows); err != nil {
			return nil, err
		}
		return &flows[i], nil
	}
	return nil, ErrFlowNotFound
}

func (s *FlowStore) write(ctx context.Context, userID string, flows []domain.SavedFlow) error {
	data, err := json.Marshal(flows)
	if err != nil {
		return fmt.Errorf("flow store marshal: %w", err)
	}
	if err := s.client.Set(ctx, s.key(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("flow store set: %w", err)
	}
	return nil
}

func newFlowID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("flow-%d", time.Now().UnixNano())
	}
	return "flow-" + hex.EncodeToString(b)
}
