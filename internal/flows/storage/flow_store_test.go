package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/flowforge-labs/flowforge-backend/internal/flows/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFlowStore(t *testing.T) *FlowStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewFlowStore(client)
}

func sampleFeatures() []domain.Feature {
	return domain.Normalize([]domain.Feature{
		{
			Name:        "Login",
			Description: "User signs in",
			Priority:    domain.PriorityHigh,
			Flow: domain.UserFlow{Nodes: []domain.FlowNode{
				{ID: "n1", Type: domain.NodeNeed, Label: "Sign in"},
				{ID: "n2", Type: domain.NodeAction, Label: "Enter email", ConnectionLabel: "then"},
				{ID: "n3", Type: domain.NodeDescription, Label: "Form", Details: []string{"email", "password"}},
				{ID: "n4", Type: domain.NodeValidatedNeed, Label: "Signed in"},
			}},
		},
	})
}

func TestFlowStore_SaveAndGetRoundTrip(t *testing.T) {
	store := setupFlowStore(t)
	ctx := context.Background()

	features := sampleFeatures()
	saved, err := store.Save(ctx, "user-1", features, "My Session")
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "My Session", saved.Name)

	got, err := store.Get(ctx, "user-1", saved.ID)
	require.NoError(t, err)
	assert.Equal(t, features, got.Features, "round-trip must preserve every field and the order")
}

func TestFlowStore_DefaultName(t *testing.T) {
	store := setupFlowStore(t)
	store.now = func() time.Time { return time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC) }

	saved, err := store.Save(context.Background(), "u", sampleFeatures(), "")
	require.NoError(t, err)
	assert.Equal(t, "Flow 2026-08-28", saved.Name)
}

func TestFlowStore_HistoryCappedAtFifty(t *testing.T) {
	store := setupFlowStore(t)
	ctx := context.Background()

	var lastTen []string
	for i := 0; i < 60; i++ {
		saved, err := store.Save(ctx, "user-1", sampleFeatures(), fmt.Sprintf("flow %d", i))
		require.NoError(t, err)
		if i >= 50 {
			lastTen = append(lastTen, saved.ID)
		}
	}

	flows, err := store.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, flows, 50, "exactly the 50 most recent survive")

	assert.Equal(t, "flow 59", flows[0].Name, "most recent first")
	assert.Equal(t, "flow 10", flows[49].Name)

	// The ten most recent are all present.
	byID := map[string]bool{}
	for _, f := range flows {
		byID[f.ID] = true
	}
	for _, id := range lastTen {
		assert.True(t, byID[id])
	}
}

func TestFlowStore_GetMissing(t *testing.T) {
	store := setupFlowStore(t)
	_, err := store.Get(context.Background(), "user-1", "nope")
	require.ErrorIs(t, err, ErrFlowNotFound)
}

func TestFlowStore_UpdateNode(t *testing.T) {
	store := setupFlowStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, "u", sampleFeatures(), "s")
	require.NoError(t, err)
	featureID := saved.Features[0].ID

	label := "Enter work email"
	updated, err := store.UpdateNode(ctx, "u", saved.ID, featureID, "n2", domain.NodeUpdate{Label: &label})
	require.NoError(t, err)
	assert.Equal(t, "Enter work email", updated.Features[0].Flow.Nodes[1].Label)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))

	// Edits overwrite in place: re-reading shows the new label.
	got, err := store.Get(ctx, "u", saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Enter work email", got.Features[0].Flow.Nodes[1].Label)

	_, err = store.UpdateNode(ctx, "u", saved.ID, featureID, "missing-node", domain.NodeUpdate{Label: &label})
	require.ErrorIs(t, err, ErrFlowNotFound)
}

func TestFlowStore_DeleteFeatureAndClear(t *testing.T) {
	store := setupFlowStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, "u", sampleFeatures(), "s")
	require.NoError(t, err)
	featureID := saved.Features[0].ID

	updated, err := store.DeleteFeature(ctx, "u", saved.ID, featureID)
	require.NoError(t, err)
	assert.Empty(t, updated.Features)

	_, err = store.DeleteFeature(ctx, "u", saved.ID, featureID)
	require.ErrorIs(t, err, ErrFlowNotFound)

	saved2, err := store.Save(ctx, "u", sampleFeatures(), "s2")
	require.NoError(t, err)
	cleared, err := store.ClearFeatures(ctx, "u", saved2.ID)
	require.NoError(t, err)
	assert.Empty(t, cleared.Features)
}

func TestFlowStore_Delete(t *testing.T) {
	store := setupFlowStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, "u", sampleFeatures(), "s")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "u", saved.ID))
	_, err = store.Get(ctx, "u", saved.ID)
	require.ErrorIs(t, err, ErrFlowNotFound)

	require.ErrorIs(t, store.Delete(ctx, "u", saved.ID), ErrFlowNotFound)
}

func TestFlowStore_Trim(t *testing.T) {
	store := setupFlowStore(t)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		_, err := store.Save(ctx, "u", sampleFeatures(), fmt.Sprintf("f%d", i))
		require.NoError(t, err)
	}

	removed, err := store.Trim(ctx, "u", 10)
	require.NoError(t, err)
	assert.Equal(t, 5, removed)

	flows, err := store.List(ctx, "u")
	require.NoError(t, err)
	assert.Len(t, flows, 10)
	assert.Equal(t, "f14", flows[0].Name)

	removed, err = store.Trim(ctx, "u", -1)
	require.NoError(t, err)
	assert.Zero(t, removed, "unlimited plans are never trimmed")
}

func TestFlowStore_UsersAreIsolated(t *testing.T) {
	store := setupFlowStore(t)
	ctx := context.Background()

	_, err := store.Save(ctx, "alice", sampleFeatures(), "a")
	require.NoError(t, err)

	flows, err := store.List(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, flows)
}
