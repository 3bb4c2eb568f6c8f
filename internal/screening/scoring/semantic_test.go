package scoring

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"namescreen/internal/screening/ports/mocks"
)

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 2, 3}, []float32{2, 4, 6}), 1e-9)
	assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Equal(t, 0.0, CosineSimilarity([]float32{1}, []float32{1, 0}))
	assert.Equal(t, 0.0, CosineSimilarity(nil, nil))
	assert.Equal(t, 0.0, CosineSimilarity([]float32{0, 0}, []float32{1, 0}))
}

func TestSemanticScorer_Score(t *testing.T) {
	ctrl := gomock.NewController(t)
	model := mocks.NewMockEmbeddingModel(ctrl)
	model.EXPECT().Embed(gomock.Any(), "john doe").Return([]float32{1, 0}, nil)
	model.EXPECT().Embed(gomock.Any(), "jane danald").Return([]float32{1, 1}, nil)

	s := NewSemanticScorer(model)
	score, err := s.Score(context.Background(), "john doe", "jane danald")
	require.NoError(t, err)
	assert.InDelta(t, 0.7071, score, 1e-4)
	assert.Equal(t, SemanticRange, s.Range())
	assert.False(t, s.Exclusive())
}

func TestSemanticScorer_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	model := mocks.NewMockEmbeddingModel(ctrl)
	model.EXPECT().Embed(gomock.Any(), "a b").Return(nil, errors.New("model offline"))

	s := NewSemanticScorer(model, WithExclusiveEmbedding())
	_, err := s.Score(context.Background(), "a b", "c d")
	require.ErrorContains(t, err, "model offline")
	assert.True(t, s.Exclusive())

	model.EXPECT().Embed(gomock.Any(), "a b").Return([]float32{1, 0, 0}, nil)
	model.EXPECT().Embed(gomock.Any(), "c d").Return([]float32{1, 0}, nil)
	_, err = s.Score(context.Background(), "a b", "c d")
	assert.ErrorContains(t, err, "dimensions differ")
}

func TestSemanticScorer_LifecycleDelegates(t *testing.T) {
	ctrl := gomock.NewController(t)
	model := mocks.NewMockEmbeddingModel(ctrl)
	model.EXPECT().Load(gomock.Any()).Return(nil)
	model.EXPECT().Close().Return(nil)

	s := NewSemanticScorer(model)
	require.NoError(t, s.Load(context.Background()))
	require.NoError(t, s.Close())
}

func TestHashingEmbedder(t *testing.T) {
	e := NewHashingEmbedder(0)
	ctx := context.Background()
	assert.Equal(t, defaultHashingDimensions, e.Dimensions())

	a, err := e.Embed(ctx, "john doe")
	require.NoError(t, err)
	b, err := e.Embed(ctx, "Doe, John")
	require.NoError(t, err)
	require.Len(t, a, defaultHashingDimensions)
	assert.InDelta(t, 1.0, CosineSimilarity(a, b), 1e-6, "token order and punctuation do not matter")

	near, err := e.Embed(ctx, "jon doe")
	require.NoError(t, err)
	far, err := e.Embed(ctx, "marie curie")
	require.NoError(t, err)
	assert.Greater(t, CosineSimilarity(a, near), CosineSimilarity(a, far))

	empty, err := e.Embed(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 0.0, CosineSimilarity(a, empty))
}

func TestSemanticScorer_WithHashingEmbedder(t *testing.T) {
	s := NewSemanticScorer(NewHashingEmbedder(128))
	require.NoError(t, s.Load(context.Background()))
	defer s.Close()

	same, err := s.Score(context.Background(), "mohammed ali", "ali mohammed")
	require.NoError(t, err)
	variant, err := s.Score(context.Background(), "mohammed ali", "muhammad ali")
	require.NoError(t, err)

	assert.InDelta(t, 1.0, same, 1e-6)
	assert.Less(t, variant, same)
	assert.Greater(t, variant, 0.0)
}
