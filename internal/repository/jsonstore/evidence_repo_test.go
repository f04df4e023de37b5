package jsonstore

import (
	"context"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"

	"github.com/harmwatch/server/internal/model"
)

func TestEvidenceRepo_ListByCase(t *testing.T) {
	r := NewEvidenceRepo(newStore(t))
	ctx := context.Background()

	caseA := uuid.Must(uuid.NewV4())
	caseB := uuid.Must(uuid.NewV4())

	e1 := model.Evidence{ID: uuid.Must(uuid.NewV4()), CaseID: caseA, Content: "log excerpt"}
	e2 := model.Evidence{ID: uuid.Must(uuid.NewV4()), CaseID: caseB, Link: "https://example.com/report"}
	e3 := model.Evidence{ID: uuid.Must(uuid.NewV4()), CaseID: caseA, Content: "screenshot"}
	for _, e := range []model.Evidence{e1, e2, e3} {
		require.NoError(t, r.Create(ctx, &e))
	}

	got, err := r.ListByCase(ctx, caseA)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, e1.ID, got[0].ID)
	require.Equal(t, e3.ID, got[1].ID)

	n, err := r.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	// Unknown case yields an empty, non-nil slice.
	none, err := r.ListByCase(ctx, uuid.Must(uuid.NewV4()))
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)
}
