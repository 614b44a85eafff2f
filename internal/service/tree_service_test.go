package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/almonsour13/mango-lens/internal/model"
)

func TestTreeService_AddTree(t *testing.T) {
	t.Run("creates an active tree", func(t *testing.T) {
		treeStore := new(MockTreeStore)
		svc := NewTreeService(treeStore)

		treeStore.On("ExistsByCode", mock.Anything, "user-1", "M-01").Return(false, nil)
		treeStore.On("Create", mock.Anything, mock.MatchedBy(func(tree model.Tree) bool {
			return tree.UserID == "user-1" && tree.TreeCode == "M-01" && tree.Status == model.StatusActive
		})).Return(nil)

		tree, err := svc.AddTree(context.Background(), "user-1", model.AddTreeRequest{
			TreeCode:    " M-01 ",
			Description: "north orchard, row 3",
		})

		assert.NoError(t, err)
		assert.Equal(t, "M-01", tree.TreeCode)
		assert.NotEmpty(t, tree.ID)
		treeStore.AssertExpectations(t)
	})

	t.Run("tree codes are unique per user", func(t *testing.T) {
		treeStore := new(MockTreeStore)
		svc := NewTreeService(treeStore)

		treeStore.On("ExistsByCode", mock.Anything, "user-1", "M-01").Return(true, nil)

		_, err := svc.AddTree(context.Background(), "user-1", model.AddTreeRequest{TreeCode: "M-01"})

		assert.Error(t, err)
		treeStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects malformed codes", func(t *testing.T) {
		svc := NewTreeService(new(MockTreeStore))

		for _, code := range []string{"", "-leading-dash", "has spaces", "way-too-long-code-that-exceeds-the-thirty-two-limit"} {
			_, err := svc.AddTree(context.Background(), "user-1", model.AddTreeRequest{TreeCode: code})
			assert.Error(t, err, "code %q", code)
		}
	})
}

func TestTreeService_GetByCode(t *testing.T) {
	treeStore := new(MockTreeStore)
	svc := NewTreeService(treeStore)

	treeStore.On("FindByCode", mock.Anything, "user-1", "M-01").
		Return(model.Tree{ID: "tree-1", TreeCode: "M-01"}, nil)

	tree, err := svc.GetByCode(context.Background(), "user-1", "M-01")

	assert.NoError(t, err)
	assert.Equal(t, "tree-1", tree.ID)
}
