package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/almonsour13/mango-lens/internal/model"
	"github.com/almonsour13/mango-lens/pkg/apierror"
)

// TreeStore is the slice of the tree repository the tree service needs.
type TreeStore interface {
	Create(ctx context.Context, tree model.Tree) error
	FindByID(ctx context.Context, id string) (model.Tree, error)
	FindByCode(ctx context.Context, userID string, treeCode string) (model.Tree, error)
	ExistsByCode(ctx context.Context, userID string, treeCode string) (bool, error)
	ListActive(ctx context.Context, userID string) ([]model.Tree, error)
	ListAll(ctx context.Context) ([]model.Tree, error)
	SetStatus(ctx context.Context, id string, status int) error
	Delete(ctx context.Context, id string) error
}

var treeCodePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,31}$`)

type TreeService struct {
	trees TreeStore
}

func NewTreeService(trees TreeStore) *TreeService {
	return &TreeService{trees: trees}
}

func (s *TreeService) AddTree(ctx context.Context, userID string, req model.AddTreeRequest) (model.Tree, error) {
	code := strings.TrimSpace(req.TreeCode)
	if code == "" {
		return model.Tree{}, apierror.BadRequest("treeCode is required", "treeCode")
	}
	if !treeCodePattern.MatchString(code) {
		return model.Tree{}, apierror.BadRequest("treeCode must be alphanumeric with - or _", code)
	}

	exists, err := s.trees.ExistsByCode(ctx, userID, code)
	if err != nil {
		return model.Tree{}, err
	}
	if exists {
		return model.Tree{}, apierror.Conflict("tree code already in use", code)
	}

	now := time.Now().UTC()
	tree := model.Tree{
		ID:          uuid.NewString(),
		UserID:      userID,
		TreeCode:    code,
		Description: strings.TrimSpace(req.Description),
		Status:      model.StatusActive,
		AddedAt:     now,
		UpdatedAt:   now,
	}

	if err := s.trees.Create(ctx, tree); err != nil {
		return model.Tree{}, err
	}

	return tree, nil
}

func (s *TreeService) ListTrees(ctx context.Context, userID string) ([]model.Tree, error) {
	return s.trees.ListActive(ctx, userID)
}

func (s *TreeService) GetByCode(ctx context.Context, userID string, treeCode string) (model.Tree, error) {
	code := strings.TrimSpace(treeCode)
	if code == "" {
		return model.Tree{}, apierror.BadRequest("treeCode is required", "treeCode")
	}

	return s.trees.FindByCode(ctx, userID, code)
}

// ListAllTrees serves the admin dashboard; it spans every user.
func (s *TreeService) ListAllTrees(ctx context.Context) ([]model.Tree, error) {
	return s.trees.ListAll(ctx)
}
