package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/almonsour13/mango-lens/internal/model"
	"github.com/almonsour13/mango-lens/internal/repository"
)

type MockTreeStore struct {
	mock.Mock
}

func (m *MockTreeStore) Create(ctx context.Context, tree model.Tree) error {
	return m.Called(ctx, tree).Error(0)
}

func (m *MockTreeStore) FindByID(ctx context.Context, id string) (model.Tree, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Tree), args.Error(1)
}

func (m *MockTreeStore) FindByCode(ctx context.Context, userID string, treeCode string) (model.Tree, error) {
	args := m.Called(ctx, userID, treeCode)
	return args.Get(0).(model.Tree), args.Error(1)
}

func (m *MockTreeStore) ExistsByCode(ctx context.Context, userID string, treeCode string) (bool, error) {
	args := m.Called(ctx, userID, treeCode)
	return args.Bool(0), args.Error(1)
}

func (m *MockTreeStore) ListActive(ctx context.Context, userID string) ([]model.Tree, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.Tree), args.Error(1)
}

func (m *MockTreeStore) ListAll(ctx context.Context) ([]model.Tree, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Tree), args.Error(1)
}

func (m *MockTreeStore) SetStatus(ctx context.Context, id string, status int) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockTreeStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) FindByID(ctx context.Context, id string) (model.Image, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Image), args.Error(1)
}

func (m *MockImageStore) FindByPendingID(ctx context.Context, pendingID string) (model.Image, error) {
	args := m.Called(ctx, pendingID)
	return args.Get(0).(model.Image), args.Error(1)
}

func (m *MockImageStore) ListActive(ctx context.Context, userID string) ([]model.ImageDetails, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.ImageDetails), args.Error(1)
}

func (m *MockImageStore) SetStatus(ctx context.Context, id string, status int) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockImageStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockScanStore struct {
	mock.Mock
}

func (m *MockScanStore) Save(ctx context.Context, scan repository.SavedScan) (string, error) {
	args := m.Called(ctx, scan)
	return args.String(0), args.Error(1)
}

func (m *MockScanStore) FindAnalysisByImage(ctx context.Context, imageID string) (model.Analysis, error) {
	args := m.Called(ctx, imageID)
	return args.Get(0).(model.Analysis), args.Error(1)
}

func (m *MockScanStore) ListDetectedDiseases(ctx context.Context, analysisID string) ([]model.DetectedDisease, error) {
	args := m.Called(ctx, analysisID)
	return args.Get(0).([]model.DetectedDisease), args.Error(1)
}

func (m *MockScanStore) FindAnalyzedImage(ctx context.Context, analysisID string) ([]byte, string, error) {
	args := m.Called(ctx, analysisID)
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

type MockTrashStore struct {
	mock.Mock
}

func (m *MockTrashStore) Create(ctx context.Context, entry model.TrashEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockTrashStore) FindByID(ctx context.Context, trashID string) (model.TrashEntry, error) {
	args := m.Called(ctx, trashID)
	return args.Get(0).(model.TrashEntry), args.Error(1)
}

func (m *MockTrashStore) FindByItem(ctx context.Context, itemType int, itemID string) (model.TrashEntry, error) {
	args := m.Called(ctx, itemType, itemID)
	return args.Get(0).(model.TrashEntry), args.Error(1)
}

func (m *MockTrashStore) List(ctx context.Context, userID string) ([]model.TrashEntry, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.TrashEntry), args.Error(1)
}

func (m *MockTrashStore) Delete(ctx context.Context, trashID string) error {
	return m.Called(ctx, trashID).Error(0)
}

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) FindByID(ctx context.Context, id string) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) Create(ctx context.Context, u model.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserStore) UpdateProfile(ctx context.Context, u model.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserStore) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	return m.Called(ctx, userID, passwordHash).Error(0)
}

func (m *MockUserStore) List(ctx context.Context) ([]model.AuthUser, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.AuthUser), args.Error(1)
}

type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) Store(ctx context.Context, token string, userID string, expiresAt time.Time) error {
	return m.Called(ctx, token, userID, expiresAt).Error(0)
}

func (m *MockTokenStore) Validate(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func (m *MockTokenStore) Revoke(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockTokenStore) RevokeAllForUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}
