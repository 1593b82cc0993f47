package reports

import (
	"context"
	"errors"
	"sync"

	"fundry/database"
	"fundry/models"

	"github.com/google/uuid"
)

// fakeStore is an in-memory Store for unit tests. It counts every call
// so tests can assert on lookup deduplication and on "no store calls"
// guarantees. Error injection per collection simulates upstream
// failures.
type fakeStore struct {
	mu sync.Mutex

	projects map[uuid.UUID]models.Project
	entries  map[uuid.UUID][]models.FundingEntry
	folders  map[uuid.UUID][]models.Folder
	files    map[uuid.UUID][]models.File
	reviews  []models.Review
	users    map[uuid.UUID]models.User

	totalCalls  int
	userLookups int

	failEntries bool
	failFolders bool
}

var errUpstream = errors.New("connection reset")

func newFakeStore() *fakeStore {
	return &fakeStore{
		projects: map[uuid.UUID]models.Project{},
		entries:  map[uuid.UUID][]models.FundingEntry{},
		folders:  map[uuid.UUID][]models.Folder{},
		files:    map[uuid.UUID][]models.File{},
		users:    map[uuid.UUID]models.User{},
	}
}

func (s *fakeStore) count() {
	s.mu.Lock()
	s.totalCalls++
	s.mu.Unlock()
}

func (s *fakeStore) ListProjectsByUser(_ context.Context, userID uuid.UUID, projectIDs []uuid.UUID) ([]models.Project, error) {
	s.count()
	allowed := map[uuid.UUID]bool{}
	for _, id := range projectIDs {
		allowed[id] = true
	}

	result := []models.Project{}
	for _, p := range s.projects {
		if p.UserID != userID {
			continue
		}
		if len(projectIDs) > 0 && !allowed[p.ID] {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

func (s *fakeStore) ListFundingEntries(_ context.Context, projectID uuid.UUID) ([]models.FundingEntry, error) {
	s.count()
	if s.failEntries {
		return nil, errUpstream
	}
	return s.entries[projectID], nil
}

func (s *fakeStore) ListFolders(_ context.Context, projectID uuid.UUID) ([]models.Folder, error) {
	s.count()
	if s.failFolders {
		return nil, errUpstream
	}
	return s.folders[projectID], nil
}

func (s *fakeStore) ListFiles(_ context.Context, folderID uuid.UUID) ([]models.File, error) {
	s.count()
	return s.files[folderID], nil
}

func (s *fakeStore) ListReviewsByReviewer(_ context.Context, reviewerID uuid.UUID) ([]models.Review, error) {
	s.count()
	result := []models.Review{}
	for _, r := range s.reviews {
		if r.ReviewerID == reviewerID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (s *fakeStore) GetProject(_ context.Context, projectID uuid.UUID) (*models.Project, error) {
	s.count()
	p, ok := s.projects[projectID]
	if !ok {
		return nil, database.ErrProjectNotFound
	}
	return &p, nil
}

func (s *fakeStore) GetUser(_ context.Context, userID uuid.UUID) (*models.User, error) {
	s.count()
	s.mu.Lock()
	s.userLookups++
	s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, database.ErrUserNotFound
	}
	return &u, nil
}

// Fixture helpers

func (s *fakeStore) addUser(name string) uuid.UUID {
	id := uuid.New()
	s.users[id] = models.User{ID: id, Name: name, Role: models.RoleResearcher}
	return id
}

func (s *fakeStore) addProject(userID uuid.UUID, title string) uuid.UUID {
	id := uuid.New()
	s.projects[id] = models.Project{
		ID:     id,
		UserID: userID,
		Title:  title,
		Status: "active",
	}
	return id
}
