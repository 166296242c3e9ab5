package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"backend/internal/app/ds"
	"backend/internal/app/repository"

	"gorm.io/gorm"
)

// Репозитории в памяти для тестов бизнес-логики без настоящей БД

type memDB struct {
	mu sync.Mutex

	users    map[uint]ds.User
	requests map[uint]ds.Request
	files    map[uint]ds.File

	nextUserID    uint
	nextRequestID uint
	nextFileID    uint
}

func newMemDB() *memDB {
	return &memDB{
		users:         make(map[uint]ds.User),
		requests:      make(map[uint]ds.Request),
		files:         make(map[uint]ds.File),
		nextUserID:    1,
		nextRequestID: 1,
		nextFileID:    1,
	}
}

func newTestRepository() (*repository.Repository, *memDB) {
	db := newMemDB()
	return &repository.Repository{
		User:    &memUserRepo{db: db},
		Request: &memRequestRepo{db: db},
		File:    &memFileRepo{db: db},
	}, db
}

func (db *memDB) addUser(user ds.User) ds.User {
	db.mu.Lock()
	defer db.mu.Unlock()
	user.ID = db.nextUserID
	db.nextUserID++
	db.users[user.ID] = user
	return user
}

func (db *memDB) addRequest(request ds.Request) ds.Request {
	db.mu.Lock()
	defer db.mu.Unlock()
	request.ID = db.nextRequestID
	db.nextRequestID++
	if request.Version == 0 {
		request.Version = 1
	}
	db.requests[request.ID] = request
	return request
}

func (db *memDB) addFile(file ds.File) ds.File {
	db.mu.Lock()
	defer db.mu.Unlock()
	file.ID = db.nextFileID
	db.nextFileID++
	db.files[file.ID] = file
	return file
}

// ============ UserRepository ============

type memUserRepo struct {
	db *memDB
}

func (r *memUserRepo) Create(_ context.Context, user *ds.User) error {
	*user = r.db.addUser(*user)
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uint) (*ds.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	user, ok := r.db.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

func (r *memUserRepo) GetByLogin(_ context.Context, login string) (*ds.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, user := range r.db.users {
		if user.Login == login {
			u := user
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) ExistsByLogin(_ context.Context, login string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, user := range r.db.users {
		if user.Login == login {
			return true, nil
		}
	}
	return false, nil
}

// ============ RequestRepository ============

type memRequestRepo struct {
	db *memDB
}

func (r *memRequestRepo) Create(_ context.Context, request *ds.Request) error {
	*request = r.db.addRequest(*request)
	return nil
}

// GetByID подгружает владельца и файлы, как это делает Preload
func (r *memRequestRepo) GetByID(_ context.Context, id uint) (*ds.Request, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	request, ok := r.db.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	request.User = r.db.users[request.UserID]
	request.Proofs = nil
	for _, file := range r.db.files {
		if file.RequestID == request.ID {
			request.Proofs = append(request.Proofs, file)
		}
	}
	sort.Slice(request.Proofs, func(i, j int) bool {
		return request.Proofs[i].ID < request.Proofs[j].ID
	})
	return &request, nil
}

func (r *memRequestRepo) Save(_ context.Context, request *ds.Request) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored := *request
	stored.User = ds.User{}
	stored.Proofs = nil
	r.db.requests[request.ID] = stored
	return nil
}

func (r *memRequestRepo) UpdateFinishDate(_ context.Context, id uint, version int, finish time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	request, ok := r.db.requests[id]
	if !ok || request.Version != version {
		return repository.ErrOptimisticLock
	}
	request.FinishedSkipping = finish
	request.Version = version + 1
	r.db.requests[id] = request
	return nil
}

func (r *memRequestRepo) ListByUser(_ context.Context, userID uint) ([]ds.Request, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var requests []ds.Request
	for _, request := range r.db.requests {
		if request.UserID == userID {
			request.User = r.db.users[request.UserID]
			requests = append(requests, request)
		}
	}
	sortByCreatedAtDesc(requests)
	return requests, nil
}

func (r *memRequestRepo) ListAll(_ context.Context) ([]ds.Request, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var requests []ds.Request
	for _, request := range r.db.requests {
		request.User = r.db.users[request.UserID]
		requests = append(requests, request)
	}
	sortByCreatedAtDesc(requests)
	return requests, nil
}

func sortByCreatedAtDesc(requests []ds.Request) {
	sort.Slice(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
}

// ============ FileRepository ============

type memFileRepo struct {
	db *memDB
}

func (r *memFileRepo) Create(_ context.Context, file *ds.File) error {
	*file = r.db.addFile(*file)
	return nil
}

func (r *memFileRepo) GetByID(_ context.Context, id uint) (*ds.File, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	file, ok := r.db.files[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &file, nil
}

func (r *memFileRepo) DeleteFromRequest(_ context.Context, fileID, requestID uint) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	file, ok := r.db.files[fileID]
	if !ok || file.RequestID != requestID {
		return gorm.ErrRecordNotFound
	}
	delete(r.db.files, fileID)
	return nil
}
