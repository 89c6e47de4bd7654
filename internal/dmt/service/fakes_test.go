package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bitfantasy/dmt/internal/dmt/entity"
	"github.com/bitfantasy/dmt/internal/dmt/repository"
)

// fakeRecordStore 内存版RecordStore
type fakeRecordStore struct {
	nextID     int
	records    map[int]entity.DMTRecord
	lastFilter repository.ListFilter
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{nextID: 1, records: map[int]entity.DMTRecord{}}
}

func (s *fakeRecordStore) Create(ctx context.Context, rec *entity.DMTRecord) error {
	rec.ID = s.nextID
	s.nextID++
	s.records[rec.ID] = *rec
	return nil
}

func (s *fakeRecordStore) FindByID(ctx context.Context, id int) (*entity.DMTRecord, error) {
	rec, ok := s.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rec, nil
}

func (s *fakeRecordStore) FindAll(ctx context.Context, f repository.ListFilter) ([]entity.DMTRecord, error) {
	s.lastFilter = f

	var out []entity.DMTRecord
	for _, rec := range s.records {
		if f.IsClosed != nil && rec.IsClosed != *f.IsClosed {
			continue
		}
		if f.CreatedByID != nil && rec.CreatedByID != *f.CreatedByID {
			continue
		}
		if f.PartNumberID != nil && (rec.PartNumberID == nil || *rec.PartNumberID != *f.PartNumberID) {
			continue
		}
		// 日期界限为闭区间
		if f.CreatedAfter != nil && rec.CreatedAt.Before(*f.CreatedAfter) {
			continue
		}
		if f.CreatedBefore != nil && rec.CreatedAt.After(*f.CreatedBefore) {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if f.Skip > 0 {
		if f.Skip > len(out) {
			return nil, nil
		}
		out = out[f.Skip:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *fakeRecordStore) Save(ctx context.Context, rec *entity.DMTRecord) error {
	if _, ok := s.records[rec.ID]; !ok {
		return repository.ErrNotFound
	}
	s.records[rec.ID] = *rec
	return nil
}

func (s *fakeRecordStore) Delete(ctx context.Context, id int) error {
	if _, ok := s.records[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

// fakeSequence 递增序号分配器
type fakeSequence struct {
	n int
}

func (s *fakeSequence) Next(ctx context.Context, day time.Time) (string, error) {
	s.n++
	return fmt.Sprintf("DMT-%s-%04d", day.Format("20060102"), s.n), nil
}

// fakeUserStore 内存版UserStore
type fakeUserStore struct {
	nextID int
	users  map[int]entity.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, users: map[int]entity.User{}}
}

func (s *fakeUserStore) Create(ctx context.Context, user *entity.User) error {
	user.ID = s.nextID
	s.nextID++
	s.users[user.ID] = *user
	return nil
}

func (s *fakeUserStore) FindByID(ctx context.Context, id int) (*entity.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (s *fakeUserStore) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeUserStore) FindAll(ctx context.Context, role entity.Role) ([]entity.User, error) {
	var out []entity.User
	for _, u := range s.users {
		if role != "" && u.Role != role {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (s *fakeUserStore) Update(ctx context.Context, user *entity.User) error {
	if _, ok := s.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	s.users[user.ID] = *user
	return nil
}

func (s *fakeUserStore) Delete(ctx context.Context, id int) error {
	if _, ok := s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

// fakeCatalogStore 内存版CatalogStore，按目录类型分桶
type fakeCatalogStore struct {
	nextID  int
	entries map[entity.CatalogKind]map[int]entity.CatalogEntry
}

func newFakeCatalogStore() *fakeCatalogStore {
	return &fakeCatalogStore{nextID: 1, entries: map[entity.CatalogKind]map[int]entity.CatalogEntry{}}
}

func (s *fakeCatalogStore) bucket(kind entity.CatalogKind) map[int]entity.CatalogEntry {
	b, ok := s.entries[kind]
	if !ok {
		b = map[int]entity.CatalogEntry{}
		s.entries[kind] = b
	}
	return b
}

func (s *fakeCatalogStore) Create(ctx context.Context, kind entity.CatalogKind, e *entity.CatalogEntry) error {
	e.ID = s.nextID
	s.nextID++
	s.bucket(kind)[e.ID] = *e
	return nil
}

func (s *fakeCatalogStore) FindByID(ctx context.Context, kind entity.CatalogKind, id int) (*entity.CatalogEntry, error) {
	e, ok := s.bucket(kind)[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (s *fakeCatalogStore) FindByItemNumber(ctx context.Context, kind entity.CatalogKind, number string) (*entity.CatalogEntry, error) {
	for _, e := range s.bucket(kind) {
		if strings.EqualFold(e.ItemNumber, number) {
			e := e
			return &e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeCatalogStore) FindAll(ctx context.Context, kind entity.CatalogKind, skip, limit int) ([]entity.CatalogEntry, error) {
	var out []entity.CatalogEntry
	for _, e := range s.bucket(kind) {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemNumber < out[j].ItemNumber })
	if skip > len(out) {
		skip = len(out)
	}
	out = out[skip:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeCatalogStore) Update(ctx context.Context, kind entity.CatalogKind, e *entity.CatalogEntry) error {
	if _, ok := s.bucket(kind)[e.ID]; !ok {
		return repository.ErrNotFound
	}
	s.bucket(kind)[e.ID] = *e
	return nil
}

func (s *fakeCatalogStore) Delete(ctx context.Context, kind entity.CatalogKind, id int) error {
	if _, ok := s.bucket(kind)[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.bucket(kind), id)
	return nil
}
