package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"sync"
	"testing"

	"jobboard-service/internal/model"
	"jobboard-service/pkg/config"
	"jobboard-service/pkg/database"
	"jobboard-service/pkg/storage"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(&config.DBConfig{
		Driver:   "sqlite",
		Path:     ":memory:",
		LogLevel: gormlogger.Silent,
	})
	require.NoError(t, err)
	require.NoError(t, database.MigrateModels(db, &model.User{}, &model.Job{}, &model.Application{}))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newTestUserService(db *gorm.DB) *UserService {
	s := NewUserService(db)
	s.bcryptCost = bcrypt.MinCost
	return s
}

func mustRegister(t *testing.T, s *UserService, name, email string, role model.Role) *model.User {
	t.Helper()
	user, err := s.Register(context.Background(), RegisterInput{
		Name:     name,
		Email:    email,
		Phone:    "5550100",
		Password: "pw",
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

func ptr[T any](v T) *T {
	return &v
}

// fakeStore records stored blobs in memory
type fakeStore struct {
	mu        sync.Mutex
	seq       int
	objects   map[string][]byte
	deleted   []string
	storeErr  error
	deleteErr error
	calls     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (f *fakeStore) Store(_ context.Context, blob storage.Blob) (storage.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.storeErr != nil {
		return storage.Object{}, f.storeErr
	}

	data, err := os.ReadFile(blob.Path)
	if err != nil {
		return storage.Object{}, err
	}

	f.seq++
	key := fmt.Sprintf("%s/resume-%d", blob.Folder, f.seq)
	f.objects[key] = data
	return storage.Object{Key: key, URL: "https://files.test/" + key}, nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deleted = append(f.deleted, key)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.objects[key]; !ok {
		return errors.New("no such object")
	}
	delete(f.objects, key)
	return nil
}

// fileHeader builds a real multipart file header holding content
func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("resume", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	return form.File["resume"][0]
}

var (
	pdfContent  = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")
	pngContent  = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
	textContent = []byte("just a plain text resume, which is not accepted")
)
