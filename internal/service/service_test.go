package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"cerfidoc-gamification/internal/models"
	"cerfidoc-gamification/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestService builds a service over an isolated in-memory SQLite
// database. Redis mirror and worker pool are absent; every service path
// treats them as optional.
func newTestService(t *testing.T) *GamificationService {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	repo := repository.NewPostgresRepository(db)
	require.NoError(t, repo.AutoMigrate())

	svc := NewGamificationService(repo, nil, nil, zerolog.Nop())

	t.Cleanup(func() {
		repo.Close()
	})

	return svc
}

// pinNow freezes the service clock at the given instant.
func pinNow(svc *GamificationService, at time.Time) {
	svc.now = func() time.Time { return at }
}

func createTestUser(t *testing.T, svc *GamificationService, username string) models.User {
	t.Helper()

	users := []models.User{{Username: username, FullName: "Test " + username}}
	require.NoError(t, svc.postgresRepo.CreateUsers(context.Background(), users))
	require.NotZero(t, users[0].ID)
	return users[0]
}

func createTestDocument(t *testing.T, svc *GamificationService, title, code string) models.Document {
	t.Helper()

	docs := []models.Document{{Title: title, VerificationCode: code}}
	require.NoError(t, svc.postgresRepo.CreateDocuments(context.Background(), docs))

	doc, err := svc.postgresRepo.GetDocumentByCode(context.Background(), code)
	require.NoError(t, err)
	return *doc
}
