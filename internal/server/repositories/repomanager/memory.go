package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/devconnector/internal/dbx"
	"github.com/dmitrijs2005/devconnector/internal/server/repositories/users"
)

// MemoryRepositoryManager serves one process-wide in-memory store and
// ignores the DBTX it is handed.
type MemoryRepositoryManager struct {
	users *users.MemoryRepository
}

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return m.users
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func NewMemoryRepositoryManager() RepositoryManager {
	return &MemoryRepositoryManager{users: users.NewMemoryRepository()}
}
