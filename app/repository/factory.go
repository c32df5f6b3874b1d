package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	store Store
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

func (f *Factory) init() {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
		f.store = NewStore(f.db)
	})
}

// GetRepositories returns repositories bound to the factory's connection, outside any transaction.
// Use GetStore for commands that mutate state.
func (f *Factory) GetRepositories() *Repositories {
	f.init()
	return f.repos
}

// GetStore returns the transactional store
func (f *Factory) GetStore() Store {
	f.init()
	return f.store
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db)
	})
}

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}

// GetGlobalStore returns the transactional store of the global factory
func GetGlobalStore() Store {
	return GetGlobalFactory().GetStore()
}
