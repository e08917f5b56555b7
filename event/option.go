package event

import (
	"github.com/viant/afs"
	"github.com/viant/settingsflow/messaging/fs"
	"github.com/viant/settingsflow/messaging/memory"
)

type Option func(s *Service)

// WithFsQueueConfig sets the file system queue configuration
func WithFsQueueConfig(newConfig func(name string) fs.Config) Option {
	return func(s *Service) {
		s.fsNewQueueConfig = newConfig
	}
}

// WithMemoryQueueConfig sets the memory queue configuration
func WithMemoryQueueConfig(newConfig func(name string) memory.Config) Option {
	return func(s *Service) {
		s.memNewQueueConfig = newConfig
	}
}

// WithFileSystem sets the afs service used by the fs vendor
func WithFileSystem(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}
