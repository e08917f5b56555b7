package event

import (
	"errors"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"github.com/viant/settingsflow/messaging"
	"github.com/viant/settingsflow/messaging/fs"
	"github.com/viant/settingsflow/messaging/memory"
)

// ErrUnsupportedVendor is returned for an unknown queue vendor.
var ErrUnsupportedVendor = errors.New("event: unsupported queue vendor")

// BusName names the queue carrying every dispatched event.
const BusName = "bus"

// Service owns the queue vendor and the ordered bus publisher.
type Service struct {
	bus               *Publisher[any]
	queueVendor       messaging.Vendor
	fs                afs.Service
	fsNewQueueConfig  func(name string) fs.Config
	memNewQueueConfig func(name string) memory.Config
}

func NewService(queueVendor messaging.Vendor, opts ...Option) (*Service, error) {
	ret := &Service{queueVendor: queueVendor}
	for _, opt := range opts {
		opt(ret)
	}
	switch queueVendor {
	case messaging.VendorFs:
		if ret.fs == nil {
			ret.fs = afs.New()
		}
		if ret.fsNewQueueConfig == nil {
			ret.fsNewQueueConfig = func(name string) fs.Config {
				cfg := fs.DefaultConfig()
				cfg.BaseURL = url.Join(cfg.BaseURL, name)
				return cfg
			}
		}
	case messaging.VendorMemory:
		if ret.memNewQueueConfig == nil {
			ret.memNewQueueConfig = func(string) memory.Config { return memory.DefaultConfig() }
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVendor, queueVendor)
	}
	queue, err := QueueOf[Event[any]](ret, BusName)
	if err != nil {
		return nil, err
	}
	ret.bus = NewPublisher[any](queue)
	return ret, nil
}

// Bus returns the publisher every dispatched event goes through.
func (s *Service) Bus() *Publisher[any] {
	return s.bus
}

// Vendor returns the configured queue vendor.
func (s *Service) Vendor() messaging.Vendor {
	return s.queueVendor
}

func QueueOf[T any](s *Service, name string) (messaging.Queue[T], error) {
	switch s.queueVendor {
	case messaging.VendorFs:
		return fs.NewQueue[T](s.fs, s.fsNewQueueConfig(name))
	case messaging.VendorMemory:
		return memory.NewQueue[T](s.memNewQueueConfig(name)), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedVendor, s.queueVendor)
}
