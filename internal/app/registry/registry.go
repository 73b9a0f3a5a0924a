// Package registry manages the network singleton and device records:
// bootstrap, device registration, and owner-gated status updates.
package registry

import (
	"time"

	"github.com/gridmesh-network/gridmesh/internal/domain"
	"github.com/gridmesh-network/gridmesh/internal/infra/metrics"
	"github.com/gridmesh-network/gridmesh/internal/infra/sqlite"
)

// Service performs registration operations against the entity store.
type Service struct {
	db *sqlite.DB

	// Injectable clock
	now func() time.Time
}

// NewService creates a registry service.
func NewService(db *sqlite.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// Initialize creates the network singleton. Fails if it already exists.
func (s *Service) Initialize(authority string) (*domain.NetworkState, error) {
	ns := domain.NetworkState{
		Authority: authority,
		CreatedAt: s.now(),
	}

	err := s.db.Update(func(tx *sqlite.Tx) error {
		existing, err := tx.GetNetwork()
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrNetworkExists
		}
		return tx.InsertNetwork(ns)
	})
	if err != nil {
		return nil, err
	}
	return &ns, nil
}

// RegisterDevice creates a device record with reputation 100, tier Bronze
// and zero stake, and bumps the network device count.
func (s *Service) RegisterDevice(deviceID, owner string, specs domain.DeviceSpecs) (*domain.Device, error) {
	now := s.now()
	dev := domain.Device{
		ID:              deviceID,
		Owner:           owner,
		Specs:           specs,
		IsActive:        true,
		ReputationScore: domain.InitialReputation,
		LastActive:      now,
		Tier:            domain.TierBronze,
	}

	err := s.db.Update(func(tx *sqlite.Tx) error {
		ns, err := tx.GetNetwork()
		if err != nil {
			return err
		}
		if ns == nil {
			return domain.ErrNetworkNotInitialized
		}

		existing, err := tx.GetDevice(deviceID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDeviceExists
		}

		if err := tx.InsertDevice(dev); err != nil {
			return err
		}

		ns.TotalDevices++
		return tx.UpdateNetwork(*ns)
	})
	if err != nil {
		return nil, err
	}

	metrics.DevicesRegistered.Inc()
	return &dev, nil
}

// UpdateDeviceStatus sets the active flag and current load. The caller
// identity must match the device's owner.
func (s *Service) UpdateDeviceStatus(deviceID, owner string, isActive bool, currentLoad uint8) (*domain.Device, error) {
	var updated domain.Device
	err := s.db.Update(func(tx *sqlite.Tx) error {
		dev, err := tx.GetDevice(deviceID)
		if err != nil {
			return err
		}
		if dev == nil {
			return domain.ErrDeviceNotFound
		}
		if dev.Owner != owner {
			return domain.ErrNotDeviceOwner
		}

		dev.IsActive = isActive
		dev.CurrentLoad = currentLoad
		dev.LastActive = s.now()

		updated = *dev
		return tx.UpdateDevice(*dev)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Network returns the network singleton, or ErrNetworkNotInitialized.
func (s *Service) Network() (*domain.NetworkState, error) {
	ns, err := s.db.Network()
	if err != nil {
		return nil, err
	}
	if ns == nil {
		return nil, domain.ErrNetworkNotInitialized
	}
	return ns, nil
}

// Device returns a device record, or ErrDeviceNotFound.
func (s *Service) Device(id string) (*domain.Device, error) {
	dev, err := s.db.Device(id)
	if err != nil {
		return nil, err
	}
	if dev == nil {
		return nil, domain.ErrDeviceNotFound
	}
	return dev, nil
}

// ListDevices returns all registered devices.
func (s *Service) ListDevices() ([]domain.Device, error) {
	return s.db.ListDevices()
}
