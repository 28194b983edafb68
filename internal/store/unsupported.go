package store

// TransactionID names a transaction. Zero is the implicit transaction every
// facade operation runs in.
type TransactionID uint32

// WatchFunc would receive watch events. Watches are not implemented.
type WatchFunc func(path, token string)

// TransactionStart is not implemented and always fails with ErrUnsupported.
func (s *Store) TransactionStart(domid uint32) (TransactionID, error) {
	return 0, ErrUnsupported
}

// TransactionEnd is not implemented and always fails with ErrUnsupported.
func (s *Store) TransactionEnd(domid uint32, tx TransactionID, commit bool) error {
	return ErrUnsupported
}

// Watch is not implemented and always fails with ErrUnsupported.
func (s *Store) Watch(domid uint32, path, token string, fn WatchFunc) error {
	return ErrUnsupported
}

// Unwatch is not implemented and always fails with ErrUnsupported.
func (s *Store) Unwatch(domid uint32, path, token string) error {
	return ErrUnsupported
}

// ResetWatches is not implemented and always fails with ErrUnsupported.
func (s *Store) ResetWatches(domid uint32) error {
	return ErrUnsupported
}

// GetPerms is not implemented and always fails with ErrUnsupported.
func (s *Store) GetPerms(domid uint32, path string) ([]string, error) {
	return nil, ErrUnsupported
}

// SetPerms is not implemented and always fails with ErrUnsupported.
func (s *Store) SetPerms(domid uint32, path string, perms []string) error {
	return ErrUnsupported
}
