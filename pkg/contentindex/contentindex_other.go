//go:build !darwin

package contentindex

// FindDSYM always misses: no content index is available on this platform.
func (s *Spotlight) FindDSYM(id [16]byte) (string, string, bool, error) {
	log.Trace("No content index on this platform")
	return "", "", false, nil
}
