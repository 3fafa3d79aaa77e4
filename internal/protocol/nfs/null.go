package nfs

// Null does nothing. This is used to test connectivity.
// RFC 1813 Section 3.3.0
func (h *DefaultNFSHandler) Null() ([]byte, error) {
	return []byte{}, nil
}
