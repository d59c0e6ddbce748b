package tektonik

// Reset drops the built engine so the next call rebuilds it.
func (h *Host) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.engine = nil
}
