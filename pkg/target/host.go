package target

// Host is the explicitly registered capability surface of a target process.
// Any nil field is an absent root and enumerates as empty.
type Host struct {
	// Primary is the local-surface exposed object. Its entries are namespace
	// Objects.
	Primary Object
	// Privileged is the remote-surface exposed object.
	Privileged Object
	// HostProcess backs the synthetic "process" namespace of the remote
	// surface.
	HostProcess Object
	// Process is the process-info object of the target itself.
	Process Object

	// CurrentWindow and CurrentContent are called fresh on every enumeration
	// and every dispatch; they are never cached.
	CurrentWindow  func() Object
	CurrentContent func() Object
}

func (h *Host) window() Object {
	if h == nil || h.CurrentWindow == nil {
		return nil
	}
	return h.CurrentWindow()
}

func (h *Host) content() Object {
	if h == nil || h.CurrentContent == nil {
		return nil
	}
	return h.CurrentContent()
}
