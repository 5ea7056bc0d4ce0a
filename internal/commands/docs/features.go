package docscmd

// FeatureGates exposes the runtime feature toggles command handlers honour.
// Callers supply closures reading the module configuration so handlers stay
// decoupled from it. A nil gate counts as enabled.
type FeatureGates struct {
	RendererEnabled func() bool
	ImporterEnabled func() bool
}

func (g FeatureGates) rendererEnabled() bool {
	if g.RendererEnabled == nil {
		return true
	}
	return g.RendererEnabled()
}

func (g FeatureGates) importerEnabled() bool {
	if g.ImporterEnabled == nil {
		return true
	}
	return g.ImporterEnabled()
}
