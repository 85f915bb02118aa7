package concentration

//go:generate mockgen -destination=mock/mock_surfaces.go -package=mockconcentration -source=surfaces.go

// SurfaceRemover releases area effects owned outside the engine
type SurfaceRemover interface {
	RemoveSurfaceByID(surfaceID string) bool
	RemoveSurfacesByCreator(creatorID string) int
}

// SurfaceFuncs adapts plain functions to SurfaceRemover. Nil functions are skipped.
type SurfaceFuncs struct {
	ByID      func(surfaceID string) bool
	ByCreator func(creatorID string) int
}

func (f SurfaceFuncs) RemoveSurfaceByID(surfaceID string) bool {
	if f.ByID == nil {
		return false
	}
	return f.ByID(surfaceID)
}

func (f SurfaceFuncs) RemoveSurfacesByCreator(creatorID string) int {
	if f.ByCreator == nil {
		return 0
	}
	return f.ByCreator(creatorID)
}
