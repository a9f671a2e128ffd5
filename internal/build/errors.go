package build

import (
	"errors"

	"github.com/Faultbox/spritemesh/internal/collider"
	"github.com/Faultbox/spritemesh/internal/mesh"
	"github.com/Faultbox/spritemesh/internal/outline"
	"github.com/Faultbox/spritemesh/internal/triangulate"
)

// Build errors.
var (
	ErrInvalidConfig    = errors.New("invalid build config")
	ErrNoGeometryFound  = errors.New("no pixels pass the alpha threshold")
	ErrSourceUnreadable = errors.New("source image unreadable")
)

// ErrorKind classifies a failed rebuild for the caller.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindInvalidConfig
	KindNoGeometryFound
	KindDegeneratePolygon
	KindColliderDecompositionFailed
	KindSourceUnreadable
	KindInternal
)

var kindNames = [...]string{
	KindNone:                        "none",
	KindInvalidConfig:               "invalid_config",
	KindNoGeometryFound:             "no_geometry_found",
	KindDegeneratePolygon:           "degenerate_polygon",
	KindColliderDecompositionFailed: "collider_decomposition_failed",
	KindSourceUnreadable:            "source_unreadable",
	KindInternal:                    "internal",
}

func (k ErrorKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// KindOf maps an error returned by the pipeline to its ErrorKind.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrInvalidConfig),
		errors.Is(err, outline.ErrThreshold),
		errors.Is(err, mesh.ErrInvalidOptions):
		return KindInvalidConfig
	case errors.Is(err, ErrNoGeometryFound):
		return KindNoGeometryFound
	case errors.Is(err, triangulate.ErrDegeneratePolygon),
		errors.Is(err, mesh.ErrEmptyMesh):
		return KindDegeneratePolygon
	case errors.Is(err, collider.ErrDecompositionFailed):
		return KindColliderDecompositionFailed
	case errors.Is(err, ErrSourceUnreadable):
		return KindSourceUnreadable
	default:
		return KindInternal
	}
}
