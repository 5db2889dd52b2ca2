package importer

import "context"

// URDFExtension is the host extension providing the URDF import commands.
const URDFExtension = "isaacsim.asset.importer.urdf"

// ImportConfig is the import configuration record passed to the host.
type ImportConfig struct {
	MergeFixedJoints    bool    `json:"merge_fixed_joints"`
	ConvexDecomp        bool    `json:"convex_decomp"`
	ImportInertiaTensor bool    `json:"import_inertia_tensor"`
	SelfCollision       bool    `json:"self_collision"`
	CreatePhysicsScene  bool    `json:"create_physics_scene"`
	DistanceScale       float64 `json:"distance_scale"`
}

// DefaultImportConfig returns the fixed configuration used for hand assets:
// joints are kept separate so every pad link survives the import.
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		MergeFixedJoints:    false,
		ConvexDecomp:        false,
		ImportInertiaTensor: true,
		SelfCollision:       false,
		CreatePhysicsScene:  true,
		DistanceScale:       1.0,
	}
}

// Host is a running import host.
type Host interface {
	// Enable loads a host extension.
	Enable(ctx context.Context, extension string) error
	// Import parses the URDF into the host's stage. ok is the host's status.
	Import(ctx context.Context, urdfPath string, cfg ImportConfig) (ok bool, err error)
	// Export writes the host's current stage to usdPath.
	Export(ctx context.Context, usdPath string) error
	// Close tears the host down. Safe to call more than once.
	Close() error
}

// Launcher starts a Host.
type Launcher interface {
	Launch(ctx context.Context) (Host, error)
}

// LauncherFunc adapts a function to the Launcher interface.
type LauncherFunc func(ctx context.Context) (Host, error)

// Launch calls f(ctx).
func (f LauncherFunc) Launch(ctx context.Context) (Host, error) {
	return f(ctx)
}
