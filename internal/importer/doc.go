// Package importer drives an external URDF-to-USD import host.
//
// The host is a narrow capability: enable an extension, parse-and-import a
// URDF file into the host's stage, export that stage to a USD file. The
// host's internals (URDF parsing, physics scene construction, USD
// serialization) are opaque to this package.
//
// # Lifecycle
//
// A Launcher starts a host for one conversion. The Orchestrator checks the
// URDF input before launching, and closes the host on every path after a
// successful launch.
//
// # Bridge protocol
//
// ExecLauncher starts a bridge program inside the simulation host and talks
// to it with one JSON object per line on stdin/stdout:
//
//	-> {"op":"enable","extension":"isaacsim.asset.importer.urdf"}
//	<- {"ok":true}
//	-> {"op":"import","urdf_path":"/a/b.urdf","config":{...}}
//	<- {"ok":true,"status":true}
//	-> {"op":"export","usd_path":"/a/b.usd"}
//	<- {"ok":true}
//	-> {"op":"close"}
//	<- {"ok":true}
//
// "ok":false carries an "error" message and is reported as a HostError.
// For import, "status":false means the host rejected the URDF.
package importer
