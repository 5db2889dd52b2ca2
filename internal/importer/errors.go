package importer

import (
	"errors"
	"fmt"
)

// ErrNoHost is returned by launchers that have no host command configured.
var ErrNoHost = errors.New("no import host configured")

// MissingInputError means the URDF input does not exist. It is raised
// before any host is launched.
type MissingInputError struct {
	Path string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("source URDF not found: %s", e.Path)
}

// ImportFailureError means the host reported a non-success import status.
type ImportFailureError struct {
	URDFPath string
}

func (e *ImportFailureError) Error() string {
	return fmt.Sprintf("failed to import URDF: %s", e.URDFPath)
}

// HostError is an error reported by the host itself over the bridge.
type HostError struct {
	Op      string
	Message string
}

func (e *HostError) Error() string {
	return fmt.Sprintf("host %s: %s", e.Op, e.Message)
}
