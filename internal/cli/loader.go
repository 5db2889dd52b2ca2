package cli

import (
	"errors"
	"fmt"

	"github.com/roach88/padconv/internal/importer"
	"github.com/roach88/padconv/internal/sensor"
)

// Error codes reported by the CLI. Profile load and validation errors
// carry the sensor package codes (E003-E006, E1xx) unchanged.
const (
	ErrCodeGeneric        = "E001" // Generic/unknown error
	ErrCodeMissingInput   = "E010" // Source URDF not found
	ErrCodeImportFailed   = "E011" // Host rejected the import
	ErrCodeHost           = "E012" // Host could not be launched or reported an error
	ErrCodeProfileInvalid = "E020" // Profile catalog could not be built
	ErrCodeUnknownProfile = "E021" // Requested profile not in catalog
	ErrCodeLedger         = "E030" // Run ledger unavailable
	ErrCodeRunNotFound    = "E031" // Run ID not in ledger
)

// loadCatalog returns the built-in profiles, merged with the profiles in
// dir when dir is set.
func loadCatalog(dir string) (*sensor.Catalog, error) {
	catalog, err := sensor.Builtin()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return catalog, nil
	}
	user, err := sensor.LoadDir(dir)
	if err != nil {
		return nil, err
	}
	return catalog.Merge(user), nil
}

// loadProfile resolves name against the catalog built from dir.
func loadProfile(dir, name string) (sensor.Profile, *CLIError) {
	catalog, err := loadCatalog(dir)
	if err != nil {
		return sensor.Profile{}, profileLoadError(err)
	}
	p, err := catalog.Get(name)
	if err != nil {
		return sensor.Profile{}, &CLIError{Code: ErrCodeUnknownProfile, Message: err.Error()}
	}
	return p, nil
}

func profileLoadError(err error) *CLIError {
	var pErr *sensor.ProfileError
	if errors.As(err, &pErr) {
		details := map[string]any{}
		if pErr.Profile != "" {
			details["profile"] = pErr.Profile
		}
		if pErr.Pos.IsValid() {
			details["file"] = pErr.Pos.Filename()
			details["line"] = pErr.Pos.Line()
		}
		if len(details) == 0 {
			return &CLIError{Code: pErr.Code, Message: pErr.Error()}
		}
		return &CLIError{Code: pErr.Code, Message: pErr.Error(), Details: details}
	}
	return &CLIError{Code: ErrCodeProfileInvalid, Message: fmt.Sprintf("loading profiles: %v", err)}
}

// runErrorCode maps a run failure to its CLI error code.
func runErrorCode(err error) string {
	var missing *importer.MissingInputError
	var failure *importer.ImportFailureError
	var hostErr *importer.HostError
	switch {
	case errors.As(err, &missing):
		return ErrCodeMissingInput
	case errors.As(err, &failure):
		return ErrCodeImportFailed
	case errors.As(err, &hostErr), errors.Is(err, importer.ErrNoHost):
		return ErrCodeHost
	default:
		return ErrCodeGeneric
	}
}
