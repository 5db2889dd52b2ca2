package sensor

import "fmt"

// Error codes for profile loading and validation.
const (
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // profiles directory not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeNoFiles     = "E003" // no CUE files in directory
	ErrCodeSchema      = "E100" // value does not satisfy schema.cue
	ErrCodeNoProfiles  = "E101" // no profile declared

	ErrCodeNoGroups      = "E102" // profile has no groups
	ErrCodeDuplicateName = "E103" // duplicate group name or summary label
	ErrCodeGridShape     = "E104" // grid is not [rows, cols]
	ErrCodeGridCount     = "E105" // rows x cols != sensor_count
	ErrCodePadSize       = "E106" // pad_size is not [w, d, h]
	ErrCodeTotalMismatch = "E107" // declared_total != sum of sensor_count
	ErrCodeNewGroup      = "E108" // new_group names no group
)

// ValidationError is a single invariant violation in a profile.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks the profile invariants. It returns every violation found
// rather than stopping at the first.
func Validate(p Profile) []ValidationError {
	var errs []ValidationError

	if len(p.Groups) == 0 {
		return append(errs, ValidationError{
			Field:   "groups",
			Message: "at least one group is required",
			Code:    ErrCodeNoGroups,
		})
	}

	names := make(map[string]bool, len(p.Groups))
	labels := make(map[string]bool, len(p.Groups))
	for i, g := range p.Groups {
		field := fmt.Sprintf("groups[%d]", i)
		if g.Name != "" {
			field = "groups." + g.Name
		}

		if names[g.Name] {
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("duplicate group name %q", g.Name), Code: ErrCodeDuplicateName})
		}
		names[g.Name] = true
		if labels[g.Label] {
			errs = append(errs, ValidationError{Field: field + ".label", Message: fmt.Sprintf("duplicate summary label %q", g.Label), Code: ErrCodeDuplicateName})
		}
		labels[g.Label] = true

		if len(g.Grid) != 2 {
			errs = append(errs, ValidationError{Field: field + ".grid", Message: fmt.Sprintf("grid must be [rows, cols], got %d values", len(g.Grid)), Code: ErrCodeGridShape})
		} else if g.Grid[0]*g.Grid[1] != g.SensorCount {
			errs = append(errs, ValidationError{
				Field:   field + ".sensor_count",
				Message: fmt.Sprintf("grid %dx%d holds %d pads, sensor_count is %d", g.Grid[0], g.Grid[1], g.Grid[0]*g.Grid[1], g.SensorCount),
				Code:    ErrCodeGridCount,
			})
		}

		if len(g.PadSize) != 3 {
			errs = append(errs, ValidationError{Field: field + ".pad_size", Message: fmt.Sprintf("pad_size must be [width, depth, height], got %d values", len(g.PadSize)), Code: ErrCodePadSize})
		}
	}

	if p.NewGroup != "" && !names[p.NewGroup] {
		errs = append(errs, ValidationError{Field: "new_group", Message: fmt.Sprintf("no group named %q", p.NewGroup), Code: ErrCodeNewGroup})
	}

	if p.DeclaredTotal != 0 && p.DeclaredTotal != p.TotalPads() {
		errs = append(errs, ValidationError{
			Field:   "declared_total",
			Message: fmt.Sprintf("declared %d pads, groups sum to %d", p.DeclaredTotal, p.TotalPads()),
			Code:    ErrCodeTotalMismatch,
		})
	}

	return errs
}
