package sensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func group(name, label string, count, rows, cols int) PadGroup {
	return PadGroup{
		Name:        name,
		Label:       label,
		PrimPath:    "/hand/" + name + "_*",
		SensorCount: count,
		Grid:        []int{rows, cols},
		PadSize:     []float64{0.0012, 0.0012, 0.0006},
		Color:       "white",
	}
}

func TestValidate_Valid(t *testing.T) {
	p := Profile{
		Name:          "ok",
		DeclaredTotal: 17,
		NewGroup:      "b_pads",
		Groups: []PadGroup{
			group("a_pads", "a", 8, 2, 4),
			group("b_pads", "b", 9, 3, 3),
		},
	}
	assert.Empty(t, Validate(p))
}

func TestValidate_Violations(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		code    string
	}{
		{
			name:    "no_groups",
			profile: Profile{Name: "empty"},
			code:    ErrCodeNoGroups,
		},
		{
			name: "grid_count",
			profile: Profile{Groups: []PadGroup{
				group("a_pads", "a", 10, 2, 4),
			}},
			code: ErrCodeGridCount,
		},
		{
			name: "grid_shape",
			profile: Profile{Groups: []PadGroup{
				{Name: "a_pads", Label: "a", SensorCount: 8, Grid: []int{8}, PadSize: []float64{1, 1, 1}},
			}},
			code: ErrCodeGridShape,
		},
		{
			name: "pad_size",
			profile: Profile{Groups: []PadGroup{
				{Name: "a_pads", Label: "a", SensorCount: 4, Grid: []int{2, 2}, PadSize: []float64{1, 1}},
			}},
			code: ErrCodePadSize,
		},
		{
			name: "duplicate_name",
			profile: Profile{Groups: []PadGroup{
				group("a_pads", "a", 4, 2, 2),
				group("a_pads", "b", 4, 2, 2),
			}},
			code: ErrCodeDuplicateName,
		},
		{
			name: "duplicate_label",
			profile: Profile{Groups: []PadGroup{
				group("a_pads", "a", 4, 2, 2),
				group("b_pads", "a", 4, 2, 2),
			}},
			code: ErrCodeDuplicateName,
		},
		{
			name: "declared_total",
			profile: Profile{DeclaredTotal: 952, Groups: []PadGroup{
				group("a_pads", "a", 4, 2, 2),
			}},
			code: ErrCodeTotalMismatch,
		},
		{
			name: "new_group",
			profile: Profile{NewGroup: "z_pads", Groups: []PadGroup{
				group("a_pads", "a", 4, 2, 2),
			}},
			code: ErrCodeNewGroup,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.profile)
			require.Len(t, errs, 1, "errors: %v", errs)
			assert.Equal(t, tt.code, errs[0].Code)
		})
	}
}

func TestValidate_CollectsAll(t *testing.T) {
	p := Profile{
		DeclaredTotal: 1,
		Groups: []PadGroup{
			group("a_pads", "a", 5, 2, 2),
			group("a_pads", "a", 4, 2, 2),
		},
	}

	errs := Validate(p)
	codes := make([]string, 0, len(errs))
	for _, e := range errs {
		codes = append(codes, e.Code)
	}
	assert.ElementsMatch(t, []string{
		ErrCodeGridCount,
		ErrCodeDuplicateName,
		ErrCodeDuplicateName,
		ErrCodeTotalMismatch,
	}, codes)
}

func TestValidationError_Error(t *testing.T) {
	e := ValidationError{Field: "groups.a_pads", Message: "bad", Code: "E105"}
	assert.Equal(t, "[E105] groups.a_pads: bad", e.Error())
}
