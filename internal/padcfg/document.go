// Package padcfg renders the contact-sensor configuration that accompanies
// an exported hand asset.
//
// The document is built as a yaml.Node tree from a sensor.Profile and then
// serialized, so the totals block is always derived from the groups it
// summarizes.
package padcfg

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/padconv/internal/sensor"
)

// TimestampLayout is the layout of the "Creation date" header line.
const TimestampLayout = "2006-01-02 15:04:05"

const timestampPrefix = "# Creation date: "

// ClassType is the asset class declared for the hand.
const ClassType = "RigidObject"

// Meta is the generation metadata written to the header.
type Meta struct {
	SourceName  string    // URDF file name the USD was produced from
	GeneratedAt time.Time // local time is used as-is
}

// Header returns the comment block that precedes the document.
func Header(p sensor.Profile, meta Meta) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Isaac Lab Asset Configuration - %s\n", p.Title)
	fmt.Fprintf(&b, "# Generated from: %s\n", meta.SourceName)
	fmt.Fprintf(&b, "%s%s\n", timestampPrefix, meta.GeneratedAt.Format(TimestampLayout))
	fmt.Fprintf(&b, "# Total contact points: %d across %d sensors\n", p.TotalPads(), len(p.Groups))
	if p.NewGroup != "" {
		fmt.Fprintf(&b, "# New sensor group: %s\n", p.NewGroup)
	}
	return b.String()
}

// Build returns the document tree for p.
func Build(p sensor.Profile, usdPath string) *yaml.Node {
	sensors := mapping()
	for _, g := range p.Groups {
		sensors.Content = append(sensors.Content, key(g.Name), groupNode(g))
	}

	totals := mapping()
	for _, g := range p.Groups {
		totals.Content = append(totals.Content, key(g.SummaryKey()), integer(g.SensorCount))
	}
	totals.Content = append(totals.Content,
		key("total_contact_points"), integer(p.TotalPads()),
		key("force_sensors"), integer(len(p.Groups)),
	)

	specs := mapping(
		key("trigger_force"), integer(p.Specs.TriggerForce),
		key("force_range"), integer(p.Specs.ForceRange),
		key("sample_rate"), integer(p.Specs.SampleRate),
	)

	if mm, ok := p.UniformThicknessMM(); ok {
		totals.Content = append(totals.Content, key("uniform_thickness"), float(mm))
		specs.Content = append(specs.Content, key("thickness"), float(mm))
	}

	asset := mapping(
		key("class_type"), key(ClassType),
		key("usd_path"), quoted(usdPath),
		key("physics"), mapping(
			key("rigid_body_enabled"), boolean(true),
			key("kinematic_enabled"), boolean(false),
			key("disable_gravity"), boolean(false),
		),
		key("contact_sensors"), sensors,
		key("total_sensors"), totals,
		key("sensor_specs"), specs,
	)

	return mapping(key(p.AssetKey), asset)
}

func groupNode(g sensor.PadGroup) *yaml.Node {
	grid := flow()
	for _, n := range g.Grid {
		grid.Content = append(grid.Content, integer(n))
	}
	size := flow()
	for _, f := range g.PadSize {
		size.Content = append(size.Content, float(f))
	}
	return mapping(
		key("prim_path"), quoted(g.PrimPath),
		key("update_period"), float(g.UpdatePeriod),
		key("force_threshold"), float(g.ForceThreshold),
		key("torque_threshold"), float(g.TorqueThreshold),
		key("sensor_count"), integer(g.SensorCount),
		key("grid_size"), grid,
		key("pad_size"), size,
		key("color"), quoted(g.Color),
	)
}

// Render serializes the header and document for p.
func Render(p sensor.Profile, usdPath string, meta Meta) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(Header(p, meta))
	buf.WriteString("\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(Build(p, usdPath)); err != nil {
		return nil, fmt.Errorf("encode %s: %w", p.Name, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode %s: %w", p.Name, err)
	}
	return buf.Bytes(), nil
}

// WriteFile renders p and writes it to path, replacing any existing file.
// Returns the bytes written.
func WriteFile(path string, p sensor.Profile, usdPath string, meta Meta) ([]byte, error) {
	data, err := Render(p, usdPath, meta)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	return data, nil
}

func mapping(content ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: content}
}

func flow() *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
}

func key(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func quoted(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s, Style: yaml.DoubleQuotedStyle}
}

func integer(n int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(n)}
}

func boolean(b bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(b)}
}

func float(f float64) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatFloat(f)}
}

// formatFloat renders f in shortest decimal form, keeping a fractional part
// so the scalar still resolves as a float.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
