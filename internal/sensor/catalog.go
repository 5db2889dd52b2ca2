package sensor

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"
	"golang.org/x/text/unicode/norm"
)

//go:embed schema.cue
var schemaCUE string

//go:embed profiles.cue
var profilesCUE string

// DefaultProfile is the profile used when none is requested.
const DefaultProfile = "thumb4"

// ErrUnknownProfile is returned by Catalog.Get for names it does not hold.
var ErrUnknownProfile = errors.New("unknown profile")

// ProfileError reports a profile that could not be loaded or decoded.
type ProfileError struct {
	Code    string
	Profile string
	Message string
	Pos     token.Pos
}

func (e *ProfileError) Error() string {
	where := e.Code
	if e.Pos.IsValid() {
		where = fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code)
	}
	if e.Profile != "" {
		return fmt.Sprintf("%s: profile %s: %s", where, e.Profile, e.Message)
	}
	return fmt.Sprintf("%s: %s", where, e.Message)
}

// Catalog is an ordered, validated set of profiles.
type Catalog struct {
	profiles []Profile
	byName   map[string]int
}

// Builtin returns the catalog compiled from the embedded profiles.cue.
func Builtin() (*Catalog, error) {
	ctx := cuecontext.New()
	value := ctx.CompileString(profilesCUE, cue.Filename("profiles.cue"))
	if err := value.Err(); err != nil {
		return nil, &ProfileError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building built-in profiles: %v", err)}
	}
	return fromValue(ctx, value)
}

// LoadDir loads every .cue file in dir as one CUE package and decodes the
// profiles it declares. Files need a package clause and declare plain
// `profile: <name>: {...}` structs; the schema is unified in by the loader.
func LoadDir(dir string) (*Catalog, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &ProfileError{Code: ErrCodeNotFound, Message: fmt.Sprintf("profiles directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &ProfileError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing profiles directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &ProfileError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.cue"))
	if err != nil {
		return nil, &ProfileError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("scanning %s: %v", dir, err)}
	}
	if len(matches) == 0 {
		return nil, &ProfileError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &ProfileError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &ProfileError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	ctx := cuecontext.New()
	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, &ProfileError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}
	return fromValue(ctx, value)
}

func fromValue(ctx *cue.Context, value cue.Value) (*Catalog, error) {
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, &ProfileError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building schema: %v", err)}
	}
	value = schema.Unify(value)
	if err := value.Err(); err != nil {
		return nil, &ProfileError{Code: ErrCodeSchema, Message: err.Error(), Pos: value.Pos()}
	}

	profilesVal := value.LookupPath(cue.ParsePath("profile"))
	if !profilesVal.Exists() {
		return nil, &ProfileError{Code: ErrCodeNoProfiles, Message: "no profiles declared"}
	}
	iter, err := profilesVal.Fields()
	if err != nil {
		return nil, &ProfileError{Code: ErrCodeSchema, Message: fmt.Sprintf("iterating profiles: %v", err)}
	}

	c := &Catalog{byName: make(map[string]int)}
	for iter.Next() {
		name := iter.Label()
		p, err := decodeProfile(name, iter.Value())
		if err != nil {
			return nil, err
		}
		if errs := Validate(p); len(errs) > 0 {
			return nil, &ProfileError{Code: errs[0].Code, Profile: name, Message: errs[0].Message, Pos: iter.Value().Pos()}
		}
		c.byName[name] = len(c.profiles)
		c.profiles = append(c.profiles, p)
	}
	if len(c.profiles) == 0 {
		return nil, &ProfileError{Code: ErrCodeNoProfiles, Message: "no profiles declared"}
	}
	return c, nil
}

func decodeProfile(name string, v cue.Value) (Profile, error) {
	var p Profile
	if err := v.Decode(&p); err != nil {
		return Profile{}, &ProfileError{Code: ErrCodeSchema, Profile: name, Message: err.Error(), Pos: v.Pos()}
	}
	p.Name = name
	p.Title = norm.NFC.String(p.Title)
	p.AssetKey = norm.NFC.String(p.AssetKey)
	p.NewGroup = norm.NFC.String(p.NewGroup)
	for i := range p.Groups {
		g := &p.Groups[i]
		g.Name = norm.NFC.String(g.Name)
		g.Label = norm.NFC.String(g.Label)
		g.PrimPath = norm.NFC.String(g.PrimPath)
		g.Color = norm.NFC.String(g.Color)
	}
	return p, nil
}

// Get returns the named profile.
func (c *Catalog) Get(name string) (Profile, error) {
	i, ok := c.byName[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w %q (available: %v)", ErrUnknownProfile, name, c.Names())
	}
	return c.profiles[i], nil
}

// Profiles returns the profiles in declaration order.
func (c *Catalog) Profiles() []Profile {
	out := make([]Profile, len(c.profiles))
	copy(out, c.profiles)
	return out
}

// Names returns the profile names sorted alphabetically.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.profiles))
	for _, p := range c.profiles {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}

// Merge returns a catalog holding c's profiles followed by other's. A
// profile in other replaces the one of the same name in c, keeping c's
// position.
func (c *Catalog) Merge(other *Catalog) *Catalog {
	out := &Catalog{byName: make(map[string]int, len(c.profiles)+len(other.profiles))}
	for _, p := range c.profiles {
		out.byName[p.Name] = len(out.profiles)
		out.profiles = append(out.profiles, p)
	}
	for _, p := range other.profiles {
		if i, ok := out.byName[p.Name]; ok {
			out.profiles[i] = p
			continue
		}
		out.byName[p.Name] = len(out.profiles)
		out.profiles = append(out.profiles, p)
	}
	return out
}
