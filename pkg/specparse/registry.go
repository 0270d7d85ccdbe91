package specparse

import (
	"fmt"

	"github.com/Parrot-Developers/libARCommands-sub000/pkg/model"
)

// ParseRegistry parses a single YAML schema and returns a sealed registry.
func ParseRegistry(data []byte) (*model.Registry, error) {
	schema, err := ParseSchema(data)
	if err != nil {
		return nil, err
	}
	return BuildRegistry(schema)
}

// LoadRegistry loads one or more schema files into a single sealed registry.
// Multisettings may reference commands declared in any of the files.
func LoadRegistry(paths ...string) (*model.Registry, error) {
	schemas := make([]*RawSchema, 0, len(paths))
	for _, p := range paths {
		s, err := LoadSchema(p)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, s)
	}
	return BuildRegistry(schemas...)
}

// BuildRegistry converts parsed schemas into a sealed registry.
func BuildRegistry(schemas ...*RawSchema) (*model.Registry, error) {
	multis := make(map[string]*model.MultisettingDef)
	var rawMultis []RawMultisettingDef
	for _, s := range schemas {
		for _, m := range s.Multisettings {
			if m.Name == "" {
				return nil, fmt.Errorf("multisetting definition missing name")
			}
			if _, dup := multis[m.Name]; dup {
				return nil, fmt.Errorf("multisetting %s: %w", m.Name, model.ErrDuplicateName)
			}
			multis[m.Name] = &model.MultisettingDef{Name: m.Name}
			rawMultis = append(rawMultis, m)
		}
	}

	reg := model.NewRegistry()
	for _, s := range schemas {
		for i := range s.Features {
			f, err := buildFeature(&s.Features[i], multis)
			if err != nil {
				return nil, err
			}
			if err := reg.Register(f); err != nil {
				return nil, err
			}
		}
	}

	for _, raw := range rawMultis {
		def := multis[raw.Name]
		for _, name := range raw.Members {
			id, ok := reg.Resolve(name)
			if !ok {
				return nil, fmt.Errorf("multisetting %s member %q: %w", raw.Name, name, model.ErrUnknownMultisetting)
			}
			if def.Index(id) >= 0 {
				return nil, fmt.Errorf("multisetting %s member %q: %w", raw.Name, name, model.ErrDuplicateID)
			}
			def.Members = append(def.Members, id)
		}
	}

	if err := reg.Seal(); err != nil {
		return nil, err
	}
	return reg, nil
}

func buildFeature(raw *RawFeatureDef, multis map[string]*model.MultisettingDef) (*model.FeatureDef, error) {
	enums := make(map[string]*model.EnumDef, len(raw.Enums))
	for _, e := range raw.Enums {
		if _, dup := enums[e.Name]; dup {
			return nil, fmt.Errorf("%s enum %s: %w", raw.Name, e.Name, model.ErrDuplicateName)
		}
		enums[e.Name] = buildEnum(e.Name, e.Values)
	}

	f := &model.FeatureDef{
		ID:          raw.ID,
		Name:        raw.Name,
		Description: raw.Description,
	}
	if len(raw.Commands) > 0 {
		c, err := buildClass(raw.Name, RawClassDef{ID: model.FeatureClass, Commands: raw.Commands}, enums, multis)
		if err != nil {
			return nil, err
		}
		f.Classes = append(f.Classes, c)
	}
	for _, rc := range raw.Classes {
		c, err := buildClass(raw.Name, rc, enums, multis)
		if err != nil {
			return nil, err
		}
		f.Classes = append(f.Classes, c)
	}
	return f, nil
}

func buildClass(feature string, raw RawClassDef, enums map[string]*model.EnumDef, multis map[string]*model.MultisettingDef) (*model.ClassDef, error) {
	c := &model.ClassDef{ID: raw.ID, Name: raw.Name}
	for _, rc := range raw.Commands {
		cmd := &model.CommandDef{
			ID:          rc.ID,
			Name:        rc.Name,
			Description: rc.Description,
			Deprecated:  rc.Deprecated,
		}
		for _, ra := range rc.Args {
			a, err := buildArg(ra, enums, multis)
			if err != nil {
				return nil, fmt.Errorf("%s.%s argument %q: %w", feature, rc.Name, ra.Name, err)
			}
			cmd.Args = append(cmd.Args, a)
		}
		c.Commands = append(c.Commands, cmd)
	}
	return c, nil
}

func buildArg(raw RawArgDef, enums map[string]*model.EnumDef, multis map[string]*model.MultisettingDef) (model.ArgDef, error) {
	t, err := model.ParseArgType(raw.Type)
	if err != nil {
		return model.ArgDef{}, err
	}
	a := model.ArgDef{Name: raw.Name, Type: t, Description: raw.Description}

	switch t {
	case model.ArgEnum, model.ArgBitfield:
		switch {
		case raw.Enum != "":
			e, ok := enums[raw.Enum]
			if !ok {
				return model.ArgDef{}, fmt.Errorf("unknown enum %q", raw.Enum)
			}
			a.Enum = e
		case len(raw.Values) > 0:
			a.Enum = buildEnum(raw.Name, raw.Values)
		case t == model.ArgEnum:
			return model.ArgDef{}, fmt.Errorf("enum without values")
		}
		if t == model.ArgBitfield {
			underlying := raw.Underlying
			if underlying == "" {
				underlying = "u32"
			}
			if a.Underlying, err = model.ParseArgType(underlying); err != nil {
				return model.ArgDef{}, err
			}
		}
	case model.ArgMultisetting:
		m, ok := multis[raw.Multisetting]
		if !ok {
			return model.ArgDef{}, fmt.Errorf("unknown multisetting %q", raw.Multisetting)
		}
		a.Multisetting = m
	}
	return a, nil
}

func buildEnum(name string, values []RawEnumValue) *model.EnumDef {
	e := &model.EnumDef{Name: name, Values: make([]model.EnumValue, len(values))}
	for i, v := range values {
		ev := model.EnumValue{Name: v.Name, Value: uint32(i), Description: v.Description}
		if v.Value != nil {
			ev.Value = *v.Value
		}
		e.Values[i] = ev
	}
	return e
}
