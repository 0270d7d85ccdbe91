package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/Parrot-Developers/libARCommands-sub000/pkg/codec"
	"github.com/Parrot-Developers/libARCommands-sub000/pkg/model"
)

// ParseHex decodes a command given as hex. Whitespace, ':' separators and
// 0x prefixes are ignored, so "01 00 05 00", "01:00:05:00" and "0x01000500"
// are equivalent.
func ParseHex(parts ...string) ([]byte, error) {
	var sb strings.Builder
	for _, p := range parts {
		for _, field := range strings.FieldsFunc(p, func(r rune) bool { return r == ':' || r == ' ' || r == '\t' }) {
			field = strings.TrimPrefix(strings.TrimPrefix(field, "0x"), "0X")
			sb.WriteString(field)
		}
	}
	b, err := hex.DecodeString(sb.String())
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return b, nil
}

// RunDescribe prints the description of the command given as hex. The text
// of an unknown command is printed before its error is returned.
func RunDescribe(reg *model.Registry, hexParts []string, w io.Writer) error {
	buf, err := ParseHex(hexParts...)
	if err != nil {
		return err
	}
	text, err := codec.DescribeString(reg, buf)
	if text != "" {
		fmt.Fprintln(w, text)
	}
	return err
}

// EncodeOptions controls the encode command output.
type EncodeOptions struct {
	// Capture appends the command as a frame to this capture file.
	Capture string
}

// BuildArgs resolves name and parses one text argument per command argument.
func BuildArgs(reg *model.Registry, name string, texts []string) (model.CommandInfo, []any, error) {
	id, ok := reg.Resolve(name)
	if !ok {
		return model.CommandInfo{}, nil, fmt.Errorf("unknown command %q", name)
	}
	info, _ := reg.Lookup(id)
	if len(texts) != len(info.Command.Args) {
		return info, nil, fmt.Errorf("%s takes %d arguments (%s), got %d",
			info.Name(), len(info.Command.Args), argSignature(info.Command), len(texts))
	}
	args := make([]any, len(texts))
	for i, a := range info.Command.Args {
		var err error
		if a.Type == model.ArgMultisetting {
			args[i], err = parseMultisetting(reg, info, a, texts[i])
		} else {
			args[i], err = model.ParseArg(a, texts[i])
		}
		if err != nil {
			return info, nil, err
		}
	}
	return info, args, nil
}

// parseMultisetting parses "member=arg,arg;member=arg". Members are named
// relative to the command's feature or by their full dotted name.
func parseMultisetting(reg *model.Registry, owner model.CommandInfo, a model.ArgDef, text string) (*model.Multisetting, error) {
	m := model.NewMultisetting(reg, a.Multisetting)
	for _, entry := range strings.Split(text, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, argText, _ := strings.Cut(entry, "=")
		id, ok := reg.Resolve(owner.Feature.Name + "." + name)
		if !ok {
			if id, ok = reg.Resolve(name); !ok {
				return nil, fmt.Errorf("argument %q: unknown member %q", a.Name, name)
			}
		}
		info, _ := reg.Lookup(id)
		var fields []string
		if strings.TrimSpace(argText) != "" {
			fields = strings.Split(argText, ",")
		}
		if len(fields) != len(info.Command.Args) {
			return nil, fmt.Errorf("argument %q: member %s takes %d arguments, got %d",
				a.Name, info.Name(), len(info.Command.Args), len(fields))
		}
		args := make([]any, len(fields))
		for i, sub := range info.Command.Args {
			v, err := model.ParseArg(sub, fields[i])
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		if err := m.Set(id, args...); err != nil {
			return nil, fmt.Errorf("argument %q: %w", a.Name, err)
		}
	}
	return m, nil
}

// RunEncode generates the named command and prints it as hex followed by
// its description.
func RunEncode(reg *model.Registry, name string, texts []string, opts EncodeOptions, w io.Writer) error {
	info, args, err := BuildArgs(reg, name, texts)
	if err != nil {
		return err
	}
	buf, err := codec.Encode(reg, info.ID, args...)
	if err != nil {
		return fmt.Errorf("encode %s: %w", info.Name(), err)
	}
	fmt.Fprintln(w, hex.EncodeToString(buf))
	if text, err := codec.DescribeString(reg, buf); err == nil {
		fmt.Fprintln(w, text)
	}
	if info.Command.Deprecated {
		fmt.Fprintf(w, "warning: %s is deprecated\n", info.Name())
	}

	if opts.Capture != "" {
		if err := appendCapture(opts.Capture, buf); err != nil {
			return err
		}
	}
	return nil
}

// RunList prints every command whose dotted name starts with prefix.
func RunList(reg *model.Registry, prefix string, w io.Writer) {
	prefix = strings.ToLower(prefix)
	for _, info := range reg.Commands() {
		name := info.Name()
		if !strings.HasPrefix(strings.ToLower(name), prefix) {
			continue
		}
		fmt.Fprintf(w, "%-8s %s(%s)", info.ID, name, argSignature(info.Command))
		if info.Command.Deprecated {
			fmt.Fprint(w, " [deprecated]")
		}
		fmt.Fprintln(w)
	}
}

func argSignature(cmd *model.CommandDef) string {
	parts := make([]string, len(cmd.Args))
	for i, a := range cmd.Args {
		parts[i] = a.Name + " " + a.Type.String()
	}
	return strings.Join(parts, ", ")
}
