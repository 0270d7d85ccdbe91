package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/Parrot-Developers/libARCommands-sub000/pkg/codec"
	"github.com/Parrot-Developers/libARCommands-sub000/pkg/model"
)

// Shell is the interactive arcmd mode.
type Shell struct {
	env *Env
	dec *codec.Decoder

	// last holds the most recently encoded command.
	last []byte
}

// NewShell creates a shell over env. Call Run to start reading input.
func NewShell(env *Env) *Shell {
	return &Shell{
		env: env,
		dec: codec.NewDecoder(env.Registry),
	}
}

// Run starts the interactive command loop. It returns when the input ends,
// the user quits or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "arcmd> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    s.completer(),
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()
	defer s.dec.Close()

	s.printHelp(rl.Stdout())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			return nil
		}
		if s.Exec(line, rl.Stdout()) {
			return nil
		}
	}
}

func (s *Shell) completer() *readline.PrefixCompleter {
	names := make([]readline.PrefixCompleterInterface, 0, s.env.Registry.Len())
	for _, info := range s.env.Registry.Commands() {
		names = append(names, readline.PcItem(info.Name()))
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("encode", names...),
		readline.PcItem("list"),
		readline.PcItem("describe"),
		readline.PcItem("decode"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)
}

// Exec runs one shell line, writing its output to w. It reports whether the
// shell should exit.
func (s *Shell) Exec(line string, w io.Writer) (quit bool) {
	parts := strings.Fields(strings.TrimSpace(line))
	if len(parts) == 0 {
		return false
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp(w)
	case "list", "ls":
		prefix := ""
		if len(args) > 0 {
			prefix = args[0]
		}
		RunList(s.env.Registry, prefix, w)
	case "describe", "d":
		s.cmdDescribe(args, w)
	case "encode", "e":
		s.cmdEncode(args, w)
	case "decode":
		s.cmdDecode(args, w)
	case "quit", "exit", "q":
		fmt.Fprintln(w, "Exiting...")
		return true
	default:
		fmt.Fprintf(w, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (s *Shell) printHelp(w io.Writer) {
	fmt.Fprintln(w, `Commands:
  list [prefix]             List commands, optionally by name prefix
  encode <name> [args...]   Generate a command and print it as hex
  describe [hex]            Describe a command (default: last encoded)
  decode [hex]              Decode a command into typed arguments
  help                      Show this help
  exit                      Leave the shell`)
}

func (s *Shell) input(args []string) ([]byte, error) {
	if len(args) == 0 {
		if s.last == nil {
			return nil, errors.New("no command encoded yet")
		}
		return s.last, nil
	}
	return ParseHex(args...)
}

func (s *Shell) cmdDescribe(args []string, w io.Writer) {
	buf, err := s.input(args)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	text, err := codec.DescribeString(s.env.Registry, buf)
	if text != "" {
		fmt.Fprintln(w, text)
	}
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}

func (s *Shell) cmdEncode(args []string, w io.Writer) {
	if len(args) == 0 {
		fmt.Fprintln(w, "Usage: encode <name> [args...]")
		fmt.Fprintln(w, "  Example: encode ardrone3.Piloting.PCMD 1 0 10 0 0 0")
		return
	}
	info, values, err := BuildArgs(s.env.Registry, args[0], args[1:])
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	buf, err := codec.Encode(s.env.Registry, info.ID, values...)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	s.last = buf
	fmt.Fprintf(w, "% x\n", buf)
}

func (s *Shell) cmdDecode(args []string, w io.Writer) {
	buf, err := s.input(args)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	id, values, err := s.dec.DecodeArgs(buf)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	info, _ := s.env.Registry.Lookup(id)
	fmt.Fprintf(w, "%s [%s]\n", info.Name(), id)
	for i, a := range info.Command.Args {
		fmt.Fprintf(w, "  %s %s = %s\n", a.Name, a.Type, formatValue(a, values[i]))
	}
}

func formatValue(a model.ArgDef, v any) string {
	switch x := v.(type) {
	case uint32:
		if a.Type == model.ArgEnum && a.Enum != nil {
			if name := a.Enum.NameOf(x); name != "" {
				return fmt.Sprintf("%s (%d)", name, x)
			}
		}
	case *model.Multisetting:
		var sb strings.Builder
		for _, slot := range x.Slots {
			if slot.IsSet {
				fmt.Fprintf(&sb, "{%s %v}", slot.ID, slot.Args)
			}
		}
		return sb.String()
	case string:
		return fmt.Sprintf("%q", x)
	}
	return fmt.Sprintf("%v", v)
}
