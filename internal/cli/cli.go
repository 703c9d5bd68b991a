// Package cli implements the assembler's command surface: the batch
// `assembler <basename1> [<basename2> ...]` contract from the external
// interface, plus a small `config` command tree for inspecting and
// overriding the capacity limits, built the way the teacher repo wires
// its own command tree in host/cmds.go and host/host.go.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/beevik/cmd"

	"github.com/arnediff/asm24/internal/assemble"
	"github.com/arnediff/asm24/internal/config"
	"github.com/arnediff/asm24/internal/objimage"
	"github.com/arnediff/asm24/internal/preproc"
)

// Assembler is the command-line host: it owns the configurable limits
// and the output streams every command writes to, and drives the
// assemble/config command tree.
type Assembler struct {
	Limits *config.Limits
	Stdout io.Writer
	Stderr io.Writer

	failed bool
}

// New creates an Assembler with default limits, writing to os.Stdout
// and os.Stderr.
func New() *Assembler {
	return &Assembler{
		Limits: config.Default(),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

var cmds *cmd.Tree

func init() {
	cmds = cmd.NewTree(cmd.TreeDescriptor{Name: "assembler"})

	cmds.AddCommand(cmd.CommandDescriptor{
		Name:  "assemble",
		Brief: "Assemble a source file",
		Usage: "assemble <basename>",
		Data:  (*Assembler).cmdAssemble,
	})

	config := cmds.AddSubtree(cmd.TreeDescriptor{
		Name:  "config",
		Brief: "Inspect or change capacity limits",
	})
	config.AddCommand(cmd.CommandDescriptor{
		Name:  "show",
		Brief: "Display all capacity limits",
		Usage: "config show",
		Data:  (*Assembler).cmdConfigShow,
	})
	config.AddCommand(cmd.CommandDescriptor{
		Name:  "set",
		Brief: "Change a capacity limit",
		Usage: "config set <name> <value>",
		Data:  (*Assembler).cmdConfigSet,
	})
}

// Run implements the batch CLI contract of the external interface: every
// element of args is treated as a basename to assemble, in order except
// a leading "config" invokes the config subtree instead. It returns the
// process exit code: 0 iff every job succeeded, 1 otherwise.
func (a *Assembler) Run(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(a.Stderr, "usage: assembler <basename1> [<basename2> ...]")
		return 1
	}

	if args[0] == "config" {
		a.dispatch("config " + strings.Join(args[1:], " "))
		if a.failed {
			return 1
		}
		return 0
	}

	for _, basename := range args {
		a.dispatch("assemble " + basename)
	}

	if a.failed {
		return 1
	}
	return 0
}

func (a *Assembler) dispatch(line string) {
	command, args, err := cmds.LookupCommand(line)
	switch {
	case err == cmd.ErrNotFound:
		fmt.Fprintln(a.Stderr, "command not found.")
		a.failed = true
		return
	case err == cmd.ErrAmbiguous:
		fmt.Fprintln(a.Stderr, "command is ambiguous.")
		a.failed = true
		return
	case err != nil:
		fmt.Fprintf(a.Stderr, "error: %v\n", err)
		a.failed = true
		return
	}

	handler := command.Data.(func(*Assembler, *cmd.Command, []string) error)
	if err := handler(a, command, args); err != nil {
		fmt.Fprintf(a.Stderr, "error: %v\n", err)
		a.failed = true
	}
}

func (a *Assembler) cmdAssemble(c *cmd.Command, args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(a.Stderr, c.Usage)
		return nil
	}

	if err := a.assembleBasename(args[0]); err != nil {
		fmt.Fprintln(a.Stderr, err)
		a.failed = true
	}
	return nil
}

func (a *Assembler) cmdConfigShow(c *cmd.Command, args []string) error {
	a.Limits.Display(a.Stdout)
	return nil
}

func (a *Assembler) cmdConfigSet(c *cmd.Command, args []string) error {
	if len(args) < 2 {
		fmt.Fprintln(a.Stderr, c.Usage)
		return nil
	}
	if err := a.Limits.Set(args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(a.Stdout, "%s updated.\n", args[0])
	return nil
}

// assembleBasename runs the complete pipeline for one source file
// named basename+".as": macro expansion to basename+".am", the two
// passes, and the three output artifacts.
func (a *Assembler) assembleBasename(basename string) error {
	srcPath := basename + ".as"
	rawLines, err := readSourceLines(srcPath, a.Limits)
	if err != nil {
		return err
	}

	expanded, err := preproc.Expand(rawLines, srcPath, a.Limits)
	if err != nil {
		return err
	}

	amPath := basename + ".am"
	if err := writeLines(amPath, expanded); err != nil {
		return fmt.Errorf("cannot create %s: %w", amPath, err)
	}

	amLines, err := readSourceLines(amPath, a.Limits)
	if err != nil {
		return err
	}

	job := assemble.NewJob(amPath, a.Limits)
	if err := job.Run(amLines); err != nil {
		return err
	}

	return writeArtifacts(basename, job)
}

func writeArtifacts(basename string, job *assemble.Job) error {
	obPath := basename + ".ob"
	obFile, err := os.OpenFile(obPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", obPath, err)
	}
	defer obFile.Close()
	if err := objimage.WriteObject(obFile, job); err != nil {
		return fmt.Errorf("cannot write %s: %w", obPath, err)
	}

	var entBuf strings.Builder
	wroteEnt, err := objimage.WriteEntries(&entBuf, job)
	if err != nil {
		return err
	}
	if wroteEnt {
		if err := os.WriteFile(basename+".ent", []byte(entBuf.String()), 0644); err != nil {
			return fmt.Errorf("cannot create %s.ent: %w", basename, err)
		}
	}

	var extBuf strings.Builder
	wroteExt, err := objimage.WriteExterns(&extBuf, job)
	if err != nil {
		return err
	}
	if wroteExt {
		if err := os.WriteFile(basename+".ext", []byte(extBuf.String()), 0644); err != nil {
			return fmt.Errorf("cannot create %s.ext: %w", basename, err)
		}
	}

	return nil
}

// readSourceLines reads path line by line, applying the configured
// line-length policy to each line's content.
func readSourceLines(path string, limits *config.Limits) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if len(line) > limits.MaxSourceLine {
			switch limits.OnLongLine {
			case config.TruncateLongLines:
				line = line[:limits.MaxSourceLine]
			default:
				return nil, fmt.Errorf("Error in %s line %d: source line exceeds %d characters", path, lineno, limits.MaxSourceLine)
			}
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return lines, nil
}

func writeLines(path string, lines []string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, l := range lines {
		if _, err := w.WriteString(l); err != nil {
			return err
		}
		if _, err := w.WriteString("\n"); err != nil {
			return err
		}
	}
	return w.Flush()
}
