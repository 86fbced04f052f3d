package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Cyclone1070/vault/internal/collab"
	"github.com/Cyclone1070/vault/internal/picker"
	"github.com/Cyclone1070/vault/internal/remote/github"
	"github.com/Cyclone1070/vault/internal/template"
	"github.com/Cyclone1070/vault/internal/workspace"
	"github.com/Cyclone1070/vault/internal/workspace/graph"
	"github.com/Cyclone1070/vault/internal/workspace/pathutil"
	"github.com/spf13/pflag"
)

type command struct {
	usage   string
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"tree":       {"", "print the workspace tree", runTree},
	"new-file":   {"[--lang tag] <path>", "create a file", runNewFile},
	"new-folder": {"<path>", "create a folder", runNewFolder},
	"rm":         {"<path>", "delete a node and everything below it", runRemove},
	"toggle":     {"<path>", "expand or collapse a folder", runToggle},
	"cat":        {"<path>", "print a file", runCat},
	"edit":       {"<path> [source|-]", "replace a file's content from a file or stdin", runEdit},
	"template":   {"<html|python|react>", "replace the workspace with a starter template", runTemplate},
	"gitignore":  {"", "generate a .gitignore for the workspace languages", runGitignore},
	"import-zip": {"<archive.zip>", "import a zip archive", runImportZip},
	"export-zip": {"<archive.zip>", "export the workspace as a zip archive", runExportZip},
	"import-dir": {"<dir>", "import a local directory", runImportDir},
	"pull":       {"<owner/repo>", "import every file of a GitHub repository", runPull},
	"deploy":     {"[name]", "push the workspace to a new GitHub repository", runDeploy},
	"run":        {"<path>", "execute a file", runRun},
	"ask":        {"<path> <prompt...>", "ask the assistant and append its code to a file", runAsk},
	"history":    {"", "list past pushes", runHistory},
	"browse":     {"[--metrics-addr addr]", "open the interactive explorer", runBrowse},
}

func expectArgs(args []string, n int, usage string) error {
	if len(args) != n {
		return fmt.Errorf("expected %d argument(s): %s", n, usage)
	}
	return nil
}

// lookup resolves a workspace path to its node.
func lookup(ws *workspace.Workspace, path string) (graph.Node, error) {
	n, ok := ws.Find(path)
	if !ok {
		return graph.Node{}, fmt.Errorf("%w: %s", graph.ErrNodeNotFound, path)
	}
	return n, nil
}

// parentOf resolves the folder a new node at path goes into.
func parentOf(ws *workspace.Workspace, path string) (name, parentID string, err error) {
	leaf, ancestors := pathutil.DecomposePath(path)
	if leaf == "" || pathutil.IsUnsafe(path) {
		return "", "", fmt.Errorf("invalid path %q", path)
	}
	if len(ancestors) == 0 {
		return leaf, "", nil
	}
	dir := pathutil.JoinPath(ancestors[len(ancestors)-1], ancestors[:len(ancestors)-1])
	parent, err := lookup(ws, dir)
	if err != nil {
		return "", "", err
	}
	if !parent.IsFolder() {
		return "", "", fmt.Errorf("%w: %s", graph.ErrParentNotFolder, dir)
	}
	return leaf, parent.ID, nil
}

func runTree(_ context.Context, a *app, args []string) error {
	if err := expectArgs(args, 0, "tree"); err != nil {
		return err
	}
	g := a.ws.Graph()
	active, _ := a.ws.Active()
	if g.Len() == 0 {
		fmt.Fprintln(a.stdout, "(empty)")
		return nil
	}

	var walk func(parentID string, depth int)
	walk = func(parentID string, depth int) {
		for _, n := range g.Children(parentID) {
			indent := strings.Repeat("  ", depth)
			switch {
			case n.IsFolder() && !n.Expanded:
				fmt.Fprintf(a.stdout, "%s%s/ (collapsed)\n", indent, n.Name)
			case n.IsFolder():
				fmt.Fprintf(a.stdout, "%s%s/\n", indent, n.Name)
			case n.ID == active.ID:
				fmt.Fprintf(a.stdout, "%s%s *\n", indent, n.Name)
			default:
				fmt.Fprintf(a.stdout, "%s%s\n", indent, n.Name)
			}
			if n.IsFolder() {
				walk(n.ID, depth+1)
			}
		}
	}
	walk("", 0)
	return nil
}

func runNewFile(_ context.Context, a *app, args []string) error {
	flagSet := pflag.NewFlagSet("new-file", pflag.ContinueOnError)
	lang := flagSet.String("lang", "", "language tag (default: derived from the extension)")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if err := expectArgs(flagSet.Args(), 1, "new-file [--lang tag] <path>"); err != nil {
		return err
	}
	name, parentID, err := parentOf(a.ws, flagSet.Arg(0))
	if err != nil {
		return err
	}
	n, err := a.ws.CreateFile(name, *lang, parentID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "created %s (%s)\n", flagSet.Arg(0), n.Language)
	return nil
}

func runNewFolder(_ context.Context, a *app, args []string) error {
	if err := expectArgs(args, 1, "new-folder <path>"); err != nil {
		return err
	}
	name, parentID, err := parentOf(a.ws, args[0])
	if err != nil {
		return err
	}
	if _, err := a.ws.CreateFolder(name, parentID); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "created %s/\n", args[0])
	return nil
}

func runRemove(_ context.Context, a *app, args []string) error {
	if err := expectArgs(args, 1, "rm <path>"); err != nil {
		return err
	}
	n, err := lookup(a.ws, args[0])
	if err != nil {
		return err
	}
	removed, err := a.ws.Delete(n.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "removed %d node(s)\n", len(removed))
	return nil
}

func runToggle(_ context.Context, a *app, args []string) error {
	if err := expectArgs(args, 1, "toggle <path>"); err != nil {
		return err
	}
	n, err := lookup(a.ws, args[0])
	if err != nil {
		return err
	}
	expanded, err := a.ws.ToggleFolder(n.ID)
	if err != nil {
		return err
	}
	state := "collapsed"
	if expanded {
		state = "expanded"
	}
	fmt.Fprintf(a.stdout, "%s %s\n", args[0], state)
	return nil
}

func runCat(_ context.Context, a *app, args []string) error {
	if err := expectArgs(args, 1, "cat <path>"); err != nil {
		return err
	}
	n, err := lookup(a.ws, args[0])
	if err != nil {
		return err
	}
	if n.IsFolder() {
		return fmt.Errorf("%w: %s", graph.ErrNotAFile, args[0])
	}
	_, err = io.WriteString(a.stdout, n.Content)
	return err
}

func runEdit(_ context.Context, a *app, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("expected 1 or 2 arguments: edit <path> [source|-]")
	}
	n, err := lookup(a.ws, args[0])
	if err != nil {
		return err
	}

	var content []byte
	if len(args) == 2 && args[1] != "-" {
		content, err = os.ReadFile(args[1])
	} else {
		content, err = io.ReadAll(a.stdin)
	}
	if err != nil {
		return err
	}
	if err := a.ws.Select(n.ID); err != nil {
		return err
	}
	return a.ws.EditActive(string(content))
}

func runTemplate(_ context.Context, a *app, args []string) error {
	if err := expectArgs(args, 1, "template <html|python|react>"); err != nil {
		return err
	}
	if err := a.ws.LoadTemplate(template.Kind(args[0])); err != nil {
		return err
	}
	printLastLine(a)
	return nil
}

func runGitignore(_ context.Context, a *app, args []string) error {
	if err := expectArgs(args, 0, "gitignore"); err != nil {
		return err
	}
	if _, err := a.ws.GenerateGitignore(); err != nil {
		return err
	}
	printLastLine(a)
	return nil
}

func runImportZip(_ context.Context, a *app, args []string) error {
	if err := expectArgs(args, 1, "import-zip <archive.zip>"); err != nil {
		return err
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	if _, err := a.ws.ImportArchive(data); err != nil {
		return err
	}
	printLastLine(a)
	return nil
}

func runExportZip(_ context.Context, a *app, args []string) error {
	if err := expectArgs(args, 1, "export-zip <archive.zip>"); err != nil {
		return err
	}
	data, err := a.ws.ExportArchive()
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[0], data, 0o644); err != nil {
		return err
	}
	printLastLine(a)
	return nil
}

func runImportDir(_ context.Context, a *app, args []string) error {
	if err := expectArgs(args, 1, "import-dir <dir>"); err != nil {
		return err
	}
	picks, err := picker.WalkDir(args[0])
	if err != nil {
		return err
	}
	nodes, err := a.ws.ImportPicked(picks)
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		fmt.Fprintln(a.stdout, "nothing to import")
		return nil
	}
	printLastLine(a)
	return nil
}

func runPull(ctx context.Context, a *app, args []string) error {
	if err := expectArgs(args, 1, "pull <owner/repo>"); err != nil {
		return err
	}
	nodes, err := a.ws.ImportRemote(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "imported %d file(s) from %s\n", len(nodes), args[0])
	return nil
}

func runDeploy(ctx context.Context, a *app, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("expected at most 1 argument: deploy [name]")
	}
	name := a.cfg.Remote.DefaultProjectName
	if len(args) == 1 {
		name = args[0]
	}
	creds := github.Credentials{Provider: a.cfg.Remote.Provider, Token: a.cfg.Remote.Token}

	result, err := a.ws.Deploy(ctx, creds, name)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "pushed %d file(s) to %s\n", len(result.Uploaded), result.URL)
	return nil
}

func runRun(ctx context.Context, a *app, args []string) error {
	if err := expectArgs(args, 1, "run <path>"); err != nil {
		return err
	}
	n, err := lookup(a.ws, args[0])
	if err != nil {
		return err
	}
	if err := a.ws.Select(n.ID); err != nil {
		return err
	}
	lines, err := a.ws.Run(ctx)
	printLines(a.stdout, lines)
	return err
}

func runAsk(ctx context.Context, a *app, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("expected a path and a prompt: ask <path> <prompt...>")
	}
	n, err := lookup(a.ws, args[0])
	if err != nil {
		return err
	}
	if err := a.ws.Select(n.ID); err != nil {
		return err
	}
	code, err := a.ws.Ask(ctx, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, code)
	return nil
}

func runHistory(_ context.Context, a *app, args []string) error {
	if err := expectArgs(args, 0, "history"); err != nil {
		return err
	}
	snaps := a.ws.Snapshots()
	if len(snaps) == 0 {
		fmt.Fprintln(a.stdout, "No pushes yet.")
		return nil
	}
	for _, s := range snaps {
		when := time.UnixMilli(s.Timestamp).UTC().Format(time.RFC3339)
		fmt.Fprintf(a.stdout, "%s  %s  %s  %s\n", s.ID, when, s.Branch, s.Message)
	}
	return nil
}

func printLastLine(a *app) {
	lines := a.ws.Log()
	if len(lines) == 0 {
		return
	}
	printLines(a.stdout, lines[len(lines)-1:])
}

func printLines(w io.Writer, lines []collab.Line) {
	for _, l := range lines {
		if l.Type == collab.LineError {
			fmt.Fprintf(w, "! %s\n", l.Text)
			continue
		}
		fmt.Fprintln(w, l.Text)
	}
}
